package handlers

import (
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "paymentwall-gateway-api/models"
    "paymentwall-gateway-api/services/auth"
)

func TestGenerateTokenRequiresSecret(t *testing.T) {
    h := NewInternalHandler(auth.NewJWTService("s", "issuer"), "internal-secret")
    protected := h.RequireInternalSecret(h.GenerateToken)

    req := httptest.NewRequest("POST", "/internal/generate-token", strings.NewReader(`{"client_id":"c1"}`))
    rec := httptest.NewRecorder()
    protected.ServeHTTP(rec, req)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)

    req = httptest.NewRequest("POST", "/internal/generate-token", strings.NewReader(`{"client_id":"c1"}`))
    req.Header.Set("X-Internal-Secret", "wrong")
    rec = httptest.NewRecorder()
    protected.ServeHTTP(rec, req)
    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGenerateTokenIssuesValidJWT(t *testing.T) {
    jwtService := auth.NewJWTService("s", "issuer")
    h := NewInternalHandler(jwtService, "internal-secret")
    protected := h.RequireInternalSecret(h.GenerateToken)

    req := httptest.NewRequest("POST", "/internal/generate-token",
        strings.NewReader(`{"client_id":"billing-backend","role":"admin"}`))
    req.Header.Set("X-Internal-Secret", "internal-secret")
    rec := httptest.NewRecorder()
    protected.ServeHTTP(rec, req)

    require.Equal(t, http.StatusOK, rec.Code)

    var resp models.APIResponse
    require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
    assert.Equal(t, "success", resp.Status)

    data, ok := resp.Data.(map[string]interface{})
    require.True(t, ok)
    token, _ := data["token"].(string)
    require.NotEmpty(t, token)

    client, err := jwtService.ValidateToken(token)
    require.NoError(t, err)
    assert.Equal(t, "billing-backend", client.ClientID)
    assert.Equal(t, "admin", client.Role)
}

func TestGenerateTokenRequiresClientID(t *testing.T) {
    h := NewInternalHandler(auth.NewJWTService("s", "issuer"), "internal-secret")
    protected := h.RequireInternalSecret(h.GenerateToken)

    req := httptest.NewRequest("POST", "/internal/generate-token", strings.NewReader(`{}`))
    req.Header.Set("X-Internal-Secret", "internal-secret")
    rec := httptest.NewRecorder()
    protected.ServeHTTP(rec, req)

    assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateTokenEmptyConfiguredSecretDeniesAll(t *testing.T) {
    h := NewInternalHandler(auth.NewJWTService("s", "issuer"), "")
    protected := h.RequireInternalSecret(h.GenerateToken)

    req := httptest.NewRequest("POST", "/internal/generate-token", strings.NewReader(`{"client_id":"c1"}`))
    req.Header.Set("X-Internal-Secret", "")
    rec := httptest.NewRecorder()
    protected.ServeHTTP(rec, req)

    assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
