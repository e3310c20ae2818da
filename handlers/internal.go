// handlers/internal.go
package handlers

import (
    "encoding/json"
    "log"
    "net/http"
    "time"

    "paymentwall-gateway-api/models"
    "paymentwall-gateway-api/services/auth"
    "paymentwall-gateway-api/utils"
)

type InternalHandler struct {
    jwtService     *auth.JWTService
    internalSecret string
}

func NewInternalHandler(jwtService *auth.JWTService, internalSecret string) *InternalHandler {
    return &InternalHandler{
        jwtService:     jwtService,
        internalSecret: internalSecret,
    }
}

// RequireInternalSecret gates the token endpoint with a shared secret so
// only backend systems can mint tokens.
func (h *InternalHandler) RequireInternalSecret(next http.HandlerFunc) http.HandlerFunc {
    return func(w http.ResponseWriter, r *http.Request) {
        secret := r.Header.Get("X-Internal-Secret")
        if secret == "" || h.internalSecret == "" || secret != h.internalSecret {
            log.Printf("Invalid or missing internal secret from %s", r.RemoteAddr)
            utils.SendErrorResponse(w, http.StatusUnauthorized, "Unauthorized")
            return
        }
        next.ServeHTTP(w, r)
    }
}

// GenerateToken issues a JWT for a backend client.
func (h *InternalHandler) GenerateToken(w http.ResponseWriter, r *http.Request) {
    var req models.TokenRequest

    if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
        log.Printf("Error decoding token generation request: %v", err)
        utils.SendErrorResponse(w, http.StatusBadRequest, "Invalid request body")
        return
    }

    if req.ClientID == "" {
        utils.SendErrorResponse(w, http.StatusBadRequest, "client_id is required")
        return
    }

    if req.Role == "" {
        req.Role = "service"
    }

    client := models.APIClient{
        ClientID: req.ClientID,
        Role:     req.Role,
    }

    token, err := h.jwtService.GenerateToken(client, auth.TokenDuration)
    if err != nil {
        log.Printf("Error generating token for %s: %v", req.ClientID, err)
        utils.SendErrorResponse(w, http.StatusInternalServerError, "Failed to generate token")
        return
    }

    log.Printf("Generated token for client: %s (role: %s)", req.ClientID, req.Role)

    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Token generated successfully",
        Data: models.AuthResponse{
            Token:     token,
            ExpiresAt: time.Now().Add(auth.TokenDuration),
            Client:    client,
        },
    })
}

func (h *InternalHandler) InternalHealthCheck(w http.ResponseWriter, r *http.Request) {
    utils.SendSuccessResponse(w, models.APIResponse{
        Status:  "success",
        Message: "Internal API is healthy",
        Data: map[string]interface{}{
            "timestamp": time.Now().Format(time.RFC3339),
            "service":   "paymentwall-gateway-api-internal",
        },
    })
}
