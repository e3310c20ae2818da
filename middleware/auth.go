package middleware

import (
    "context"
    "log"
    "net/http"
    "strings"
    "time"

    "paymentwall-gateway-api/models"
    "paymentwall-gateway-api/services/auth"
    "paymentwall-gateway-api/utils"
)

type contextKey string

const ClientContextKey contextKey = "client"

// AuthMiddleware requires a valid Bearer token on the request.
func AuthMiddleware(jwtService *auth.JWTService) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            authHeader := r.Header.Get("Authorization")
            if authHeader == "" {
                log.Printf("Missing Authorization header from %s", r.RemoteAddr)
                utils.SendErrorResponse(w, http.StatusUnauthorized, "Missing authorization header")
                return
            }

            parts := strings.Split(authHeader, " ")
            if len(parts) != 2 || parts[0] != "Bearer" {
                log.Printf("Invalid Authorization header format from %s", r.RemoteAddr)
                utils.SendErrorResponse(w, http.StatusUnauthorized, "Invalid authorization header format")
                return
            }

            client, err := jwtService.ValidateToken(parts[1])
            if err != nil {
                log.Printf("Token validation failed from %s: %v", r.RemoteAddr, err)

                var message string
                switch err {
                case auth.ErrTokenExpired:
                    message = "Token expired"
                case auth.ErrInvalidToken:
                    message = "Invalid token"
                default:
                    message = "Authentication failed"
                }

                utils.SendErrorResponse(w, http.StatusUnauthorized, message)
                return
            }

            ctx := context.WithValue(r.Context(), ClientContextKey, client)
            next.ServeHTTP(w, r.WithContext(ctx))
        })
    }
}

// RequireAdmin rejects clients whose token was not issued with the admin role.
func RequireAdmin() func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            client := GetClientFromContext(r.Context())
            if client == nil {
                utils.SendErrorResponse(w, http.StatusInternalServerError, "Client not found in context")
                return
            }

            if client.Role != "admin" {
                log.Printf("Non-admin client attempted to access admin endpoint: %s", client.ClientID)
                utils.SendErrorResponse(w, http.StatusForbidden, "This endpoint requires an admin token")
                return
            }

            next.ServeHTTP(w, r)
        })
    }
}

func GetClientFromContext(ctx context.Context) *models.APIClient {
    client, ok := ctx.Value(ClientContextKey).(*models.APIClient)
    if !ok {
        return nil
    }
    return client
}

// AuthLoggingMiddleware logs every request on the admin subrouter with
// the authenticated client and the response status.
func AuthLoggingMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()

        wrapper := &responseWriter{ResponseWriter: w, status: http.StatusOK}

        next.ServeHTTP(wrapper, r)

        duration := time.Since(start)
        client := GetClientFromContext(r.Context())

        var clientID string
        if client != nil {
            clientID = client.ClientID
        } else {
            clientID = "anonymous"
        }

        log.Printf("AUTH %s %s %s %d %v %s",
            r.Method, r.RequestURI, clientID, wrapper.status, duration, r.UserAgent())
    })
}

type responseWriter struct {
    http.ResponseWriter
    status int
}

func (rw *responseWriter) WriteHeader(code int) {
    rw.status = code
    rw.ResponseWriter.WriteHeader(code)
}
