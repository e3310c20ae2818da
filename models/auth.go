package models

import "time"

// APIClient identifies a backend integration that was issued a token
// through the internal token endpoint.
type APIClient struct {
    ClientID string `json:"client_id"`
    Role     string `json:"role"`
}

type TokenRequest struct {
    ClientID string `json:"client_id"`
    Role     string `json:"role,omitempty"`
}

type AuthResponse struct {
    Token     string    `json:"token"`
    ExpiresAt time.Time `json:"expires_at"`
    Client    APIClient `json:"client"`
}
