package auth

import (
    "errors"
    "fmt"
    "time"

    "github.com/golang-jwt/jwt/v5"

    "paymentwall-gateway-api/models"
)

const TokenDuration = 1 * time.Hour

var (
    ErrTokenExpired = errors.New("token expired")
    ErrInvalidToken = errors.New("invalid token")
)

type JWTService struct {
    secretKey []byte
    issuer    string
}

type Claims struct {
    ClientID string `json:"client_id"`
    Role     string `json:"role"`
    jwt.RegisteredClaims
}

func NewJWTService(secretKey, issuer string) *JWTService {
    return &JWTService{
        secretKey: []byte(secretKey),
        issuer:    issuer,
    }
}

// GenerateToken issues a signed token for a backend client. Tokens are
// short-lived; callers re-request through the internal endpoint.
func (j *JWTService) GenerateToken(client models.APIClient, duration time.Duration) (string, error) {
    now := time.Now()
    claims := Claims{
        ClientID: client.ClientID,
        Role:     client.Role,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   client.ClientID,
            Issuer:    j.issuer,
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
            NotBefore: jwt.NewNumericDate(now),
        },
    }

    token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    return token.SignedString(j.secretKey)
}

func (j *JWTService) ValidateToken(tokenString string) (*models.APIClient, error) {
    token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
        if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
        }
        return j.secretKey, nil
    })

    if err != nil {
        if errors.Is(err, jwt.ErrTokenExpired) {
            return nil, ErrTokenExpired
        }
        return nil, ErrInvalidToken
    }

    claims, ok := token.Claims.(*Claims)
    if !ok || !token.Valid {
        return nil, ErrInvalidToken
    }

    return &models.APIClient{
        ClientID: claims.ClientID,
        Role:     claims.Role,
    }, nil
}
