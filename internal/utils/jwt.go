package utils // package utils holds helpers shared by middleware and tests

import (
    "errors"
    "strconv"
    "time"

    "github.com/golang-jwt/jwt/v5"
)

// ActorClaims are the claims carried by a staff access token.  Tokens are
// issued by the hotel's identity service; this service only verifies them.
type ActorClaims struct {
    Role string `json:"role"`
    jwt.RegisteredClaims
}

// UserID parses the numeric subject claim.
func (c ActorClaims) UserID() (uint64, error) {
    if c.Subject == "" {
        return 0, errors.New("token has no subject")
    }
    return strconv.ParseUint(c.Subject, 10, 64)
}

// SignActorToken builds and signs an HS256 token for a user.
func SignActorToken(secret string, userID uint64, role string, ttl time.Duration) (string, error) {
    now := time.Now().UTC()
    claims := ActorClaims{
        Role: role,
        RegisteredClaims: jwt.RegisteredClaims{
            Subject:   strconv.FormatUint(userID, 10),
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
        },
    }
    return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseActorToken verifies raw with secret and returns its claims.  Only
// HMAC signing methods are accepted.
func ParseActorToken(secret, raw string) (ActorClaims, error) {
    var claims ActorClaims
    tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
        if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
            return nil, errors.New("unexpected signing method")
        }
        return []byte(secret), nil
    })
    if err != nil {
        return ActorClaims{}, err
    }
    if !tok.Valid {
        return ActorClaims{}, errors.New("invalid token")
    }
    if _, err := claims.UserID(); err != nil {
        return ActorClaims{}, err
    }
    return claims, nil
}
