package jwt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// LocalUserID владеет всеми сессиями, когда проверка токенов отключена.
var LocalUserID = uuid.Nil

var (
	ErrEmptyToken    = errors.New("empty token")
	ErrInvalidToken  = errors.New("invalid or expired token")
	ErrInvalidIssuer = errors.New("invalid token issuer")
	ErrInvalidUser   = errors.New("token subject is not a user id")
)

// Claims выданные внешним провайдером идентификации.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// Verifier checks HS256 tokens of the identity provider.
type Verifier struct {
	secret   []byte
	issuer   string
	audience string
}

func NewVerifier(secret, issuer, audience string) *Verifier {
	return &Verifier{secret: []byte(secret), issuer: issuer, audience: audience}
}

// Enabled is false when no secret is configured.
func (v *Verifier) Enabled() bool { return len(v.secret) > 0 }

// Verify parses the token and returns the subject as a user id.
func (v *Verifier) Verify(tokenStr string) (uuid.UUID, Claims, error) {
	tokenStr = strings.TrimSpace(tokenStr)
	if tokenStr == "" {
		return uuid.Nil, Claims{}, ErrEmptyToken
	}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name})}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return uuid.Nil, Claims{}, ErrInvalidToken
	}
	if v.issuer != "" && claims.Issuer != v.issuer {
		return uuid.Nil, Claims{}, ErrInvalidIssuer
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, Claims{}, ErrInvalidUser
	}
	return id, claims, nil
}
