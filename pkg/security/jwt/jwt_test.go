package jwt

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func sign(t *testing.T, claims Claims, method jwt.SigningMethod, key any) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims(sub string) Claims {
	now := time.Now()
	return Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   sub,
		Issuer:    "idp",
		Audience:  jwt.ClaimStrings{"interview"},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}}
}

func TestVerify(t *testing.T) {
	v := NewVerifier(secret, "idp", "interview")
	user := uuid.New()

	id, claims, err := v.Verify(sign(t, validClaims(user.String()), jwt.SigningMethodHS256, []byte(secret)))
	require.NoError(t, err)
	assert.Equal(t, user, id)
	assert.Equal(t, "idp", claims.Issuer)

	expired := validClaims(user.String())
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	wrongIssuer := validClaims(user.String())
	wrongIssuer.Issuer = "other"
	wrongAudience := validClaims(user.String())
	wrongAudience.Audience = jwt.ClaimStrings{"admin"}

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{name: "empty", token: " ", want: ErrEmptyToken},
		{name: "garbage", token: "not.a.jwt", want: ErrInvalidToken},
		{name: "wrong key", token: sign(t, validClaims(user.String()), jwt.SigningMethodHS256, []byte("other")), want: ErrInvalidToken},
		{name: "wrong method", token: sign(t, validClaims(user.String()), jwt.SigningMethodHS512, []byte(secret)), want: ErrInvalidToken},
		{name: "expired", token: sign(t, expired, jwt.SigningMethodHS256, []byte(secret)), want: ErrInvalidToken},
		{name: "audience", token: sign(t, wrongAudience, jwt.SigningMethodHS256, []byte(secret)), want: ErrInvalidToken},
		{name: "issuer", token: sign(t, wrongIssuer, jwt.SigningMethodHS256, []byte(secret)), want: ErrInvalidIssuer},
		{name: "subject", token: sign(t, validClaims("bob"), jwt.SigningMethodHS256, []byte(secret)), want: ErrInvalidUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := v.Verify(tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func newApp(v *Verifier) *fiber.App {
	app := fiber.New()
	app.Use(NewAuthMiddleware(v))
	app.Get("/me", func(c *fiber.Ctx) error {
		id, ok := UserID(c)
		if !ok {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.JSON(fiber.Map{"id": id.String()})
	})
	return app
}

func userFrom(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]string
	require.NoError(t, json.Unmarshal(body, &out))
	return out["id"]
}

func TestMiddleware(t *testing.T) {
	v := NewVerifier(secret, "", "")
	app := newApp(v)
	user := uuid.New()
	token := sign(t, validClaims(user.String()), jwt.SigningMethodHS256, []byte(secret))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, user.String(), userFrom(t, resp))

	req = httptest.NewRequest(http.MethodGet, "/me?access_token="+token, nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer broken")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMiddlewareDisabled(t *testing.T) {
	app := newApp(NewVerifier("", "", ""))
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, LocalUserID.String(), userFrom(t, resp))
}

func TestBearer(t *testing.T) {
	assert.Equal(t, "abc", bearer("Bearer abc"))
	assert.Equal(t, "abc", bearer("bearer  abc "))
	assert.Equal(t, "abc", bearer("abc"))
	assert.Equal(t, "", bearer(""))
}
