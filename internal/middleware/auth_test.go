package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

const secret = "test-secret"

func token(t *testing.T, key string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func run(authorization string, spoofed string) (*fasthttp.RequestCtx, string, string, bool) {
	var (
		called     bool
		user, role string
	)
	h := JWTAuth(secret, nil)(func(ctx *fasthttp.RequestCtx) {
		called = true
		user = string(ctx.Request.Header.Peek(HeaderUserID))
		role = string(ctx.Request.Header.Peek(HeaderUserRole))
	})
	ctx := &fasthttp.RequestCtx{}
	if authorization != "" {
		ctx.Request.Header.Set("Authorization", authorization)
	}
	if spoofed != "" {
		ctx.Request.Header.Set(HeaderUserID, spoofed)
	}
	h(ctx)
	return ctx, user, role, called
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	tok := token(t, secret, jwt.MapClaims{"user_id": "u-1", "role": "admin", "exp": time.Now().Add(time.Hour).Unix()})

	_, user, role, called := run("Bearer "+tok, "")
	assert.True(t, called)
	assert.Equal(t, "u-1", user)
	assert.Equal(t, "admin", role)
}

func TestJWTAuthFallsBackToSubject(t *testing.T) {
	tok := token(t, secret, jwt.MapClaims{"sub": "u-2"})
	_, user, _, called := run(tok, "")
	assert.True(t, called)
	assert.Equal(t, "u-2", user)
}

func TestJWTAuthRejects(t *testing.T) {
	tests := map[string]string{
		"missing header": "",
		"wrong key":      "Bearer " + token(t, "other", jwt.MapClaims{"user_id": "u-1"}),
		"expired":        "Bearer " + token(t, secret, jwt.MapClaims{"user_id": "u-1", "exp": time.Now().Add(-time.Hour).Unix()}),
		"no subject":     "Bearer " + token(t, secret, jwt.MapClaims{"role": "admin"}),
	}
	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			ctx, _, _, called := run(header, "spoofed")
			assert.False(t, called)
			assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
		})
	}
}

func TestJWTAuthDropsSpoofedHeader(t *testing.T) {
	tok := token(t, secret, jwt.MapClaims{"user_id": "u-1"})
	_, user, _, _ := run("Bearer "+tok, "u-attacker")
	assert.Equal(t, "u-1", user)
}
