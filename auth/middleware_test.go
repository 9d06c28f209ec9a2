package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/batchhost/batchhost/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func signToken(t *testing.T, secret, issuer string, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"exp": time.Now().Add(expiresIn).Unix(),
	}
	if issuer != "" {
		claims["iss"] = issuer
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestJWTAuth_Disabled_AllowsAll(t *testing.T) {
	mw := JWTAuth(config.AuthConfig{Enabled: false}, nil, zaptest.NewLogger(t))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)

	mw(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuth_SkipPath_BypassesValidation(t *testing.T) {
	mw := JWTAuth(config.AuthConfig{Enabled: true, Secret: "s3cret"}, []string{"/healthz"}, zaptest.NewLogger(t))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	mw(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuth_MissingHeader_Rejected(t *testing.T) {
	mw := JWTAuth(config.AuthConfig{Enabled: true, Secret: "s3cret"}, nil, zaptest.NewLogger(t))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)

	mw(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_ValidToken_Allowed(t *testing.T) {
	mw := JWTAuth(config.AuthConfig{Enabled: true, Secret: "s3cret", Issuer: "batchhost"}, nil, zaptest.NewLogger(t))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "s3cret", "batchhost", time.Hour))

	mw(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuth_WrongSecret_Rejected(t *testing.T) {
	mw := JWTAuth(config.AuthConfig{Enabled: true, Secret: "s3cret"}, nil, zaptest.NewLogger(t))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "wrong", "", time.Hour))

	mw(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_ExpiredToken_Rejected(t *testing.T) {
	mw := JWTAuth(config.AuthConfig{Enabled: true, Secret: "s3cret"}, nil, zaptest.NewLogger(t))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "s3cret", "", -time.Hour))

	mw(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_WrongIssuer_Rejected(t *testing.T) {
	mw := JWTAuth(config.AuthConfig{Enabled: true, Secret: "s3cret", Issuer: "batchhost"}, nil, zaptest.NewLogger(t))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "s3cret", "someone-else", time.Hour))

	mw(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_MalformedBearer_Rejected(t *testing.T) {
	mw := JWTAuth(config.AuthConfig{Enabled: true, Secret: "s3cret"}, nil, zaptest.NewLogger(t))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/stats", nil)
	req.Header.Set("Authorization", "Basic not-a-bearer-token")

	mw(okHandler()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
