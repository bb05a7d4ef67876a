package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, method jwt.SigningMethod, key any) string {
	t.Helper()
	claims := &Claims{
		UserID: 7,
		Slug:   "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return raw
}

func serveAuthed(authorize func(*http.Request)) (*httptest.ResponseRecorder, int64) {
	var gotID int64
	h := Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/new", nil)
	authorize(req)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w, gotID
}

func TestAuthAcceptsBearerToken(t *testing.T) {
	token := signedToken(t, jwt.SigningMethodHS256, []byte(testSecret))

	w, gotID := serveAuthed(func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), gotID)
}

func TestAuthAcceptsCookieToken(t *testing.T) {
	token := signedToken(t, jwt.SigningMethodHS256, []byte(testSecret))

	w, gotID := serveAuthed(func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "token", Value: token})
	})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), gotID)
}

func TestAuthRejectsMissingToken(t *testing.T) {
	w, _ := serveAuthed(func(*http.Request) {})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsWrongSecret(t *testing.T) {
	token := signedToken(t, jwt.SigningMethodHS256, []byte("other-secret"))

	w, _ := serveAuthed(func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsUnsignedAlgorithm(t *testing.T) {
	// A token with alg "none" must not pass; only HS256 is accepted.
	token := signedToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType)

	w, _ := serveAuthed(func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRejectsExpiredToken(t *testing.T) {
	claims := &Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	w, _ := serveAuthed(func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
