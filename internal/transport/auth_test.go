package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bugpen/bugpen/internal/domain/user"
	"github.com/bugpen/bugpen/internal/identity"
	"github.com/bugpen/bugpen/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware(t *testing.T) {
	verifier := identity.NewStaticVerifier(map[string]identity.Claims{
		"token": {Subject: "subject1", Name: "Ada"},
	})

	users := new(mocks.UserRepository)
	now := time.Now()
	users.On("GetBySubject", mock.Anything, "subject1").Return(&user.User{
		ID:        "u1",
		Subject:   "subject1",
		PublicID:  "PUBLIC01",
		Name:      "Ada",
		CreatedAt: now,
	}, nil)

	handler := AuthMiddleware(verifier, user.NewService(users, nil))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		require.True(t, ok)
		require.Equal(t, "u1", u.ID)
		require.Equal(t, "PUBLIC01", u.PublicID)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	verifier := identity.NewStaticVerifier(nil)

	handler := AuthMiddleware(verifier, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without a token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	verifier := identity.NewStaticVerifier(map[string]identity.Claims{
		"token": {Subject: "subject1"},
	})

	handler := AuthMiddleware(verifier, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run with an invalid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer forged")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
