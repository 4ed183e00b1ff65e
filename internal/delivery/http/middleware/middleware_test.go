package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-dental-clinic/config"
	"go-dental-clinic/internal/domain/entity"
	"go-dental-clinic/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockTokenStore struct {
	mock.Mock
}

func (m *mockTokenStore) Store(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string, ttl time.Duration) error {
	return m.Called(userID, tokenType, tokenID, ttl).Error(0)
}

func (m *mockTokenStore) IsValid(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string) (bool, error) {
	args := m.Called(userID, tokenType, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *mockTokenStore) Revoke(ctx context.Context, userID uuid.UUID, tokenType jwt.TokenType, tokenID string) error {
	return m.Called(userID, tokenType, tokenID).Error(0)
}

func (m *mockTokenStore) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	return m.Called(userID).Error(0)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func TestAuthenticate(t *testing.T) {
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "s", AccessExpiry: time.Minute, RefreshExpiry: time.Hour})
	id := jwt.Identity{UserID: uuid.New(), ClinicID: uuid.New(), Email: "a@b.test", RoleID: entity.RoleIDReceptionist}
	access, accessID, err := jwtService.GenerateAccessToken(id)
	require.NoError(t, err)
	refresh, _, err := jwtService.GenerateRefreshToken(id)
	require.NoError(t, err)

	store := new(mockTokenStore)
	store.On("IsValid", id.UserID, jwt.AccessToken, accessID).Return(true, nil).Once()
	store.On("IsValid", id.UserID, jwt.AccessToken, accessID).Return(false, nil).Once()

	var seenClinic uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenClinic, _ = GetClinicIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := NewAuthMiddleware(jwtService, store, quietLogger()).Authenticate(next)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"bad scheme", "Token " + access, http.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized},
		{"valid", "Bearer " + access, http.StatusNoContent},
		{"revoked", "Bearer " + access, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	assert.Equal(t, id.ClinicID, seenClinic)
	store.AssertExpectations(t)
}

func TestRequireRole(t *testing.T) {
	handler := RequireFrontDesk(http.HandlerFunc(okHandler))

	tests := []struct {
		name   string
		roleID int
		want   int
	}{
		{"admin", entity.RoleIDAdmin, http.StatusNoContent},
		{"receptionist", entity.RoleIDReceptionist, http.StatusNoContent},
		{"doctor", entity.RoleIDDoctor, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := WithIdentity(context.Background(), jwt.Identity{UserID: uuid.New(), ClinicID: uuid.New(), RoleID: tt.roleID}, "t")
			req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	handler := NewRateLimiter(1, 2).Handle(http.HandlerFunc(okHandler))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	handler := NewCORSMiddleware("").Handle(http.HandlerFunc(okHandler))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
