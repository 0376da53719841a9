package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestService(t *testing.T) (*Service, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	svc := NewService(store, config.AuthConfig{JWTSecret: testSecret, TokenTTL: time.Hour, InitialCoins: 100})
	svc.cost = bcrypt.MinCost
	return svc, store
}

func TestSignupAndLogin(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	resp, err := svc.Signup(ctx, SignupRequest{Email: "  Ana@Example.com ", Password: "segredo123", Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", resp.User.Email)
	assert.Equal(t, 100, resp.User.Coins)
	assert.Empty(t, resp.User.PasswordHash)
	assert.Equal(t, 1, store.Len())

	userID, err := svc.Tokens().Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, userID)

	login, err := svc.Login(ctx, LoginRequest{Email: "ANA@example.com", Password: "segredo123"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	_, err = svc.Login(ctx, LoginRequest{Email: "ana@example.com", Password: "errada123"})
	assert.ErrorIs(t, err, ErrInvalidCreds)

	_, err = svc.Login(ctx, LoginRequest{Email: "bia@example.com", Password: "segredo123"})
	assert.ErrorIs(t, err, ErrInvalidCreds)

	me, err := svc.Me(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", me.Name)
	assert.Empty(t, me.PasswordHash)
}

func TestSignup_Rejects(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Signup(ctx, SignupRequest{Email: "not-an-email", Password: "segredo123"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Signup(ctx, SignupRequest{Email: "ana@example.com", Password: "curta"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Signup(ctx, SignupRequest{Email: "ana@example.com", Password: strings.Repeat("x", MaxPasswordLength+1)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Signup(ctx, SignupRequest{Email: "ana@example.com", Password: "segredo123"})
	require.NoError(t, err)
	_, err = svc.Signup(ctx, SignupRequest{Email: "ANA@example.com", Password: "segredo123"})
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestMemoryStoresAreIndependent(t *testing.T) {
	a, _ := newTestService(t)
	b, storeB := newTestService(t)
	ctx := context.Background()

	_, err := a.Signup(ctx, SignupRequest{Email: "ana@example.com", Password: "segredo123"})
	require.NoError(t, err)
	assert.Equal(t, 0, storeB.Len())

	_, err = b.Login(ctx, LoginRequest{Email: "ana@example.com", Password: "segredo123"})
	assert.ErrorIs(t, err, ErrInvalidCreds)
}

func TestTokens(t *testing.T) {
	tokens := NewTokens(testSecret, time.Minute)
	id := uuid.New()

	expired, err := tokens.Issue(id, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = tokens.Parse(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewTokens("another-secret-another-secret-xx", time.Minute)
	foreign, err := other.Issue(id, time.Now())
	require.NoError(t, err)
	_, err = tokens.Parse(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestMiddleware(t *testing.T) {
	tokens := NewTokens(testSecret, time.Hour)
	id := uuid.New()
	token, err := tokens.Issue(id, time.Now())
	require.NoError(t, err)

	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		got, err := GetUserIDFromContext(c)
		if err != nil {
			return err
		}
		return c.String(http.StatusOK, got.String())
	}, Middleware(tokens))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + token, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + token, http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, id.String(), rec.Body.String())
			}
		})
	}
}
