package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jstyp/storefront-backend/internal/config"
	"github.com/jstyp/storefront-backend/internal/dto"
	"github.com/jstyp/storefront-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(members ...models.TeamMember) (*AuthService, *fakeClients, *fakeTokens) {
	cfg := &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: time.Hour,
		MasterUsername:   "JSTYP.me",
		MasterPIN:        "4242",
	}
	clients := newFakeClients()
	tokens := newFakeTokens()
	return NewAuthService(clients, newFakeTeam(members...), tokens, cfg), clients, tokens
}

func parseClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()
	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return []byte("test-secret"), nil })
	require.NoError(t, err)
	return parsed.Claims.(jwt.MapClaims)
}

func TestAuthService_SignupHashesPassword(t *testing.T) {
	svc, clients, _ := newAuthFixture()
	ctx := context.Background()

	resp, err := svc.Signup(ctx, &dto.SignupRequest{Name: "John Doe", Email: "John@Example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, RoleClient, resp.Session.Role)
	assert.Equal(t, "john@example.com", resp.Session.Email)
	assert.NotEmpty(t, resp.RefreshToken)

	stored, err := clients.FindByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", stored.PasswordHash)

	claims := parseClaims(t, resp.AccessToken)
	assert.Equal(t, RoleClient, claims["role"])
	assert.Equal(t, stored.ID.String(), claims["sub"])

	_, err = svc.Signup(ctx, &dto.SignupRequest{Name: "Dup", Email: "JOHN@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Login(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()
	_, err := svc.Signup(ctx, &dto.SignupRequest{Name: "Jane", Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)

	resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "Jane", resp.Session.Name)

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_AdminLogin(t *testing.T) {
	member := models.TeamMember{ID: uuid.New(), FirstName: "Jason", LastName: "Typ", Email: "jason@jstyp.me", Pin: "1723"}
	svc, _, _ := newAuthFixture(member)
	ctx := context.Background()

	resp, err := svc.AdminLogin(ctx, &dto.AdminLoginRequest{Username: "jstyp.ME", Pin: "4242"})
	require.NoError(t, err)
	assert.Equal(t, RoleMaster, resp.Session.Role)

	resp, err = svc.AdminLogin(ctx, &dto.AdminLoginRequest{Pin: "1723"})
	require.NoError(t, err)
	assert.Equal(t, RoleTeam, resp.Session.Role)
	assert.Equal(t, "Jason Typ", resp.Session.Name)
	assert.Equal(t, RoleTeam, parseClaims(t, resp.AccessToken)["role"])

	_, err = svc.AdminLogin(ctx, &dto.AdminLoginRequest{Username: "JSTYP.me", Pin: "0000"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_AdminLogin_MasterDisabledWithoutPIN(t *testing.T) {
	svc, _, _ := newAuthFixture()
	svc.cfg.MasterPIN = ""
	_, err := svc.AdminLogin(context.Background(), &dto.AdminLoginRequest{Username: "JSTYP.me", Pin: ""})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RefreshRotatesToken(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()
	first, err := svc.Signup(ctx, &dto.SignupRequest{Name: "Jane", Email: "jane@example.com", Password: "password123"})
	require.NoError(t, err)

	second, err := svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Equal(t, "jane@example.com", second.Session.Email)

	_, err = svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: first.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_RefreshExpired(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()
	resp, err := svc.AdminLogin(ctx, &dto.AdminLoginRequest{Username: "JSTYP.me", Pin: "4242"})
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, _ := newAuthFixture()
	ctx := context.Background()
	resp, err := svc.AdminLogin(ctx, &dto.AdminLoginRequest{Username: "JSTYP.me", Pin: "4242"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, &dto.LogoutRequest{RefreshToken: resp.RefreshToken}))
	_, err = svc.Refresh(ctx, &dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, ErrInvalidToken)
}
