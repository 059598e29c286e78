package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/tutorhive/tutorhive-api/internal/models"
	"github.com/tutorhive/tutorhive-api/pkg/config"
	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

type userRepoStub struct {
	byEmail map[string]*models.User
}

func (s *userRepoStub) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := s.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (s *userRepoStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range s.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	users := &userRepoStub{byEmail: map[string]*models.User{
		"alex@example.com": {
			ID:           "user-1",
			Email:        "alex@example.com",
			PasswordHash: string(hash),
			Role:         models.RoleTeacher,
			Active:       true,
		},
		"dormant@example.com": {
			ID:           "user-2",
			Email:        "dormant@example.com",
			PasswordHash: string(hash),
			Role:         models.RoleStudent,
			Active:       false,
		},
	}}
	cfg := config.JWTConfig{Secret: "test-secret", Issuer: "tutorhive-test", Expiration: time.Hour}
	return NewAuthService(users, nil, zap.NewNop(), cfg)
}

func TestAuthServiceLogin(t *testing.T) {
	svc := newAuthService(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email: "alex@example.com", Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "user-1", resp.User.ID)
}

func TestAuthServiceLoginWrongPassword(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email: "alex@example.com", Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email: "nobody@example.com", Password: "correct-horse",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginInactiveAccount(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email: "dormant@example.com", Password: "correct-horse",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceTokenRoundTrip(t *testing.T) {
	svc := newAuthService(t)
	user := &models.User{ID: "user-1", Role: models.RoleTeacher}

	token, _, err := svc.GenerateToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleTeacher, claims.Role)
}

func TestAuthServiceValidateTokenGarbage(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.ValidateToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
