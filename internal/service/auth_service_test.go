package service

import (
	"testing"
	"time"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()

	db := newTestDB(t)
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret-test-secret-test-secret!"
	cfg.JWT.ExpireTime = time.Hour

	return NewAuthService(repository.NewUserRepository(db), cfg)
}

func TestRegister(t *testing.T) {
	svc := newAuthService(t)

	user := &model.User{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "hunter2hunter2",
		Role:     model.Teacher,
	}
	require.NoError(t, svc.Register(user))
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "hunter2hunter2", user.Password, "password must be stored hashed")

	dup := &model.User{Name: "Ada 2", Email: "ada@example.com", Password: "otherpass"}
	assert.ErrorIs(t, svc.Register(dup), util.ErrEmailRegistered)
}

func TestLogin(t *testing.T) {
	svc := newAuthService(t)
	require.NoError(t, svc.Register(&model.User{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "hunter2hunter2",
	}))

	t.Run("valid credentials issue a token", func(t *testing.T) {
		token, err := svc.Login("ada@example.com", "hunter2hunter2")
		require.NoError(t, err)

		claims, err := util.ParseJWT(token, svc.Cfg.JWT.Secret)
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", claims.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login("ada@example.com", "wrong")
		assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login("nobody@example.com", "whatever")
		assert.ErrorIs(t, err, util.ErrInvalidCredentials)
	})
}
