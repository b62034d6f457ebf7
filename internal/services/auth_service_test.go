package services

import (
	"testing"
	"time"

	"github.com/lightlog-app/backend/internal/dto"
	"github.com/lightlog-app/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	t.Run("creates a user with a token pair", func(t *testing.T) {
		resp, err := svc.Register(&dto.RegisterRequest{
			Username: "alice",
			Password: "supersecret",
			Nickname: "Ally",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, "alice", resp.User.Username)

		var user models.User
		require.NoError(t, db.Where("username = ?", "alice").First(&user).Error)
		assert.Equal(t, models.ToneCounselor, user.AITone)
		assert.NotEqual(t, "supersecret", user.Password)
	})

	t.Run("rejects a short password", func(t *testing.T) {
		_, err := svc.Register(&dto.RegisterRequest{
			Username: "bob",
			Password: "short",
			Nickname: "Bobby",
		})
		require.Error(t, err)
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		_, err := svc.Register(&dto.RegisterRequest{
			Username: "alice",
			Password: "supersecret",
			Nickname: "SomeoneElse",
		})
		require.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("rejects duplicate nickname", func(t *testing.T) {
		_, err := svc.Register(&dto.RegisterRequest{
			Username: "carol",
			Password: "supersecret",
			Nickname: "Ally",
		})
		require.ErrorIs(t, err, ErrNicknameTaken)
	})
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	_, err := svc.Register(&dto.RegisterRequest{
		Username: "dave",
		Password: "supersecret",
		Nickname: "Davey",
	})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(&dto.LoginRequest{Username: "dave", Password: "supersecret"})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(&dto.LoginRequest{Username: "dave", Password: "wrongwrong"})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Login(&dto.LoginRequest{Username: "nobody", Password: "supersecret"})
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRefresh(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	registered, err := svc.Register(&dto.RegisterRequest{
		Username: "erin",
		Password: "supersecret",
		Nickname: "Er",
	})
	require.NoError(t, err)

	t.Run("rotates the refresh token", func(t *testing.T) {
		resp, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: registered.RefreshToken})
		require.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEqual(t, registered.RefreshToken, resp.RefreshToken)

		// The old token is revoked by the rotation.
		_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: registered.RefreshToken})
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: "not-a-token"})
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		login, err := svc.Login(&dto.LoginRequest{Username: "erin", Password: "supersecret"})
		require.NoError(t, err)

		require.NoError(t, db.Model(&models.RefreshToken{}).
			Where("token_hash = ?", hashToken(login.RefreshToken)).
			Update("expires_at", time.Now().Add(-time.Hour)).Error)

		_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: login.RefreshToken})
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestLogout(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	resp, err := svc.Register(&dto.RegisterRequest{
		Username: "frank",
		Password: "supersecret",
		Nickname: "Frankie",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(&dto.LogoutRequest{RefreshToken: resp.RefreshToken}))

	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: resp.RefreshToken})
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAvailabilityChecks(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testConfig())

	_, err := svc.Register(&dto.RegisterRequest{
		Username: "grace",
		Password: "supersecret",
		Nickname: "Gracie",
	})
	require.NoError(t, err)

	taken, err := svc.IsUsernameAvailable("grace")
	require.NoError(t, err)
	assert.False(t, taken)

	free, err := svc.IsUsernameAvailable("heidi")
	require.NoError(t, err)
	assert.True(t, free)

	nickTaken, err := svc.IsNicknameAvailable("Gracie")
	require.NoError(t, err)
	assert.False(t, nickTaken)

	nickFree, err := svc.IsNicknameAvailable("Hi")
	require.NoError(t, err)
	assert.True(t, nickFree)
}
