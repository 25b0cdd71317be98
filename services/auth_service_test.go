package services

import (
	"testing"
	"time"

	"backend/repository"
	"backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := openTestDB(t)
	return NewAuthService(repository.NewUserRepository(db), "test-secret", time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestAuthService(t)

	u, err := svc.Register("  Asha@Example.COM ", "s3cret", "Asha Patel", "9999999999", "Mumbai")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", u.Email)
	assert.Equal(t, "citizen", u.Role)
	assert.NotEqual(t, "s3cret", u.Password)

	token, logged, err := svc.Login("asha@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	claims, err := utils.ParseToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, "citizen", claims.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Register("asha@example.com", "s3cret", "Asha", "", "")
	require.NoError(t, err)
	_, err = svc.Register("ASHA@example.com", "other", "Asha Again", "", "")
	assert.Error(t, err)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newTestAuthService(t)
	_, err := svc.Register("asha@example.com", "s3cret", "Asha", "", "")
	require.NoError(t, err)

	_, _, err = svc.Login("asha@example.com", "wrong")
	assert.Error(t, err)
	_, _, err = svc.Login("nobody@example.com", "s3cret")
	assert.Error(t, err)
}
