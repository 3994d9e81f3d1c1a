package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/onerilhan/go-portfolio-api/internal/middleware/errors"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

func newPasswordResetEnv(t *testing.T, notifier *MockNotifier) (*PasswordResetService, *testEnv) {
	t.Helper()
	env := newTestEnv(t, notifier)
	return NewPasswordResetService(env.db, env.notifier, testVerifier()), env
}

func TestPasswordResetService_Request(t *testing.T) {
	// Arrange
	notifier := new(MockNotifier)
	notifier.On("NotifyAdmins", mock.Anything, NotifyAdminNewPasswordReset, mock.Anything).Return(nil).Once()
	svc, env := newPasswordResetEnv(t, notifier)
	user := env.seedUser(5001, "anna")

	// Act
	req, warnings, err := svc.Request(context.Background(), &models.NewChangePasswordRequest{InitData: signedInitData(5001, "anna", "de")})

	// Assert
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, user.ID, req.UserID)
	assert.Equal(t, models.PasswordResetNew, req.Status)
	notifier.AssertExpectations(t)
}

func TestPasswordResetService_Request_Rejections(t *testing.T) {
	ctx := context.Background()

	t.Run("unsigned init data", func(t *testing.T) {
		// Arrange
		svc, env := newPasswordResetEnv(t, nil)
		env.seedUser(5001, "anna")

		// Act
		_, _, err := svc.Request(ctx, &models.NewChangePasswordRequest{InitData: "user=%7B%22id%22%3A5001%7D"})

		// Assert
		assert.Equal(t, http.StatusUnauthorized, apperrors.StatusOf(err))
		open, _ := svc.ListOpen(ctx)
		assert.Empty(t, open)
	})

	t.Run("unknown user", func(t *testing.T) {
		// Arrange
		svc, _ := newPasswordResetEnv(t, nil)

		// Act
		_, _, err := svc.Request(ctx, &models.NewChangePasswordRequest{InitData: signedInitData(404, "ghost", "de")})

		// Assert
		assert.Equal(t, http.StatusNotFound, apperrors.StatusOf(err))
	})

	t.Run("already open", func(t *testing.T) {
		// Arrange
		svc, env := newPasswordResetEnv(t, nil)
		env.seedUser(5001, "anna")
		initData := signedInitData(5001, "anna", "de")
		_, _, err := svc.Request(ctx, &models.NewChangePasswordRequest{InitData: initData})
		require.NoError(t, err)

		// Act
		_, _, err = svc.Request(ctx, &models.NewChangePasswordRequest{InitData: initData})

		// Assert
		assert.Equal(t, http.StatusConflict, apperrors.StatusOf(err))
		open, _ := svc.ListOpen(ctx)
		assert.Len(t, open, 1)
	})
}

// Admin sıfırlaması şifreyi siler, kullanıcı yeni şifreyi initData ile belirleyebilir
func TestPasswordResetService_Reset_AllowsNewPassword(t *testing.T) {
	// Arrange
	notifier := quietNotifier()
	svc, env := newPasswordResetEnv(t, notifier)
	ctx := context.Background()
	user := env.seedUser(5001, "anna")
	users := NewUserService(env.db.Store().Users(), nil, testVerifier())
	initData := signedInitData(5001, "anna", "de")

	require.NoError(t, users.SetPassword(ctx, &models.SetPasswordRequest{InitData: initData, Password: "forgotten"}))
	req, _, err := svc.Request(ctx, &models.NewChangePasswordRequest{InitData: initData})
	require.NoError(t, err)

	// Act
	resolved, warnings, err := svc.Reset(ctx, req.ID)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, models.PasswordResetConfirmed, resolved.Status)
	assert.True(t, resolved.IsOperated)
	stored, err := env.db.Store().Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsSetPassword)
	notifier.AssertCalled(t, "Send", mock.Anything, int64(5001), NotifyUserPasswordReset, mock.Anything)

	assert.NoError(t, users.SetPassword(ctx, &models.SetPasswordRequest{InitData: initData, Password: "brand-new"}))
	open, err := svc.ListOpen(ctx)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestPasswordResetService_Reset_NotificationFailureIsWarning(t *testing.T) {
	// Arrange
	notifier := new(MockNotifier)
	notifier.On("NotifyAdmins", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	notifier.On("Send", mock.Anything, int64(5001), NotifyUserPasswordReset, mock.Anything).Return(errors.New("bot blocked"))
	svc, env := newPasswordResetEnv(t, notifier)
	ctx := context.Background()
	env.seedUser(5001, "anna")
	req, _, err := svc.Request(ctx, &models.NewChangePasswordRequest{InitData: signedInitData(5001, "anna", "de")})
	require.NoError(t, err)

	// Act
	_, warnings, err := svc.Reset(ctx, req.ID)

	// Assert
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], NotifyUserPasswordReset)
}

func TestPasswordResetService_Reject(t *testing.T) {
	// Arrange
	svc, env := newPasswordResetEnv(t, nil)
	ctx := context.Background()
	user := env.seedUser(5001, "anna")
	req, _, err := svc.Request(ctx, &models.NewChangePasswordRequest{InitData: signedInitData(5001, "anna", "de")})
	require.NoError(t, err)
	require.NoError(t, env.db.Store().Users().SetPassword(ctx, user.ID, "hash"))

	// Act
	rejected, err := svc.Reject(ctx, req.ID)
	_, _, errAgain := svc.Reset(ctx, req.ID)
	_, errMissing := svc.Reject(ctx, 999)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, models.PasswordResetRejected, rejected.Status)
	assert.Equal(t, http.StatusConflict, apperrors.StatusOf(errAgain))
	assert.Equal(t, http.StatusNotFound, apperrors.StatusOf(errMissing))
	stored, err := env.db.Store().Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsSetPassword)
}
