package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onerilhan/go-portfolio-api/internal/models"
)

var passwordResetCols = []string{"id", "user_id", "tlgid", "name", "status", "is_operated", "created_at", "updated_at"}

func TestPasswordResetRepository_ListOpen(t *testing.T) {
	// Arrange
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	now := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM change_password_requests r\s+JOIN users u ON u.id = r.user_id\s+WHERE r.status = 'new'`).
		WillReturnRows(sqlmock.NewRows(passwordResetCols).
			AddRow(2, 7, 700, "ivan", "new", false, now.Add(time.Hour), now).
			AddRow(1, 8, 800, "anna", "new", false, now, now))

	// Act
	requests, err := NewPasswordResetRepository(database).ListOpen(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, int64(700), requests[0].TelegramID)
	assert.Equal(t, "anna", requests[1].UserName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordResetRepository_Resolve_NotFound(t *testing.T) {
	// Arrange
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	mock.ExpectExec(`UPDATE change_password_requests`).
		WithArgs(models.PasswordResetRejected, int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Act
	err = NewPasswordResetRepository(database).Resolve(context.Background(), 5, models.PasswordResetRejected)

	// Assert
	assert.ErrorIs(t, err, models.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_ResetPassword(t *testing.T) {
	// Arrange
	database, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer database.Close()

	mock.ExpectExec(`UPDATE users\s+SET password_hash = '', is_set_password = FALSE`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Act
	err = NewUserRepository(database).ResetPassword(context.Background(), 7)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
