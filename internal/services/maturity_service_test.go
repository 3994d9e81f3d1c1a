package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMaturityService_ScanDepositsForProlong(t *testing.T) {
	// Arrange
	notifier := new(MockNotifier)
	notifier.On("Send", mock.Anything, mock.Anything, NotifyUserTimeToProlong, mock.Anything).Return(nil)
	notifier.On("NotifyAdmins", mock.Anything, NotifyAdminTimeToProlong, mock.Anything).Return(nil)
	notifier.On("NotifyAdmins", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	notifier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	env := newTestEnv(t, notifier)

	anna := env.seedUser(5001, "anna")
	in7, _ := env.openDeposit(t, anna.ID, "1000")
	in14, _ := env.openDeposit(t, anna.ID, "1000")
	in10, _ := env.openDeposit(t, anna.ID, "1000")
	acted, _ := env.openDeposit(t, anna.ID, "1000")
	closed, _ := env.openDeposit(t, anna.ID, "1000")

	env.makeDue(in7.ID, 7)
	env.makeDue(in14.ID, 14)
	env.makeDue(in10.ID, 10)
	env.makeDue(acted.ID, 7)
	env.makeDue(closed.ID, 7)

	a := env.deposit(acted.ID)
	a.IsMadeActionToProlong = true
	env.db.state.deposits[acted.ID] = a
	c := env.deposit(closed.ID)
	c.IsActive = false
	env.db.state.deposits[closed.ID] = c

	// Act
	report, err := env.maturity.ScanDepositsForProlong(context.Background(), testNow)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4, report.Checked)
	assert.Equal(t, 2, report.Flagged)
	assert.Empty(t, report.Failures)

	assert.True(t, env.deposit(in7.ID).IsTimeToProlong)
	assert.True(t, env.deposit(in14.ID).IsTimeToProlong)
	assert.False(t, env.deposit(in10.ID).IsTimeToProlong)
	assert.False(t, env.deposit(acted.ID).IsTimeToProlong)

	notifier.AssertNumberOfCalls(t, "NotifyAdmins", 2+5)
	notifier.AssertCalled(t, "NotifyAdmins", mock.Anything, NotifyAdminTimeToProlong, map[string]string{
		"name":      "anna",
		"dateUntil": "21.10.2026",
		"username":  "anna",
	})
}

func TestMaturityService_NotificationFailuresDoNotStopScan(t *testing.T) {
	// Arrange
	notifier := new(MockNotifier)
	notifier.On("NotifyAdmins", mock.Anything, NotifyAdminTimeToProlong, mock.Anything).Return(errors.New("admin 1: chat not found"))
	notifier.On("NotifyAdmins", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	notifier.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	env := newTestEnv(t, notifier)

	user := env.seedUser(5001, "")
	first, _ := env.openDeposit(t, user.ID, "1000")
	second, _ := env.openDeposit(t, user.ID, "1000")
	env.makeDue(first.ID, 7)
	env.makeDue(second.ID, 14)

	// Act
	report, err := env.maturity.ScanDepositsForProlong(context.Background(), testNow)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, report.Flagged)
	assert.Len(t, report.Failures, 2)
	assert.True(t, env.deposit(first.ID).IsTimeToProlong)
	assert.True(t, env.deposit(second.ID).IsTimeToProlong)
	notifier.AssertCalled(t, "NotifyAdmins", mock.Anything, NotifyAdminTimeToProlong, map[string]string{
		"name":      "unknown",
		"dateUntil": "28.10.2026",
		"username":  "no username",
	})
}
