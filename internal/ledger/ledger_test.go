package ledger

import (
	"testing"

	"akshit029/vig-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testLedger(t *testing.T) *Ledger {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.PaymentSession{}))

	return New(db)
}

func seedUser(t *testing.T, l *Ledger, id string, points int) {
	t.Helper()

	require.NoError(t, l.DB.Create(&model.User{
		ID:           id,
		Email:        id + "@example.com",
		PasswordHash: "x",
		Points:       points,
	}).Error)
}

func TestDebit(t *testing.T) {
	l := testLedger(t)
	seedUser(t, l, "u1", 2)

	remaining, err := l.Debit("u1")
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)

	remaining, err = l.Debit("u1")
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	_, err = l.Debit("u1")
	assert.ErrorIs(t, err, ErrInsufficientPoints)

	// A failed debit never drives the balance negative
	balance, err := l.balance("u1")
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestDebitUnknownUser(t *testing.T) {
	l := testLedger(t)

	_, err := l.Debit("nobody")
	assert.ErrorIs(t, err, ErrInsufficientPoints)
}

func TestCredit(t *testing.T) {
	l := testLedger(t)
	seedUser(t, l, "u1", 3)

	total, err := l.Credit("u1", 10)
	require.NoError(t, err)
	assert.Equal(t, 13, total)

	_, err = l.Credit("nobody", 10)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGrantFreeCreditsOnce(t *testing.T) {
	l := testLedger(t)
	seedUser(t, l, "u1", 0)

	total, err := l.GrantFreeCredits("u1")
	require.NoError(t, err)
	assert.Equal(t, model.FreeCreditAmount, total)

	// Second grant is a no-op no matter which path triggers it
	total, err = l.GrantFreeCredits("u1")
	assert.ErrorIs(t, err, ErrAlreadyGranted)
	assert.Equal(t, model.FreeCreditAmount, total)
}

func TestApplySessionIdempotent(t *testing.T) {
	l := testLedger(t)
	seedUser(t, l, "u1", 1)

	info := SessionInfo{
		SessionID: "cs_test_123",
		UserID:    "u1",
		Points:    50,
		Amount:    999,
	}

	applied, total, err := l.ApplySession(info)
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 51, total)

	// The second confirmation path arrives and must not credit again
	applied, total, err = l.ApplySession(info)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.Equal(t, 51, total)

	var sess model.PaymentSession
	require.NoError(t, l.DB.First(&sess, "session_id = ?", "cs_test_123").Error)
	assert.Equal(t, model.SessionCredited, sess.Status)
	assert.NotNil(t, sess.CreditedAt)
}

func TestApplySessionWithPendingRow(t *testing.T) {
	l := testLedger(t)
	seedUser(t, l, "u1", 0)

	// Checkout handler already persisted the pending row
	require.NoError(t, l.DB.Create(&model.PaymentSession{
		SessionID: "cs_test_456",
		UserID:    "u1",
		Points:    10,
		Amount:    299,
		Status:    model.SessionPending,
	}).Error)

	applied, total, err := l.ApplySession(SessionInfo{
		SessionID: "cs_test_456",
		UserID:    "u1",
		Points:    10,
		Amount:    299,
	})
	require.NoError(t, err)
	assert.True(t, applied)
	assert.Equal(t, 10, total)
}
