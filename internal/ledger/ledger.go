// Package ledger owns every mutation of a user's point balance. Balances
// are only ever changed through conditional UPDATEs so concurrent requests
// can't spend more credits than the account holds, and a paid checkout
// session can never be applied twice
package ledger

import (
	"errors"
	"time"

	"akshit029/vig-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrAlreadyGranted     = errors.New("free credits already received")
	ErrUserNotFound       = errors.New("user not found")
)

type Ledger struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{DB: db}
}

// Debit takes exactly one point from the user. The points > 0 guard makes
// the check-then-decrement race harmless: whichever concurrent request
// loses simply gets ErrInsufficientPoints
func (l *Ledger) Debit(userID string) (remaining int, err error) {
	r := l.DB.
		Model(model.User{}).
		Where("id = ? AND points > 0", userID).
		UpdateColumn("points", gorm.Expr("points - 1"))
	if r.Error != nil {
		return 0, r.Error
	}

	if r.RowsAffected == 0 {
		return 0, ErrInsufficientPoints
	}

	return l.balance(userID)
}

// Credit adds n points unconditionally. Only the payment flow and the
// free-credit grant call this
func (l *Ledger) Credit(userID string, n int) (total int, err error) {
	r := l.DB.
		Model(model.User{}).
		Where("id = ?", userID).
		UpdateColumn("points", gorm.Expr("points + ?", n))
	if r.Error != nil {
		return 0, r.Error
	}

	if r.RowsAffected == 0 {
		return 0, ErrUserNotFound
	}

	return l.balance(userID)
}

// GrantFreeCredits applies the one-time welcome grant. The flag flip and
// the point increment happen in the same UPDATE, so a user hammering both
// the login grandfather path and the explicit endpoint gets the grant once
func (l *Ledger) GrantFreeCredits(userID string) (total int, err error) {
	r := l.DB.
		Model(model.User{}).
		Where("id = ? AND has_received_free_credits = ?", userID, false).
		UpdateColumns(map[string]any{
			"points":                    gorm.Expr("points + ?", model.FreeCreditAmount),
			"has_received_free_credits": true,
		})
	if r.Error != nil {
		return 0, r.Error
	}

	if r.RowsAffected == 0 {
		total, err = l.balance(userID)
		if err != nil {
			return 0, err
		}

		return total, ErrAlreadyGranted
	}

	return l.balance(userID)
}

// SessionInfo carries the Stripe metadata both confirmation paths resolve
// before crediting
type SessionInfo struct {
	SessionID string
	UserID    string
	Points    int
	Amount    int64
}

// ApplySession credits a paid checkout session at most once. The row for
// the session is claimed with a pending -> credited transition inside one
// transaction; whichever of the client callback and the webhook gets there
// second sees zero affected rows and leaves the balance alone
func (l *Ledger) ApplySession(s SessionInfo) (applied bool, total int, err error) {
	err = l.DB.Transaction(func(tx *gorm.DB) error {
		// The session may not exist yet when the webhook fires before
		// the checkout handler persisted it
		r := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoNothing: true,
		}).Create(&model.PaymentSession{
			SessionID: s.SessionID,
			UserID:    s.UserID,
			Points:    s.Points,
			Amount:    s.Amount,
			Status:    model.SessionPending,
			CreatedAt: time.Now(),
		})
		if r.Error != nil {
			return r.Error
		}

		now := time.Now()
		r = tx.
			Model(model.PaymentSession{}).
			Where("session_id = ? AND status = ?", s.SessionID, model.SessionPending).
			Updates(map[string]any{
				"status":      model.SessionCredited,
				"credited_at": &now,
			})
		if r.Error != nil {
			return r.Error
		}

		if r.RowsAffected == 0 {
			// Already credited, nothing to do
			return nil
		}

		applied = true

		r = tx.
			Model(model.User{}).
			Where("id = ?", s.UserID).
			UpdateColumn("points", gorm.Expr("points + ?", s.Points))
		if r.Error != nil {
			return r.Error
		}

		if r.RowsAffected == 0 {
			return ErrUserNotFound
		}

		return nil
	})
	if err != nil {
		return false, 0, err
	}

	total, err = l.balance(s.UserID)
	if err != nil {
		return applied, 0, err
	}

	return applied, total, nil
}

func (l *Ledger) balance(userID string) (int, error) {
	var points int

	err := l.DB.
		Model(model.User{}).
		Where("id = ?", userID).
		Select("points").
		First(&points).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}

		return 0, err
	}

	return points, nil
}
