package model

import "time"

// PaymentSession mirrors one Stripe checkout session. The unique SessionID
// plus the pending->credited transition is what guarantees a paid session
// is credited at most once, no matter how many times the client callback
// and the webhook both see it
type PaymentSession struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	SessionID string `gorm:"uniqueIndex;not null" json:"id"`
	UserID    string `gorm:"index;not null" json:"-"`

	Points int   `gorm:"not null" json:"points"`
	Amount int64 `gorm:"not null" json:"amount"`

	Status     string     `gorm:"not null;default:pending" json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	CreditedAt *time.Time `json:"creditedAt,omitempty"`
}

const (
	SessionPending  = "pending"
	SessionCredited = "credited"
)
