// Package model defines database models
package model

import "time"

type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"unique;not null" json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	PasswordHash string `gorm:"not null" json:"-"`

	// Credit balance. Never mutated with read-modify-write, only through
	// the conditional updates in the ledger package
	Points                 int    `gorm:"not null;default:0" json:"points"`
	HasReceivedFreeCredits bool   `gorm:"not null;default:false" json:"hasReceivedFreeCredits"`
	Role                   string `gorm:"not null;default:user" json:"role"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Generations     []Generation     `gorm:"foreignKey:UserID" json:"-"`
	PaymentSessions []PaymentSession `gorm:"foreignKey:UserID" json:"-"`
	PasswordResets  []PasswordReset  `gorm:"foreignKey:UserID" json:"-"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// FreeCreditAmount is the one-time grant given to every account, either
// at registration or grandfathered in on first login
const FreeCreditAmount = 4
