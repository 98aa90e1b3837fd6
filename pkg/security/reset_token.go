package security

import (
	"errors"
	"time"

	"akshit029/vig-api/internal/model"
	"akshit029/vig-api/pkg/util"
)

const tokenSize = 32

// MakeResetToken builds a single-use password reset token for a user.
// The token itself is random hex, never derived from account data
func MakeResetToken(userID string, ttl time.Duration) (*model.PasswordReset, error) {
	if userID == "" {
		return nil, errors.New("no user ID provided")
	}

	if ttl <= 0 {
		return nil, errors.New("no expiry provided")
	}

	token, err := util.GenerateToken(tokenSize)
	if err != nil {
		return nil, err
	}

	return &model.PasswordReset{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
		CreatedAt: time.Now(),
	}, nil
}
