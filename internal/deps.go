package internal

import (
	"akshit029/vig-api/internal/ledger"
	"akshit029/vig-api/internal/payments"
	"akshit029/vig-api/internal/provider"
	"akshit029/vig-api/internal/service"
	"akshit029/vig-api/internal/storage"
	"akshit029/vig-api/pkg/security"

	"gorm.io/gorm"
)

type Deps struct {
	DB        *gorm.DB
	Argon     *security.ArgonHash
	Ledger    *ledger.Ledger
	Store     *storage.Store
	TTS       provider.TTS
	STT       provider.Transcriber
	Checkout  payments.Checkout
	BurnQueue *service.BurnQueue
}
