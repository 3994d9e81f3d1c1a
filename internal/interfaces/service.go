// internal/interfaces/service.go
package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/onerilhan/go-portfolio-api/internal/models"
)

// UserServiceInterface giriş ve şifre işlemleri için interface
type UserServiceInterface interface {
	Enter(ctx context.Context, req *models.EnterRequest) (*models.User, error)
	SetPassword(ctx context.Context, req *models.SetPasswordRequest) error
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}

// PasswordResetServiceInterface şifre sıfırlama talepleri için interface
type PasswordResetServiceInterface interface {
	Request(ctx context.Context, req *models.NewChangePasswordRequest) (*models.ChangePasswordRequest, []string, error)
	ListOpen(ctx context.Context) ([]*models.ChangePasswordRequest, error)
	Get(ctx context.Context, id int64) (*models.ChangePasswordRequest, error)
	Reset(ctx context.Context, id int64) (*models.ChangePasswordRequest, []string, error)
	Reject(ctx context.Context, id int64) (*models.ChangePasswordRequest, error)
}

// WalletServiceInterface cüzdan adresleri için interface
type WalletServiceInterface interface {
	GetAddress(ctx context.Context, name string) (*models.WalletAddress, error)
	UpsertAddress(ctx context.Context, req *models.UpsertWalletAddressRequest) (*models.WalletAddress, error)
}

// DepositServiceInterface portföy talebi, oluşturma, okuma ve refund işlemleri
type DepositServiceInterface interface {
	CreateRequest(ctx context.Context, userID int64, req *models.CreateDepositRequest) (*models.DepositRequest, []string, error)
	ListPendingRequests(ctx context.Context) ([]*models.DepositRequest, error)
	GetRequest(ctx context.Context, id int64) (*models.DepositRequest, error)
	ApproveRequest(ctx context.Context, requestID int64, req *models.ApproveDepositRequest) (*models.DepositCreationResult, error)

	GetDeposit(ctx context.Context, id int64) (*models.DepositView, error)
	ListUserDeposits(ctx context.Context, userID int64) ([]*models.DepositView, error)
	ListDeposits(ctx context.Context, activeOnly bool) ([]*models.DepositView, error)

	Refund(ctx context.Context, depositID int64, value decimal.Decimal) (*models.RefundResult, error)
}

// SettlementServiceInterface haftalık kapanış için interface
type SettlementServiceInterface interface {
	Settle(ctx context.Context, operationID int64, percent decimal.Decimal) (*models.SettlementResult, error)
}

// ProlongationServiceInterface vade sonu akışı için interface
type ProlongationServiceInterface interface {
	RequestAction(ctx context.Context, userID int64, isAdmin bool, depositID int64, req *models.ProlongationRequest) (*models.ProlongationResult, error)
	ListPending(ctx context.Context) ([]*models.DepositProlongation, error)
	Resolve(ctx context.Context, prolongationID int64, req *models.ResolveProlongationRequest) (*models.ProlongationResult, error)
}

// MaturityServiceInterface vade kontrol job'ı için interface
type MaturityServiceInterface interface {
	ScanDepositsForProlong(ctx context.Context, now time.Time) (*models.MaturityScanReport, error)
}

// PriceServiceInterface BTC fiyatı ve kurlar için interface
type PriceServiceInterface interface {
	FetchDailyBitcoinPrice(ctx context.Context, day time.Time) (*models.BitcoinPrice, error)
	FetchRange(ctx context.Context, from, to time.Time) (*models.PriceFetchReport, error)
	ListBitcoinPrices(ctx context.Context, from, to time.Time) ([]*models.BitcoinPrice, error)
	ListCryptoRates(ctx context.Context) ([]*models.CryptoRate, error)
	UpdateCryptoRate(ctx context.Context, req *models.UpdateCryptoRateRequest) (*models.CryptoRate, error)
}

// NotifierInterface Telegram bildirimleri için interface
type NotifierInterface interface {
	// Send tek alıcıya şablon mesajı gönderir
	Send(ctx context.Context, recipientID int64, key string, data map[string]string) error

	// NotifyAdmins tüm adminlere gönderir; alıcı bazlı hataları birleştirip döner
	NotifyAdmins(ctx context.Context, key string, data map[string]string) error
}

// PriceFeedInterface dış fiyat kaynağı
type PriceFeedInterface interface {
	DailyClose(ctx context.Context, day time.Time) (decimal.Decimal, error)
	DailyCloseEur(ctx context.Context, day time.Time) (decimal.Decimal, error)
}
