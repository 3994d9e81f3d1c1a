// internal/interfaces/repository.go
package interfaces

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/onerilhan/go-portfolio-api/internal/models"
)

// UserRepositoryInterface kullanıcı database işlemleri için interface
type UserRepositoryInterface interface {
	// Create yeni kullanıcı oluşturur
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByID ID ile kullanıcı bulur
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetByTelegramID Telegram id ile kullanıcı bulur
	GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error)

	// SetPassword şifre hash'ini kaydeder
	SetPassword(ctx context.Context, id int64, passwordHash string) error

	// UpdateProfile isim/ilk giriş bilgisini günceller
	UpdateProfile(ctx context.Context, id int64, name string, isFirstEnter bool) error

	// ResetPassword şifre hash'ini siler, kullanıcı yeniden şifre belirleyebilir
	ResetPassword(ctx context.Context, id int64) error
}

// DepositRequestRepositoryInterface portföy talepleri için interface
type DepositRequestRepositoryInterface interface {
	Create(ctx context.Context, req *models.DepositRequest) (*models.DepositRequest, error)
	GetByID(ctx context.Context, id int64) (*models.DepositRequest, error)

	// LockByID talebi FOR UPDATE ile kilitleyerek okur
	LockByID(ctx context.Context, id int64) (*models.DepositRequest, error)

	ListPending(ctx context.Context) ([]*models.DepositRequest, error)
	MarkOperated(ctx context.Context, id int64) error
}

// DepositRepositoryInterface portföy database işlemleri için interface
type DepositRepositoryInterface interface {
	Create(ctx context.Context, deposit *models.Deposit) (*models.Deposit, error)

	// GetByID refund geçmişiyle birlikte portföyü getirir
	GetByID(ctx context.Context, id int64) (*models.Deposit, error)

	// LockByID portföy satırını FOR UPDATE ile kilitler; zincir değişiklikleri bu kilit altında yapılır
	LockByID(ctx context.Context, id int64) (*models.Deposit, error)

	ListByUser(ctx context.Context, userID int64) ([]*models.Deposit, error)
	ListAll(ctx context.Context, activeOnly bool) ([]*models.Deposit, error)

	// Update değişebilir alanları günceller
	Update(ctx context.Context, deposit *models.Deposit) error

	// AddRefund refund geçmişine kayıt ekler
	AddRefund(ctx context.Context, depositID int64, date time.Time, value decimal.Decimal) (*models.RefundEntry, error)
}

// OperationRepositoryInterface haftalık operasyon kayıtları için interface
type OperationRepositoryInterface interface {
	Create(ctx context.Context, op *models.DepositOperation) (*models.DepositOperation, error)
	GetByID(ctx context.Context, id int64) (*models.DepositOperation, error)

	// ListByDeposit zinciri sequence sırasıyla döner
	ListByDeposit(ctx context.Context, depositID int64) ([]*models.DepositOperation, error)

	// GetLatest en son oluşturulan operasyonu döner
	GetLatest(ctx context.Context, depositID int64) (*models.DepositOperation, error)

	Update(ctx context.Context, op *models.DepositOperation) error
}

// ProlongationRepositoryInterface vade sonu talepleri için interface
type ProlongationRepositoryInterface interface {
	Create(ctx context.Context, p *models.DepositProlongation) (*models.DepositProlongation, error)
	GetByID(ctx context.Context, id int64) (*models.DepositProlongation, error)
	LockByID(ctx context.Context, id int64) (*models.DepositProlongation, error)
	ListPending(ctx context.Context) ([]*models.DepositProlongation, error)
	MarkOperated(ctx context.Context, id int64, at time.Time) error
}

// PriceRepositoryInterface BTC fiyatı ve kripto kurları için interface
type PriceRepositoryInterface interface {
	GetBitcoinPrice(ctx context.Context, date string) (*models.BitcoinPrice, error)
	SaveBitcoinPrice(ctx context.Context, price *models.BitcoinPrice) (*models.BitcoinPrice, error)
	ListBitcoinPrices(ctx context.Context, from, to time.Time) ([]*models.BitcoinPrice, error)

	ListCryptoRates(ctx context.Context) ([]*models.CryptoRate, error)
	UpsertCryptoRate(ctx context.Context, name string, value decimal.Decimal) (*models.CryptoRate, error)
}

// WalletRepositoryInterface cüzdan adresleri için interface
type WalletRepositoryInterface interface {
	GetByName(ctx context.Context, name string) (*models.WalletAddress, error)

	// Upsert adresi isme göre ekler ya da günceller
	Upsert(ctx context.Context, name, address string) (*models.WalletAddress, error)
}

// PasswordResetRepositoryInterface şifre sıfırlama talepleri için interface
type PasswordResetRepositoryInterface interface {
	Create(ctx context.Context, userID int64) (*models.ChangePasswordRequest, error)
	GetByID(ctx context.Context, id int64) (*models.ChangePasswordRequest, error)
	LockByID(ctx context.Context, id int64) (*models.ChangePasswordRequest, error)

	// HasOpen kullanıcının "new" durumunda talebi var mı
	HasOpen(ctx context.Context, userID int64) (bool, error)

	// ListOpen açık talepleri yeniden eskiye listeler
	ListOpen(ctx context.Context) ([]*models.ChangePasswordRequest, error)

	// Resolve talebi işlenmiş olarak verilen duruma çeker
	Resolve(ctx context.Context, id int64, status string) error
}

// Store tek bir bağlantı/transaction üzerinde çalışan repository seti
type Store interface {
	Users() UserRepositoryInterface
	DepositRequests() DepositRequestRepositoryInterface
	Deposits() DepositRepositoryInterface
	Operations() OperationRepositoryInterface
	Prolongations() ProlongationRepositoryInterface
	Prices() PriceRepositoryInterface
	Wallets() WalletRepositoryInterface
	PasswordResets() PasswordResetRepositoryInterface
}

// UnitOfWork transaction sınırını yönetir
type UnitOfWork interface {
	// Store transaction dışı okuma için store
	Store() Store

	// WithinTransaction fn'i tek bir transaction içinde çalıştırır; hata dönerse rollback yapılır
	WithinTransaction(ctx context.Context, fn func(store Store) error) error
}
