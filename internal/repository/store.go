package repository

import (
	"context"
	"database/sql"

	"github.com/onerilhan/go-portfolio-api/internal/db"
	"github.com/onerilhan/go-portfolio-api/internal/interfaces"
)

// rowScanner *sql.Row ve *sql.Rows için ortak Scan yüzeyi
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// PostgresStore aynı Executor üzerinde çalışan repository seti
type PostgresStore struct {
	users           *UserRepository
	depositRequests *DepositRequestRepository
	deposits        *DepositRepository
	operations      *OperationRepository
	prolongations   *ProlongationRepository
	prices          *PriceRepository
	wallets         *WalletRepository
	passwordResets  *PasswordResetRepository
}

// NewStore verilen Executor (*sql.DB veya *sql.Tx) için store oluşturur
func NewStore(exec db.Executor) *PostgresStore {
	return &PostgresStore{
		users:           NewUserRepository(exec),
		depositRequests: NewDepositRequestRepository(exec),
		deposits:        NewDepositRepository(exec),
		operations:      NewOperationRepository(exec),
		prolongations:   NewProlongationRepository(exec),
		prices:          NewPriceRepository(exec),
		wallets:         NewWalletRepository(exec),
		passwordResets:  NewPasswordResetRepository(exec),
	}
}

func (s *PostgresStore) Users() interfaces.UserRepositoryInterface { return s.users }

func (s *PostgresStore) DepositRequests() interfaces.DepositRequestRepositoryInterface {
	return s.depositRequests
}

func (s *PostgresStore) Deposits() interfaces.DepositRepositoryInterface { return s.deposits }

func (s *PostgresStore) Operations() interfaces.OperationRepositoryInterface { return s.operations }

func (s *PostgresStore) Prolongations() interfaces.ProlongationRepositoryInterface {
	return s.prolongations
}

func (s *PostgresStore) Prices() interfaces.PriceRepositoryInterface { return s.prices }

func (s *PostgresStore) Wallets() interfaces.WalletRepositoryInterface { return s.wallets }

func (s *PostgresStore) PasswordResets() interfaces.PasswordResetRepositoryInterface {
	return s.passwordResets
}

// UnitOfWork *sql.DB üzerinde transaction sınırı
type UnitOfWork struct {
	db    *sql.DB
	store *PostgresStore
}

// NewUnitOfWork yeni unit of work oluşturur
func NewUnitOfWork(database *sql.DB) *UnitOfWork {
	return &UnitOfWork{db: database, store: NewStore(database)}
}

// Store transaction dışı store'u döner
func (u *UnitOfWork) Store() interfaces.Store {
	return u.store
}

// WithinTransaction fn'i tek transaction içinde, tx'e bağlı bir store ile çalıştırır
func (u *UnitOfWork) WithinTransaction(ctx context.Context, fn func(store interfaces.Store) error) error {
	return db.WithTransaction(ctx, u.db, func(tx *sql.Tx) error {
		return fn(NewStore(tx))
	})
}
