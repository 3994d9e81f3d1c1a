package handlers

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/onerilhan/go-portfolio-api/internal/models"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Enter(ctx context.Context, req *models.EnterRequest) (*models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) SetPassword(ctx context.Context, req *models.SetPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockUserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LoginResponse), args.Error(1)
}

type MockDepositService struct {
	mock.Mock
}

func (m *MockDepositService) CreateRequest(ctx context.Context, userID int64, req *models.CreateDepositRequest) (*models.DepositRequest, []string, error) {
	args := m.Called(ctx, userID, req)
	var warnings []string
	if w := args.Get(1); w != nil {
		warnings = w.([]string)
	}
	if args.Get(0) == nil {
		return nil, warnings, args.Error(2)
	}
	return args.Get(0).(*models.DepositRequest), warnings, args.Error(2)
}

func (m *MockDepositService) ListPendingRequests(ctx context.Context) ([]*models.DepositRequest, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.DepositRequest), args.Error(1)
}

func (m *MockDepositService) GetRequest(ctx context.Context, id int64) (*models.DepositRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DepositRequest), args.Error(1)
}

func (m *MockDepositService) ApproveRequest(ctx context.Context, requestID int64, req *models.ApproveDepositRequest) (*models.DepositCreationResult, error) {
	args := m.Called(ctx, requestID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DepositCreationResult), args.Error(1)
}

func (m *MockDepositService) GetDeposit(ctx context.Context, id int64) (*models.DepositView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DepositView), args.Error(1)
}

func (m *MockDepositService) ListUserDeposits(ctx context.Context, userID int64) ([]*models.DepositView, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*models.DepositView), args.Error(1)
}

func (m *MockDepositService) ListDeposits(ctx context.Context, activeOnly bool) ([]*models.DepositView, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]*models.DepositView), args.Error(1)
}

func (m *MockDepositService) Refund(ctx context.Context, depositID int64, value decimal.Decimal) (*models.RefundResult, error) {
	args := m.Called(ctx, depositID, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefundResult), args.Error(1)
}

type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) Settle(ctx context.Context, operationID int64, percent decimal.Decimal) (*models.SettlementResult, error) {
	args := m.Called(ctx, operationID, percent)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SettlementResult), args.Error(1)
}

type MockProlongationService struct {
	mock.Mock
}

func (m *MockProlongationService) RequestAction(ctx context.Context, userID int64, isAdmin bool, depositID int64, req *models.ProlongationRequest) (*models.ProlongationResult, error) {
	args := m.Called(ctx, userID, isAdmin, depositID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProlongationResult), args.Error(1)
}

func (m *MockProlongationService) ListPending(ctx context.Context) ([]*models.DepositProlongation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.DepositProlongation), args.Error(1)
}

func (m *MockProlongationService) Resolve(ctx context.Context, prolongationID int64, req *models.ResolveProlongationRequest) (*models.ProlongationResult, error) {
	args := m.Called(ctx, prolongationID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ProlongationResult), args.Error(1)
}

type MockPriceService struct {
	mock.Mock
}

func (m *MockPriceService) FetchDailyBitcoinPrice(ctx context.Context, day time.Time) (*models.BitcoinPrice, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BitcoinPrice), args.Error(1)
}

func (m *MockPriceService) FetchRange(ctx context.Context, from, to time.Time) (*models.PriceFetchReport, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PriceFetchReport), args.Error(1)
}

func (m *MockPriceService) ListBitcoinPrices(ctx context.Context, from, to time.Time) ([]*models.BitcoinPrice, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.BitcoinPrice), args.Error(1)
}

func (m *MockPriceService) ListCryptoRates(ctx context.Context) ([]*models.CryptoRate, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.CryptoRate), args.Error(1)
}

func (m *MockPriceService) UpdateCryptoRate(ctx context.Context, req *models.UpdateCryptoRateRequest) (*models.CryptoRate, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CryptoRate), args.Error(1)
}

type MockMaturityService struct {
	mock.Mock
}

func (m *MockMaturityService) ScanDepositsForProlong(ctx context.Context, now time.Time) (*models.MaturityScanReport, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaturityScanReport), args.Error(1)
}

type stubPinger struct {
	err error
}

func (p stubPinger) PingContext(ctx context.Context) error {
	return p.err
}

type MockPasswordResetService struct {
	mock.Mock
}

func (m *MockPasswordResetService) Request(ctx context.Context, req *models.NewChangePasswordRequest) (*models.ChangePasswordRequest, []string, error) {
	args := m.Called(ctx, req)
	var warnings []string
	if w := args.Get(1); w != nil {
		warnings = w.([]string)
	}
	if args.Get(0) == nil {
		return nil, warnings, args.Error(2)
	}
	return args.Get(0).(*models.ChangePasswordRequest), warnings, args.Error(2)
}

func (m *MockPasswordResetService) ListOpen(ctx context.Context) ([]*models.ChangePasswordRequest, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*models.ChangePasswordRequest), args.Error(1)
}

func (m *MockPasswordResetService) Get(ctx context.Context, id int64) (*models.ChangePasswordRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChangePasswordRequest), args.Error(1)
}

func (m *MockPasswordResetService) Reset(ctx context.Context, id int64) (*models.ChangePasswordRequest, []string, error) {
	args := m.Called(ctx, id)
	var warnings []string
	if w := args.Get(1); w != nil {
		warnings = w.([]string)
	}
	if args.Get(0) == nil {
		return nil, warnings, args.Error(2)
	}
	return args.Get(0).(*models.ChangePasswordRequest), warnings, args.Error(2)
}

func (m *MockPasswordResetService) Reject(ctx context.Context, id int64) (*models.ChangePasswordRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChangePasswordRequest), args.Error(1)
}

type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) GetAddress(ctx context.Context, name string) (*models.WalletAddress, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WalletAddress), args.Error(1)
}

func (m *MockWalletService) UpsertAddress(ctx context.Context, req *models.UpsertWalletAddressRequest) (*models.WalletAddress, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WalletAddress), args.Error(1)
}
