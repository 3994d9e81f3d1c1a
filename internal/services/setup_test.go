package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/onerilhan/go-portfolio-api/internal/models"
)

var testLoc = time.FixedZone("MSK", 3*60*60)

// Çarşamba, 42. hafta
var testNow = time.Date(2026, 10, 14, 12, 0, 0, 0, testLoc)

type testEnv struct {
	db            *memDB
	notifier      *MockNotifier
	deposits      *DepositService
	settlement    *SettlementService
	prolongations *ProlongationService
	maturity      *MaturityService
}

func newTestEnv(t *testing.T, notifier *MockNotifier) *testEnv {
	t.Helper()
	if notifier == nil {
		notifier = quietNotifier()
	}

	db := newMemDB()
	env := &testEnv{
		db:            db,
		notifier:      notifier,
		deposits:      NewDepositService(db, notifier, nil, testLoc),
		settlement:    NewSettlementService(db, nil, testLoc),
		prolongations: NewProlongationService(db, notifier, nil, testLoc, []int{7, 14}),
		maturity:      NewMaturityService(db, notifier, nil, testLoc, []int{7, 14}),
	}
	env.deposits.now = func() time.Time { return testNow }
	env.prolongations.now = func() time.Time { return testNow }
	return env
}

func (e *testEnv) seedUser(tlgid int64, name string) *models.User {
	e.db.mu.Lock()
	defer e.db.mu.Unlock()

	u := models.User{
		ID:           e.db.state.id(),
		TelegramID:   tlgid,
		Username:     name,
		Name:         name,
		Language:     models.LanguageDE,
		Role:         models.RoleUser,
		IsFirstEnter: true,
	}
	e.db.state.users[u.ID] = u
	return &u
}

// openDeposit talep + onay akışıyla kur=1 olan bir portföy açar
func (e *testEnv) openDeposit(t *testing.T, userID int64, amount string) (*models.Deposit, *models.DepositOperation) {
	t.Helper()
	ctx := context.Background()

	req, _, err := e.deposits.CreateRequest(ctx, userID, &models.CreateDepositRequest{
		Valute:             "USDT",
		CryptoCashCurrency: "crypto",
		Amount:             models.FlexibleDecimal{Decimal: dec(amount)},
		Period:             12,
		RiskPercent:        models.FlexibleDecimal{Decimal: dec("10")},
	})
	require.NoError(t, err)

	res, err := e.deposits.ApproveRequest(ctx, req.ID, &models.ApproveDepositRequest{ExchangeRate: dec("1")})
	require.NoError(t, err)
	return res.Deposit, res.OpeningOperation
}

// makeDue vade sonunu days gün sonraya çeker
func (e *testEnv) makeDue(depositID int64, days int) {
	e.db.mu.Lock()
	defer e.db.mu.Unlock()

	d := e.db.state.deposits[depositID]
	d.DateUntil = testNow.AddDate(0, 0, days)
	e.db.state.deposits[depositID] = d
}

func (e *testEnv) deposit(id int64) models.Deposit {
	e.db.mu.Lock()
	defer e.db.mu.Unlock()
	return e.db.state.deposits[id]
}

func (e *testEnv) chain(t *testing.T, depositID int64) []*models.DepositOperation {
	t.Helper()
	ops, err := e.db.Store().Operations().ListByDeposit(context.Background(), depositID)
	require.NoError(t, err)
	return ops
}

// requireChainInvariants süreklilik ve tek açık kuyruk kontrolü
func requireChainInvariants(t *testing.T, ops []*models.DepositOperation) {
	t.Helper()

	byID := make(map[int64]*models.DepositOperation, len(ops))
	for _, op := range ops {
		byID[op.ID] = op
	}

	tails := 0
	for _, op := range ops {
		if op.NextOperationID == nil {
			tails++
			continue
		}
		next, ok := byID[*op.NextOperationID]
		require.True(t, ok, "operation %d points outside the chain", op.ID)
		require.True(t, op.WeekFinishAmount.Equal(next.WeekStartAmount),
			"continuity broken between %d (%s) and %d (%s)", op.ID, op.WeekFinishAmount, next.ID, next.WeekStartAmount)
	}
	require.Equal(t, 1, tails, "exactly one open tail expected")
}
