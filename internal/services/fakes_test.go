package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/onerilhan/go-portfolio-api/internal/interfaces"
	"github.com/onerilhan/go-portfolio-api/internal/models"
)

// memState bellek içi tablo seti
type memState struct {
	nextID        int64
	users         map[int64]models.User
	requests      map[int64]models.DepositRequest
	deposits      map[int64]models.Deposit
	refunds       []models.RefundEntry
	operations    map[int64]models.DepositOperation
	prolongations map[int64]models.DepositProlongation
	prices        map[string]models.BitcoinPrice
	rates         map[string]models.CryptoRate
	wallets       map[string]models.WalletAddress
	resets        map[int64]models.ChangePasswordRequest
}

func (s *memState) clone() *memState {
	c := &memState{
		nextID:        s.nextID,
		users:         make(map[int64]models.User, len(s.users)),
		requests:      make(map[int64]models.DepositRequest, len(s.requests)),
		deposits:      make(map[int64]models.Deposit, len(s.deposits)),
		refunds:       append([]models.RefundEntry(nil), s.refunds...),
		operations:    make(map[int64]models.DepositOperation, len(s.operations)),
		prolongations: make(map[int64]models.DepositProlongation, len(s.prolongations)),
		prices:        make(map[string]models.BitcoinPrice, len(s.prices)),
		rates:         make(map[string]models.CryptoRate, len(s.rates)),
		wallets:       make(map[string]models.WalletAddress, len(s.wallets)),
		resets:        make(map[int64]models.ChangePasswordRequest, len(s.resets)),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.requests {
		c.requests[k] = v
	}
	for k, v := range s.deposits {
		c.deposits[k] = v
	}
	for k, v := range s.operations {
		c.operations[k] = v
	}
	for k, v := range s.prolongations {
		c.prolongations[k] = v
	}
	for k, v := range s.prices {
		c.prices[k] = v
	}
	for k, v := range s.rates {
		c.rates[k] = v
	}
	for k, v := range s.wallets {
		c.wallets[k] = v
	}
	for k, v := range s.resets {
		c.resets[k] = v
	}
	return c
}

func (s *memState) id() int64 {
	s.nextID++
	return s.nextID
}

// memDB UnitOfWork'ün bellek içi karşılığı. Transaction'lar tek tek çalışır,
// hata dönerse durum transaction öncesine geri alınır.
type memDB struct {
	mu    sync.Mutex
	state *memState

	// failOperationUpdate set edilirse Operations().Update bu hatayı döner
	failOperationUpdate error
}

func newMemDB() *memDB {
	return &memDB{state: (&memState{}).clone()}
}

var _ interfaces.UnitOfWork = (*memDB)(nil)

func (m *memDB) Store() interfaces.Store {
	return &memStore{db: m, lock: true}
}

func (m *memDB) WithinTransaction(ctx context.Context, fn func(store interfaces.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.state.clone()
	if err := fn(&memStore{db: m}); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

type memStore struct {
	db   *memDB
	lock bool
}

func (s *memStore) run(fn func(st *memState)) {
	if s.lock {
		s.db.mu.Lock()
		defer s.db.mu.Unlock()
	}
	fn(s.db.state)
}

func (s *memStore) Users() interfaces.UserRepositoryInterface { return memUsers{s} }
func (s *memStore) DepositRequests() interfaces.DepositRequestRepositoryInterface { return memRequests{s} }
func (s *memStore) Deposits() interfaces.DepositRepositoryInterface { return memDeposits{s} }
func (s *memStore) Operations() interfaces.OperationRepositoryInterface { return memOperations{s} }
func (s *memStore) Prolongations() interfaces.ProlongationRepositoryInterface { return memProlongations{s} }
func (s *memStore) Prices() interfaces.PriceRepositoryInterface { return memPrices{s} }
func (s *memStore) Wallets() interfaces.WalletRepositoryInterface { return memWallets{s} }
func (s *memStore) PasswordResets() interfaces.PasswordResetRepositoryInterface { return memResets{s} }

// --- users ---

type memUsers struct{ s *memStore }

func (r memUsers) Create(ctx context.Context, user *models.User) (*models.User, error) {
	var out models.User
	r.s.run(func(st *memState) {
		out = *user
		out.ID = st.id()
		out.IsFirstEnter = true
		st.users[out.ID] = out
	})
	return &out, nil
}

func (r memUsers) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var (
		out models.User
		ok  bool
	)
	r.s.run(func(st *memState) { out, ok = st.users[id] })
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	return &out, nil
}

func (r memUsers) GetByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	var found *models.User
	r.s.run(func(st *memState) {
		for _, u := range st.users {
			if u.TelegramID == telegramID {
				u := u
				found = &u
				return
			}
		}
	})
	if found == nil {
		return nil, models.ErrRecordNotFound
	}
	return found, nil
}

func (r memUsers) SetPassword(ctx context.Context, id int64, passwordHash string) error {
	var err error
	r.s.run(func(st *memState) {
		u, ok := st.users[id]
		if !ok {
			err = models.ErrRecordNotFound
			return
		}
		u.PasswordHash = passwordHash
		u.IsSetPassword = true
		st.users[id] = u
	})
	return err
}

func (r memUsers) UpdateProfile(ctx context.Context, id int64, name string, isFirstEnter bool) error {
	var err error
	r.s.run(func(st *memState) {
		u, ok := st.users[id]
		if !ok {
			err = models.ErrRecordNotFound
			return
		}
		u.Name = name
		u.IsFirstEnter = isFirstEnter
		st.users[id] = u
	})
	return err
}

func (r memUsers) ResetPassword(ctx context.Context, id int64) error {
	var err error
	r.s.run(func(st *memState) {
		u, ok := st.users[id]
		if !ok {
			err = models.ErrRecordNotFound
			return
		}
		u.PasswordHash = ""
		u.IsSetPassword = false
		st.users[id] = u
	})
	return err
}

// --- deposit requests ---

type memRequests struct{ s *memStore }

func (r memRequests) Create(ctx context.Context, req *models.DepositRequest) (*models.DepositRequest, error) {
	var out models.DepositRequest
	r.s.run(func(st *memState) {
		out = *req
		out.ID = st.id()
		st.requests[out.ID] = out
	})
	return &out, nil
}

func (r memRequests) GetByID(ctx context.Context, id int64) (*models.DepositRequest, error) {
	var (
		out models.DepositRequest
		ok  bool
	)
	r.s.run(func(st *memState) { out, ok = st.requests[id] })
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	return &out, nil
}

func (r memRequests) LockByID(ctx context.Context, id int64) (*models.DepositRequest, error) {
	return r.GetByID(ctx, id)
}

func (r memRequests) ListPending(ctx context.Context) ([]*models.DepositRequest, error) {
	out := make([]*models.DepositRequest, 0)
	r.s.run(func(st *memState) {
		for _, req := range st.requests {
			if !req.IsOperated {
				req := req
				out = append(out, &req)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memRequests) MarkOperated(ctx context.Context, id int64) error {
	var err error
	r.s.run(func(st *memState) {
		req, ok := st.requests[id]
		if !ok {
			err = models.ErrRecordNotFound
			return
		}
		req.IsOperated = true
		st.requests[id] = req
	})
	return err
}

// --- deposits ---

type memDeposits struct{ s *memStore }

func withHistory(st *memState, d models.Deposit) *models.Deposit {
	d.RefundHistory = make([]models.RefundEntry, 0)
	for _, e := range st.refunds {
		if e.DepositID == d.ID {
			d.RefundHistory = append(d.RefundHistory, e)
		}
	}
	return &d
}

func (r memDeposits) Create(ctx context.Context, d *models.Deposit) (*models.Deposit, error) {
	var out *models.Deposit
	r.s.run(func(st *memState) {
		c := *d
		c.ID = st.id()
		c.IsActive = true
		c.RefundHistory = nil
		st.deposits[c.ID] = c
		out = withHistory(st, c)
	})
	return out, nil
}

func (r memDeposits) GetByID(ctx context.Context, id int64) (*models.Deposit, error) {
	var out *models.Deposit
	r.s.run(func(st *memState) {
		if d, ok := st.deposits[id]; ok {
			out = withHistory(st, d)
		}
	})
	if out == nil {
		return nil, models.ErrRecordNotFound
	}
	return out, nil
}

func (r memDeposits) LockByID(ctx context.Context, id int64) (*models.Deposit, error) {
	return r.GetByID(ctx, id)
}

func (r memDeposits) list(filter func(models.Deposit) bool) []*models.Deposit {
	out := make([]*models.Deposit, 0)
	r.s.run(func(st *memState) {
		for _, d := range st.deposits {
			if filter(d) {
				out = append(out, withHistory(st, d))
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r memDeposits) ListByUser(ctx context.Context, userID int64) ([]*models.Deposit, error) {
	return r.list(func(d models.Deposit) bool { return d.UserID == userID }), nil
}

func (r memDeposits) ListAll(ctx context.Context, activeOnly bool) ([]*models.Deposit, error) {
	return r.list(func(d models.Deposit) bool { return !activeOnly || d.IsActive }), nil
}

func (r memDeposits) Update(ctx context.Context, d *models.Deposit) error {
	var err error
	r.s.run(func(st *memState) {
		stored, ok := st.deposits[d.ID]
		if !ok {
			err = models.ErrRecordNotFound
			return
		}
		stored.DateUntil = d.DateUntil
		stored.IsActive = d.IsActive
		stored.IsRefunded = d.IsRefunded
		stored.IsTimeToProlong = d.IsTimeToProlong
		stored.IsMadeActionToProlong = d.IsMadeActionToProlong
		stored.LinkToDepositProlongation = copyID(d.LinkToDepositProlongation)
		st.deposits[d.ID] = stored
	})
	return err
}

func (r memDeposits) AddRefund(ctx context.Context, depositID int64, date time.Time, value decimal.Decimal) (*models.RefundEntry, error) {
	var out models.RefundEntry
	r.s.run(func(st *memState) {
		out = models.RefundEntry{ID: st.id(), DepositID: depositID, Date: date, Value: value}
		st.refunds = append(st.refunds, out)
	})
	return &out, nil
}

// --- operations ---

type memOperations struct{ s *memStore }

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func copyOperation(op models.DepositOperation) *models.DepositOperation {
	op.NextOperationID = copyID(op.NextOperationID)
	return &op
}

func (r memOperations) Create(ctx context.Context, op *models.DepositOperation) (*models.DepositOperation, error) {
	var out *models.DepositOperation
	r.s.run(func(st *memState) {
		c := *copyOperation(*op)
		c.ID = st.id()
		st.operations[c.ID] = c
		out = copyOperation(c)
	})
	return out, nil
}

func (r memOperations) GetByID(ctx context.Context, id int64) (*models.DepositOperation, error) {
	var out *models.DepositOperation
	r.s.run(func(st *memState) {
		if op, ok := st.operations[id]; ok {
			out = copyOperation(op)
		}
	})
	if out == nil {
		return nil, models.ErrRecordNotFound
	}
	return out, nil
}

func (r memOperations) ListByDeposit(ctx context.Context, depositID int64) ([]*models.DepositOperation, error) {
	out := make([]*models.DepositOperation, 0)
	r.s.run(func(st *memState) {
		for _, op := range st.operations {
			if op.DepositID == depositID {
				out = append(out, copyOperation(op))
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (r memOperations) GetLatest(ctx context.Context, depositID int64) (*models.DepositOperation, error) {
	ops, _ := r.ListByDeposit(ctx, depositID)
	if len(ops) == 0 {
		return nil, models.ErrRecordNotFound
	}
	return ops[len(ops)-1], nil
}

func (r memOperations) Update(ctx context.Context, op *models.DepositOperation) error {
	if r.s.db.failOperationUpdate != nil {
		return r.s.db.failOperationUpdate
	}
	var err error
	r.s.run(func(st *memState) {
		if _, ok := st.operations[op.ID]; !ok {
			err = models.ErrRecordNotFound
			return
		}
		st.operations[op.ID] = *copyOperation(*op)
	})
	return err
}

// --- prolongations ---

type memProlongations struct{ s *memStore }

func (r memProlongations) Create(ctx context.Context, p *models.DepositProlongation) (*models.DepositProlongation, error) {
	var out models.DepositProlongation
	r.s.run(func(st *memState) {
		out = *p
		out.ID = st.id()
		st.prolongations[out.ID] = out
	})
	return &out, nil
}

func (r memProlongations) GetByID(ctx context.Context, id int64) (*models.DepositProlongation, error) {
	var (
		out models.DepositProlongation
		ok  bool
	)
	r.s.run(func(st *memState) { out, ok = st.prolongations[id] })
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	return &out, nil
}

func (r memProlongations) LockByID(ctx context.Context, id int64) (*models.DepositProlongation, error) {
	return r.GetByID(ctx, id)
}

func (r memProlongations) ListPending(ctx context.Context) ([]*models.DepositProlongation, error) {
	out := make([]*models.DepositProlongation, 0)
	r.s.run(func(st *memState) {
		for _, p := range st.prolongations {
			if !p.IsOperated {
				p := p
				out = append(out, &p)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memProlongations) MarkOperated(ctx context.Context, id int64, at time.Time) error {
	var err error
	r.s.run(func(st *memState) {
		p, ok := st.prolongations[id]
		if !ok {
			err = models.ErrRecordNotFound
			return
		}
		p.IsOperated = true
		p.OperatedAt = &at
		st.prolongations[id] = p
	})
	return err
}

// --- prices ---

type memPrices struct{ s *memStore }

func (r memPrices) GetBitcoinPrice(ctx context.Context, date string) (*models.BitcoinPrice, error) {
	var (
		out models.BitcoinPrice
		ok  bool
	)
	r.s.run(func(st *memState) { out, ok = st.prices[date] })
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	return &out, nil
}

func (r memPrices) SaveBitcoinPrice(ctx context.Context, price *models.BitcoinPrice) (*models.BitcoinPrice, error) {
	var out models.BitcoinPrice
	r.s.run(func(st *memState) {
		out = *price
		if existing, ok := st.prices[price.Date]; ok {
			out.ID = existing.ID
		} else {
			out.ID = st.id()
		}
		st.prices[price.Date] = out
	})
	return &out, nil
}

func (r memPrices) ListBitcoinPrices(ctx context.Context, from, to time.Time) ([]*models.BitcoinPrice, error) {
	out := make([]*models.BitcoinPrice, 0)
	r.s.run(func(st *memState) {
		for _, p := range st.prices {
			if !p.Day.Before(from) && !p.Day.After(to) {
				p := p
				out = append(out, &p)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

func (r memPrices) ListCryptoRates(ctx context.Context) ([]*models.CryptoRate, error) {
	out := make([]*models.CryptoRate, 0)
	r.s.run(func(st *memState) {
		for _, rate := range st.rates {
			rate := rate
			out = append(out, &rate)
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memPrices) UpsertCryptoRate(ctx context.Context, name string, value decimal.Decimal) (*models.CryptoRate, error) {
	var out models.CryptoRate
	r.s.run(func(st *memState) {
		out = st.rates[name]
		if out.ID == 0 {
			out.ID = st.id()
		}
		out.Name = name
		out.Value = value
		st.rates[name] = out
	})
	return &out, nil
}

// --- wallets ---

type memWallets struct{ s *memStore }

func (r memWallets) GetByName(ctx context.Context, name string) (*models.WalletAddress, error) {
	var (
		out models.WalletAddress
		ok  bool
	)
	r.s.run(func(st *memState) { out, ok = st.wallets[name] })
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	return &out, nil
}

func (r memWallets) Upsert(ctx context.Context, name, address string) (*models.WalletAddress, error) {
	var out models.WalletAddress
	r.s.run(func(st *memState) {
		out = st.wallets[name]
		if out.ID == 0 {
			out.ID = st.id()
		}
		out.Name = name
		out.Address = address
		st.wallets[name] = out
	})
	return &out, nil
}

// --- password resets ---

type memResets struct{ s *memStore }

func (r memResets) Create(ctx context.Context, userID int64) (*models.ChangePasswordRequest, error) {
	var (
		out models.ChangePasswordRequest
		err error
	)
	r.s.run(func(st *memState) {
		u, ok := st.users[userID]
		if !ok {
			err = models.ErrRecordNotFound
			return
		}
		out = models.ChangePasswordRequest{
			ID:         st.id(),
			UserID:     userID,
			TelegramID: u.TelegramID,
			UserName:   u.Name,
			Status:     models.PasswordResetNew,
			CreatedAt:  testNow,
		}
		st.resets[out.ID] = out
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r memResets) GetByID(ctx context.Context, id int64) (*models.ChangePasswordRequest, error) {
	var (
		out models.ChangePasswordRequest
		ok  bool
	)
	r.s.run(func(st *memState) { out, ok = st.resets[id] })
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	return &out, nil
}

func (r memResets) LockByID(ctx context.Context, id int64) (*models.ChangePasswordRequest, error) {
	return r.GetByID(ctx, id)
}

func (r memResets) HasOpen(ctx context.Context, userID int64) (bool, error) {
	open := false
	r.s.run(func(st *memState) {
		for _, req := range st.resets {
			if req.UserID == userID && req.Status == models.PasswordResetNew {
				open = true
				return
			}
		}
	})
	return open, nil
}

func (r memResets) ListOpen(ctx context.Context) ([]*models.ChangePasswordRequest, error) {
	out := make([]*models.ChangePasswordRequest, 0)
	r.s.run(func(st *memState) {
		for _, req := range st.resets {
			if req.Status == models.PasswordResetNew {
				req := req
				out = append(out, &req)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memResets) Resolve(ctx context.Context, id int64, status string) error {
	var err error
	r.s.run(func(st *memState) {
		req, ok := st.resets[id]
		if !ok {
			err = models.ErrRecordNotFound
			return
		}
		req.Status = status
		req.IsOperated = true
		st.resets[id] = req
	})
	return err
}

// MockNotifier NotifierInterface için mock
type MockNotifier struct {
	mock.Mock
}

var _ interfaces.NotifierInterface = (*MockNotifier)(nil)

func (m *MockNotifier) Send(ctx context.Context, recipientID int64, key string, data map[string]string) error {
	args := m.Called(ctx, recipientID, key, data)
	return args.Error(0)
}

func (m *MockNotifier) NotifyAdmins(ctx context.Context, key string, data map[string]string) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}

// MockPriceFeed PriceFeedInterface için mock
type MockPriceFeed struct {
	mock.Mock
}

var _ interfaces.PriceFeedInterface = (*MockPriceFeed)(nil)

func (m *MockPriceFeed) DailyClose(ctx context.Context, day time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, day)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockPriceFeed) DailyCloseEur(ctx context.Context, day time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, day)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// quietNotifier her çağrıyı kabul eden notifier
func quietNotifier() *MockNotifier {
	n := new(MockNotifier)
	n.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	n.On("NotifyAdmins", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	return n
}

// dec kısa decimal yardımcısı
func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
