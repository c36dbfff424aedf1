package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vheb/stocksim/internal/domain"
	"github.com/vheb/stocksim/internal/usecase"
)

// MockAccountRepository is an in-memory implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, account *domain.Account) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Account, error)
	GetByUserIDFunc      func(ctx context.Context, userID string) (*domain.Account, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error)
	UpdateBalancesFunc   func(ctx context.Context, tx usecase.Transaction, id string, balance, investedAmount decimal.Decimal, updatedAt time.Time) error
	DeleteFunc           func(ctx context.Context, tx usecase.Transaction, id string) error
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[string]*domain.Account)}
}

// Seed stores an account directly, bypassing any hooks.
func (m *MockAccountRepository) Seed(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
}

func (m *MockAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		copied := *acc
		return &copied, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	if m.GetByUserIDFunc != nil {
		return m.GetByUserIDFunc(ctx, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.UserID == userID {
			copied := *acc
			return &copied, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Account, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockAccountRepository) UpdateBalances(ctx context.Context, tx usecase.Transaction, id string, balance, investedAmount decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalancesFunc != nil {
		return m.UpdateBalancesFunc(ctx, tx, id, balance, investedAmount, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.Balance = balance
		acc.InvestedAmount = investedAmount
		acc.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, id)
	return nil
}

// MockPositionRepository is an in-memory implementation of PositionRepository.
type MockPositionRepository struct {
	mu        sync.RWMutex
	positions map[string]map[string]*domain.Position // accountID -> symbol

	GetBySymbolFunc    func(ctx context.Context, tx usecase.Transaction, accountID, symbol string) (*domain.Position, error)
	ListByAccountFunc  func(ctx context.Context, accountID string) ([]*domain.Position, error)
	CountByAccountFunc func(ctx context.Context, accountID string) (int, error)
	UpsertFunc         func(ctx context.Context, tx usecase.Transaction, position *domain.Position) error
	DeleteFunc         func(ctx context.Context, tx usecase.Transaction, accountID, symbol string) error
}

func NewMockPositionRepository() *MockPositionRepository {
	return &MockPositionRepository{positions: make(map[string]map[string]*domain.Position)}
}

// Seed stores a position directly, bypassing any hooks.
func (m *MockPositionRepository) Seed(position *domain.Position) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.positions[position.AccountID] == nil {
		m.positions[position.AccountID] = make(map[string]*domain.Position)
	}
	m.positions[position.AccountID][position.Symbol] = position
}

func (m *MockPositionRepository) GetBySymbol(ctx context.Context, tx usecase.Transaction, accountID, symbol string) (*domain.Position, error) {
	if m.GetBySymbolFunc != nil {
		return m.GetBySymbolFunc(ctx, tx, accountID, symbol)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if pos, ok := m.positions[accountID][symbol]; ok {
		copied := *pos
		return &copied, nil
	}
	return nil, domain.ErrPositionNotFound
}

func (m *MockPositionRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Position, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Position
	for _, pos := range m.positions[accountID] {
		copied := *pos
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out, nil
}

func (m *MockPositionRepository) CountByAccount(ctx context.Context, accountID string) (int, error) {
	if m.CountByAccountFunc != nil {
		return m.CountByAccountFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.positions[accountID]), nil
}

func (m *MockPositionRepository) Upsert(ctx context.Context, tx usecase.Transaction, position *domain.Position) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, position)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.positions[position.AccountID] == nil {
		m.positions[position.AccountID] = make(map[string]*domain.Position)
	}
	copied := *position
	m.positions[position.AccountID][position.Symbol] = &copied
	return nil
}

func (m *MockPositionRepository) Delete(ctx context.Context, tx usecase.Transaction, accountID, symbol string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, accountID, symbol)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.positions[accountID], symbol)
	return nil
}

// MockTransactionRepository is an in-memory implementation of
// TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions []*domain.Transaction
	nextID       int64

	AppendFunc        func(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) (int64, error)
	ListByAccountFunc func(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

func (m *MockTransactionRepository) Append(ctx context.Context, tx usecase.Transaction, t *domain.Transaction) (int64, error) {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, tx, t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	copied := *t
	copied.ID = m.nextID
	m.transactions = append(m.transactions, &copied)
	return m.nextID, nil
}

func (m *MockTransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for i := len(m.transactions) - 1; i >= 0; i-- {
		if m.transactions[i].AccountID == accountID {
			out = append(out, m.transactions[i])
		}
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

// All returns every appended transaction.
func (m *MockTransactionRepository) All() []*domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Transaction(nil), m.transactions...)
}

// MockPriceCacheRepository is an in-memory implementation of
// PriceCacheRepository.
type MockPriceCacheRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.PriceEntry

	GetFunc         func(ctx context.Context, symbol string) (*domain.PriceEntry, error)
	GetManyFunc     func(ctx context.Context, symbols []string) (map[string]*domain.PriceEntry, error)
	UpsertFunc      func(ctx context.Context, entry *domain.PriceEntry) error
	ListSymbolsFunc func(ctx context.Context) ([]string, error)
}

func NewMockPriceCacheRepository() *MockPriceCacheRepository {
	return &MockPriceCacheRepository{entries: make(map[string]*domain.PriceEntry)}
}

// Seed stores an entry directly, bypassing any hooks.
func (m *MockPriceCacheRepository) Seed(entry *domain.PriceEntry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.Symbol] = entry
}

func (m *MockPriceCacheRepository) Get(ctx context.Context, symbol string) (*domain.PriceEntry, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, symbol)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[symbol]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, domain.ErrQuoteUnavailable
}

func (m *MockPriceCacheRepository) GetMany(ctx context.Context, symbols []string) (map[string]*domain.PriceEntry, error) {
	if m.GetManyFunc != nil {
		return m.GetManyFunc(ctx, symbols)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]*domain.PriceEntry)
	for _, s := range symbols {
		if e, ok := m.entries[s]; ok {
			copied := *e
			out[s] = &copied
		}
	}
	return out, nil
}

func (m *MockPriceCacheRepository) Upsert(ctx context.Context, entry *domain.PriceEntry) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *entry
	m.entries[entry.Symbol] = &copied
	return nil
}

func (m *MockPriceCacheRepository) ListSymbols(ctx context.Context) ([]string, error) {
	if m.ListSymbolsFunc != nil {
		return m.ListSymbolsFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	symbols := make([]string, 0, len(m.entries))
	for s := range m.entries {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols, nil
}

// MockQuoteProvider is a scriptable QuoteProvider.
type MockQuoteProvider struct {
	mu    sync.Mutex
	calls map[string]int

	FetchDailyQuoteFunc func(ctx context.Context, symbol string) (*domain.Quote, error)
}

func NewMockQuoteProvider() *MockQuoteProvider {
	return &MockQuoteProvider{calls: make(map[string]int)}
}

func (m *MockQuoteProvider) FetchDailyQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	m.mu.Lock()
	m.calls[symbol]++
	m.mu.Unlock()
	if m.FetchDailyQuoteFunc != nil {
		return m.FetchDailyQuoteFunc(ctx, symbol)
	}
	return &domain.Quote{Latest: decimal.NewFromInt(100), Previous: decimal.NewFromInt(99)}, nil
}

// Calls returns how many times symbol was fetched.
func (m *MockQuoteProvider) Calls(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[symbol]
}

// MockUserRepository is an in-memory implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, user *domain.User) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.User, error)
	GetByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
	UpdateFunc        func(ctx context.Context, user *domain.User) error
	DeleteFunc        func(ctx context.Context, tx usecase.Transaction, id string) error
	ListFunc          func(ctx context.Context, limit, offset int) ([]*domain.User, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

// Seed stores a user directly, bypassing any hooks.
func (m *MockUserRepository) Seed(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) Create(ctx context.Context, tx usecase.Transaction, user *domain.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if u, ok := m.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, user)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return domain.ErrUserNotFound
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *MockUserRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, id)
	return nil
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var users []*domain.User
	for _, u := range m.users {
		copied := *u
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockRetrier runs the operation once without retrying.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockIDGenerator generates sequential IDs.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "mock-id-" + string(rune('0'+m.counter%10)) + string(rune('a'+m.counter/10))
}
