package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/usecase"
)

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mu         sync.RWMutex
	categories map[string]*domain.Category

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, category *domain.Category) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Category, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Category, error)
	ListByFrameFunc      func(ctx context.Context, groupID string, frame domain.FrameIndex) ([]*domain.Category, error)
	UpdateFunc           func(ctx context.Context, tx usecase.Transaction, category *domain.Category) error
}

func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		categories: make(map[string]*domain.Category),
	}
}

func (m *MockCategoryRepository) Create(ctx context.Context, tx usecase.Transaction, category *domain.Category) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *category
	m.categories[category.ID] = &c
	return nil
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.categories[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, domain.ErrCategoryNotFound
}

func (m *MockCategoryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Category, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockCategoryRepository) ListByFrame(ctx context.Context, groupID string, frame domain.FrameIndex) ([]*domain.Category, error) {
	if m.ListByFrameFunc != nil {
		return m.ListByFrameFunc(ctx, groupID, frame)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Category
	for _, c := range m.categories {
		if c.GroupID == groupID && c.Frame == frame {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *MockCategoryRepository) Update(ctx context.Context, tx usecase.Transaction, category *domain.Category) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, category)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[category.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	c := *category
	m.categories[category.ID] = &c
	return nil
}

// MockFrameRepository is a mock implementation of FrameRepository.
type MockFrameRepository struct {
	mu     sync.RWMutex
	frames map[string]*domain.Frame

	GetFunc             func(ctx context.Context, groupID string, index domain.FrameIndex) (*domain.Frame, error)
	GetForUpdateFunc    func(ctx context.Context, tx usecase.Transaction, groupID string, index domain.FrameIndex) (*domain.Frame, error)
	GetLatestBeforeFunc func(ctx context.Context, tx usecase.Transaction, groupID string, index domain.FrameIndex) (*domain.Frame, error)
	CreateFunc          func(ctx context.Context, tx usecase.Transaction, frame *domain.Frame) error
	UpdateFunc          func(ctx context.Context, tx usecase.Transaction, frame *domain.Frame) error
}

func NewMockFrameRepository() *MockFrameRepository {
	return &MockFrameRepository{
		frames: make(map[string]*domain.Frame),
	}
}

func frameKey(groupID string, index domain.FrameIndex) string {
	return fmt.Sprintf("%s:%d", groupID, index)
}

func (m *MockFrameRepository) Get(ctx context.Context, groupID string, index domain.FrameIndex) (*domain.Frame, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, groupID, index)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if f, ok := m.frames[frameKey(groupID, index)]; ok {
		copied := *f
		return &copied, nil
	}
	return nil, domain.ErrFrameNotFound
}

func (m *MockFrameRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, groupID string, index domain.FrameIndex) (*domain.Frame, error) {
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, tx, groupID, index)
	}
	return m.Get(ctx, groupID, index)
}

func (m *MockFrameRepository) GetLatestBefore(ctx context.Context, tx usecase.Transaction, groupID string, index domain.FrameIndex) (*domain.Frame, error) {
	if m.GetLatestBeforeFunc != nil {
		return m.GetLatestBeforeFunc(ctx, tx, groupID, index)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var best *domain.Frame
	for _, f := range m.frames {
		if f.GroupID != groupID || f.Index >= index {
			continue
		}
		if best == nil || f.Index > best.Index {
			best = f
		}
	}
	if best == nil {
		return nil, domain.ErrFrameNotFound
	}
	copied := *best
	return &copied, nil
}

func (m *MockFrameRepository) Create(ctx context.Context, tx usecase.Transaction, frame *domain.Frame) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, frame)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := frameKey(frame.GroupID, frame.Index)
	if _, ok := m.frames[key]; ok {
		return domain.ErrFrameExists
	}
	f := *frame
	m.frames[key] = &f
	return nil
}

func (m *MockFrameRepository) Update(ctx context.Context, tx usecase.Transaction, frame *domain.Frame) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, frame)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := frameKey(frame.GroupID, frame.Index)
	if _, ok := m.frames[key]; !ok {
		return domain.ErrFrameNotFound
	}
	f := *frame
	m.frames[key] = &f
	return nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.Transaction
	order        []string

	CreateFunc             func(ctx context.Context, tx usecase.Transaction, transaction *domain.Transaction) error
	GetByIDFunc            func(ctx context.Context, id string) (*domain.Transaction, error)
	GetByIDForUpdateFunc   func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error)
	GetMirrorFunc          func(ctx context.Context, tx usecase.Transaction, splitID, excludeID string) (*domain.Transaction, error)
	ListByFrameFunc        func(ctx context.Context, groupID string, frame domain.FrameIndex, limit, offset int) ([]*domain.Transaction, error)
	CountUncategorizedFunc func(ctx context.Context, groupID string, frame domain.FrameIndex) (int, error)
	UpdateFunc             func(ctx context.Context, tx usecase.Transaction, transaction *domain.Transaction) error
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		transactions: make(map[string]*domain.Transaction),
	}
}

func cloneTransaction(t *domain.Transaction) *domain.Transaction {
	copied := *t
	if t.Split != nil {
		split := *t.Split
		copied.Split = &split
	}
	if t.CategoryID != nil {
		id := *t.CategoryID
		copied.CategoryID = &id
	}
	return &copied
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, transaction *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, transaction)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions[transaction.ID] = cloneTransaction(transaction)
	m.order = append(m.order, transaction.ID)
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.transactions[id]; ok {
		return cloneTransaction(t), nil
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Transaction, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockTransactionRepository) GetMirror(ctx context.Context, tx usecase.Transaction, splitID, excludeID string) (*domain.Transaction, error) {
	if m.GetMirrorFunc != nil {
		return m.GetMirrorFunc(ctx, tx, splitID, excludeID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.transactions {
		if t.Split != nil && t.Split.ID == splitID && t.ID != excludeID {
			return cloneTransaction(t), nil
		}
	}
	return nil, nil
}

func (m *MockTransactionRepository) ListByFrame(ctx context.Context, groupID string, frame domain.FrameIndex, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListByFrameFunc != nil {
		return m.ListByFrameFunc(ctx, groupID, frame, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matched []*domain.Transaction
	for _, id := range m.order {
		t := m.transactions[id]
		if t.GroupID == groupID && t.Frame == frame && t.Alive {
			matched = append(matched, cloneTransaction(t))
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (m *MockTransactionRepository) CountUncategorized(ctx context.Context, groupID string, frame domain.FrameIndex) (int, error) {
	if m.CountUncategorizedFunc != nil {
		return m.CountUncategorizedFunc(ctx, groupID, frame)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	count := 0
	for _, t := range m.transactions {
		if t.GroupID == groupID && t.Frame == frame && t.Alive && t.CategoryID == nil {
			count++
		}
	}
	return count, nil
}

func (m *MockTransactionRepository) Update(ctx context.Context, tx usecase.Transaction, transaction *domain.Transaction) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tx, transaction)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.transactions[transaction.ID]; !ok {
		return domain.ErrTransactionNotFound
	}
	m.transactions[transaction.ID] = cloneTransaction(transaction)
	return nil
}

// MockDebtRepository is a mock implementation of DebtRepository.
type MockDebtRepository struct {
	mu    sync.RWMutex
	debts map[string]*domain.Debt

	GetFunc          func(ctx context.Context, u1, u2 string) (*domain.Debt, error)
	GetForUpdateFunc func(ctx context.Context, tx usecase.Transaction, u1, u2 string) (*domain.Debt, error)
	UpsertFunc       func(ctx context.Context, tx usecase.Transaction, debt *domain.Debt) error
	ListByUserFunc   func(ctx context.Context, uid string) ([]*domain.Debt, error)
}

func NewMockDebtRepository() *MockDebtRepository {
	return &MockDebtRepository{
		debts: make(map[string]*domain.Debt),
	}
}

func debtKey(u1, u2 string) string {
	return u1 + "|" + u2
}

func (m *MockDebtRepository) Get(ctx context.Context, u1, u2 string) (*domain.Debt, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, u1, u2)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.debts[debtKey(u1, u2)]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, domain.ErrDebtNotFound
}

func (m *MockDebtRepository) GetForUpdate(ctx context.Context, tx usecase.Transaction, u1, u2 string) (*domain.Debt, error) {
	if m.GetForUpdateFunc != nil {
		return m.GetForUpdateFunc(ctx, tx, u1, u2)
	}
	return m.Get(ctx, u1, u2)
}

func (m *MockDebtRepository) Upsert(ctx context.Context, tx usecase.Transaction, debt *domain.Debt) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, debt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *debt
	m.debts[debtKey(debt.U1, debt.U2)] = &copied
	return nil
}

func (m *MockDebtRepository) ListByUser(ctx context.Context, uid string) ([]*domain.Debt, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, uid)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Debt
	for _, d := range m.debts {
		if d.U1 == uid || d.U2 == uid {
			copied := *d
			out = append(out, &copied)
		}
	}
	return out, nil
}

// MockHistoryRepository is a mock implementation of HistoryRepository.
type MockHistoryRepository struct {
	mu        sync.RWMutex
	snapshots map[string]*domain.HistorySnapshot

	GetFunc    func(ctx context.Context, tx usecase.Transaction, groupID, categoryID string, frame domain.FrameIndex) (*domain.HistorySnapshot, error)
	UpsertFunc func(ctx context.Context, tx usecase.Transaction, snapshot *domain.HistorySnapshot) error
	WindowFunc func(ctx context.Context, groupID, categoryID string, from, to domain.FrameIndex) (domain.CategoryHistory, error)
}

func NewMockHistoryRepository() *MockHistoryRepository {
	return &MockHistoryRepository{
		snapshots: make(map[string]*domain.HistorySnapshot),
	}
}

func snapshotKey(groupID, categoryID string, frame domain.FrameIndex) string {
	return fmt.Sprintf("%s:%s:%d", groupID, categoryID, frame)
}

func (m *MockHistoryRepository) Get(ctx context.Context, tx usecase.Transaction, groupID, categoryID string, frame domain.FrameIndex) (*domain.HistorySnapshot, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, tx, groupID, categoryID, frame)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.snapshots[snapshotKey(groupID, categoryID, frame)]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

func (m *MockHistoryRepository) Upsert(ctx context.Context, tx usecase.Transaction, snapshot *domain.HistorySnapshot) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tx, snapshot)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *snapshot
	m.snapshots[snapshotKey(snapshot.GroupID, snapshot.CategoryID, snapshot.Frame)] = &copied
	return nil
}

func (m *MockHistoryRepository) Window(ctx context.Context, groupID, categoryID string, from, to domain.FrameIndex) (domain.CategoryHistory, error) {
	if m.WindowFunc != nil {
		return m.WindowFunc(ctx, groupID, categoryID, from, to)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out domain.CategoryHistory
	for idx := from; idx <= to; idx++ {
		if s, ok := m.snapshots[snapshotKey(groupID, categoryID, idx)]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
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

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
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
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]byte),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key], nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
