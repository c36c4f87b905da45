package repo

import (
	"sync"

	"github.com/rogerio-castellano/stock-ledger/internal/models"
)

// InMemoryStore is an in-memory implementation of both ProductRepository and
// TransactionRepository over one shared dataset.
//
// mu guards the maps and the ledger slice and is only held long enough to
// read or publish state. Each product additionally owns a mutex that
// serializes its read-validate-write sequence, so writers on different
// products never wait on each other while validating.
type InMemoryStore struct {
	mu            sync.RWMutex
	products      map[int]models.Product
	skus          map[string]int
	locks         map[int]*sync.Mutex
	transactions  []models.StockTransaction
	nextProductID int
	nextTxID      int

	commitHook func() error
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		products:      map[int]models.Product{},
		skus:          map[string]int{},
		locks:         map[int]*sync.Mutex{},
		transactions:  []models.StockTransaction{},
		nextProductID: 1,
		nextTxID:      1,
	}
}

// SetCommitHook installs a function that runs after a stock transaction has
// been validated and before it is published. A non-nil error aborts the
// write. Used to inject storage failures.
func (s *InMemoryStore) SetCommitHook(hook func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitHook = hook
}

// appendTransaction must be called with mu held for writing.
func (s *InMemoryStore) appendTransaction(tx models.StockTransaction) models.StockTransaction {
	tx.ID = s.nextTxID
	s.nextTxID++
	s.transactions = append(s.transactions, tx)
	return tx
}
