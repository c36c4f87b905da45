package repo_test

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"sync"
	"testing"

	"github.com/rogerio-castellano/stock-ledger/internal/db"
	"github.com/rogerio-castellano/stock-ledger/internal/models"
	"github.com/rogerio-castellano/stock-ledger/internal/repo"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set, skipping Postgres integration test")
	}

	conn, err := db.Connect(url)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	if _, err := conn.Exec(`TRUNCATE stock_transactions, products RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("failed to truncate: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestPostgres_CreateWritesOpeningTransaction(t *testing.T) {
	conn := openTestDB(t)
	products := repo.NewPostgresProductRepository(conn)
	transactions := repo.NewPostgresTransactionRepository(conn)
	ctx := context.Background()

	p, err := products.Create(ctx, models.Product{Name: "Widget", Sku: "W-1", StockQuantity: 8, Threshold: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := products.Create(ctx, models.Product{Name: "Dup", Sku: "W-1"}); !errors.Is(err, repo.ErrDuplicateSku) {
		t.Fatalf("expected ErrDuplicateSku, got %v", err)
	}

	got, history, err := transactions.History(ctx, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.StockQuantity != 8 || len(history) != 1 || history[0].Type != models.StockIn || history[0].Quantity != 8 {
		t.Errorf("expected one opening stock_in of 8, got %+v / %+v", got, history)
	}
}

func TestPostgres_ApplyRejections(t *testing.T) {
	conn := openTestDB(t)
	products := repo.NewPostgresProductRepository(conn)
	transactions := repo.NewPostgresTransactionRepository(conn)
	ctx := context.Background()

	p, _ := products.Create(ctx, models.Product{Name: "Widget", Sku: "W-1", StockQuantity: 3})

	if _, _, err := transactions.Apply(ctx, p.ID, models.StockOut, 5); !errors.Is(err, repo.ErrInsufficientStock) {
		t.Errorf("expected ErrInsufficientStock, got %v", err)
	}
	if _, _, err := transactions.Apply(ctx, 9999, models.StockIn, 1); !errors.Is(err, repo.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}
	if _, _, err := transactions.Apply(ctx, p.ID, models.StockIn, repo.MaxQuantity); !errors.Is(err, repo.ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity on overflow, got %v", err)
	}

	_, product, err := transactions.Apply(ctx, p.ID, models.StockOut, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.StockQuantity != 0 {
		t.Errorf("expected 0, got %d", product.StockQuantity)
	}
}

func TestPostgres_ConcurrentApplyKeepsInvariant(t *testing.T) {
	conn := openTestDB(t)
	products := repo.NewPostgresProductRepository(conn)
	transactions := repo.NewPostgresTransactionRepository(conn)
	ctx := context.Background()

	p, _ := products.Create(ctx, models.Product{Name: "Widget", Sku: "W-1", StockQuantity: 10})

	var wg sync.WaitGroup
	for i := range 40 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			txType := models.StockOut
			if i%4 == 0 {
				txType = models.StockIn
			}
			if _, _, err := transactions.Apply(ctx, p.ID, txType, 2); err != nil && !errors.Is(err, repo.ErrInsufficientStock) {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	got, history, err := transactions.History(ctx, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sum := 0
	for _, tx := range history {
		sum += tx.Type.Delta(tx.Quantity)
		if sum < 0 {
			t.Fatalf("ledger prefix went negative at transaction %d", tx.ID)
		}
	}
	if sum != got.StockQuantity {
		t.Errorf("ledger sums to %d, aggregate is %d", sum, got.StockQuantity)
	}
}

func TestPostgres_FailureBeforeCommitRollsBack(t *testing.T) {
	conn := openTestDB(t)
	products := repo.NewPostgresProductRepository(conn)
	transactions := repo.NewPostgresTransactionRepository(conn)
	ctx := context.Background()

	p, _ := products.Create(ctx, models.Product{Name: "Widget", Sku: "W-1", StockQuantity: 4})
	transactions.SetCommitHook(func(*sql.Tx) error { return errors.New("connection reset") })

	if _, _, err := transactions.Apply(ctx, p.ID, models.StockIn, 6); err == nil {
		t.Fatal("expected failure")
	}

	got, history, err := transactions.History(ctx, p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.StockQuantity != 4 || len(history) != 1 {
		t.Errorf("expected untouched product and ledger, got %d / %d rows", got.StockQuantity, len(history))
	}
}

func TestPostgres_ListAndDashboard(t *testing.T) {
	conn := openTestDB(t)
	products := repo.NewPostgresProductRepository(conn)
	transactions := repo.NewPostgresTransactionRepository(conn)
	ctx := context.Background()

	a, _ := products.Create(ctx, models.Product{Name: "Alpha", Sku: "A-1", StockQuantity: 5, Threshold: 5})
	_, _ = products.Create(ctx, models.Product{Name: "Beta", Sku: "B-1", StockQuantity: 9, Threshold: 1})
	_, _, _ = transactions.Apply(ctx, a.ID, models.StockIn, 1)

	limit := 1
	items, total, err := transactions.List(ctx, repo.TransactionFilter{ProductID: &a.ID, Limit: &limit})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(items) != 1 || items[0].Quantity != 5 {
		t.Errorf("expected first of 2 rows to be the opening transaction, got %+v (total %d)", items, total)
	}

	low, err := products.LowStock(ctx, 6)
	if err != nil || len(low) != 1 || low[0].ID != a.ID {
		t.Errorf("LowStock: %+v, %v", low, err)
	}

	m, err := repo.NewPostgresMetricsRepository(conn).GetDashboardMetrics(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.TotalProducts != 2 || m.TotalTransactions != 3 || m.LowStockCount != 0 || m.MostMovedProduct.Name != "Alpha" {
		t.Errorf("unexpected metrics %+v", m)
	}
}
