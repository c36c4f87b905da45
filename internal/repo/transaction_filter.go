package repo

import "time"

// TransactionFilter narrows a ledger query. A nil ProductID selects every product.
type TransactionFilter struct {
	ProductID *int
	Since     *time.Time
	Until     *time.Time
	Offset    *int
	Limit     *int
}
