package invoices

import "time"

// Invoice is one sale receipt. Reference is the caller-supplied idempotency
// key; CustomerName is snapshotted at ingest time so later customer edits do
// not rewrite history.
type Invoice struct {
	ID           int64         `json:"id"`
	Reference    string        `json:"reference"`
	CustomerID   int64         `json:"customerId"`
	CustomerName string        `json:"customerName"`
	Date         time.Time     `json:"date"`
	Lines        []InvoiceLine `json:"lines"`
}

// InvoiceLine is one sold position on an invoice. ProductID may be zero when
// the catalog entry was removed after the sale; CategoryID is denormalized at
// ingest so category feeds survive such removals. The price pointers keep the
// negotiated/legacy distinction-of-absence the rollup's fallback chain needs.
type InvoiceLine struct {
	ID         int64    `json:"id"`
	ProductID  int64    `json:"productId,omitempty"`
	CategoryID int64    `json:"categoryId"`
	Quantity   float64  `json:"quantity"`
	UnitName   string   `json:"unit,omitempty"`
	UnitPrice  *float64 `json:"unitPrice,omitempty"`
	Price      *float64 `json:"price,omitempty"`
}
