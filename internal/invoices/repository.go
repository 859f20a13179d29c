package invoices

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edusupply/console-api/internal/platform/db"
	"github.com/edusupply/console-api/internal/salesreport"
)

var (
	ErrNotFound      = errors.New("invoice not found")
	ErrAlreadyExists = errors.New("invoice reference already exists")
)

const uniqueViolation = "23505"

// Repository provides PostgreSQL backed persistence for invoices and serves
// as the sales report's line item source.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts the invoice and its lines in one transaction.
func (r *Repository) Create(ctx context.Context, invoice Invoice) (int64, error) {
	var id int64
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO invoices (reference, customer_id, customer_name, invoice_date, created_at)
			 VALUES ($1, $2, $3, $4, now())
			 RETURNING id`,
			invoice.Reference, invoice.CustomerID, invoice.CustomerName, invoice.Date,
		).Scan(&id)
		if err != nil {
			return err
		}
		for _, line := range invoice.Lines {
			var productID interface{}
			if line.ProductID > 0 {
				productID = line.ProductID
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO invoice_items (invoice_id, product_id, category_id, quantity, unit_name, unit_price, price)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				id, productID, line.CategoryID, line.Quantity, line.UnitName, line.UnitPrice, line.Price,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrAlreadyExists
		}
		return 0, err
	}
	return id, nil
}

// GetByReference loads an invoice header by its idempotency reference.
func (r *Repository) GetByReference(ctx context.Context, reference string) (Invoice, error) {
	var invoice Invoice
	err := r.pool.QueryRow(ctx,
		`SELECT id, reference, customer_id, customer_name, invoice_date
		 FROM invoices WHERE reference = $1`,
		reference,
	).Scan(&invoice.ID, &invoice.Reference, &invoice.CustomerID, &invoice.CustomerName, &invoice.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Invoice{}, ErrNotFound
		}
		return Invoice{}, err
	}
	return invoice, nil
}

// Get loads an invoice with its lines.
func (r *Repository) Get(ctx context.Context, id int64) (Invoice, error) {
	var invoice Invoice
	err := r.pool.QueryRow(ctx,
		`SELECT id, reference, customer_id, customer_name, invoice_date
		 FROM invoices WHERE id = $1`,
		id,
	).Scan(&invoice.ID, &invoice.Reference, &invoice.CustomerID, &invoice.CustomerName, &invoice.Date)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Invoice{}, ErrNotFound
		}
		return Invoice{}, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, COALESCE(product_id, 0), category_id, quantity, unit_name, unit_price, price
		 FROM invoice_items WHERE invoice_id = $1 ORDER BY id`,
		id,
	)
	if err != nil {
		return Invoice{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var line InvoiceLine
		if err := rows.Scan(&line.ID, &line.ProductID, &line.CategoryID, &line.Quantity, &line.UnitName, &line.UnitPrice, &line.Price); err != nil {
			return Invoice{}, err
		}
		invoice.Lines = append(invoice.Lines, line)
	}
	return invoice, rows.Err()
}

// CategoryLineItems feeds the sales rollup: every stored line sold under the
// category, shaped like the console payload. The product join is LEFT so that
// lines whose catalog entry has been removed still reach the customer-level
// aggregation and the summary.
func (r *Repository) CategoryLineItems(ctx context.Context, categoryID int64) ([]salesreport.LineItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ii.quantity, ii.unit_name, ii.unit_price, ii.price,
		        p.id, p.name, p.code, p.price,
		        i.id, i.invoice_date, i.customer_id, i.customer_name
		 FROM invoice_items ii
		 JOIN invoices i ON i.id = ii.invoice_id
		 LEFT JOIN products p ON p.id = ii.product_id
		 WHERE ii.category_id = $1
		 ORDER BY i.invoice_date, i.id, ii.id`,
		categoryID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []salesreport.LineItem
	for rows.Next() {
		var (
			item         salesreport.LineItem
			quantity     float64
			productID    *int64
			productName  *string
			productCode  *string
			productPrice *float64
			invoiceID    int64
			invoiceDate  time.Time
			customerID   int64
			customerName string
		)
		if err := rows.Scan(
			&quantity, &item.UnitName, &item.UnitPrice, &item.Price,
			&productID, &productName, &productCode, &productPrice,
			&invoiceID, &invoiceDate, &customerID, &customerName,
		); err != nil {
			return nil, err
		}
		item.Quantity = &quantity
		if productID != nil {
			product := &salesreport.ProductRef{ID: *productID, Price: productPrice}
			if productName != nil {
				product.Name = *productName
			}
			if productCode != nil {
				product.Code = *productCode
			}
			item.Product = product
		}
		item.Invoice = &salesreport.InvoiceRef{
			ID:   invoiceID,
			Date: invoiceDate.Format("2006-01-02"),
		}
		if customerID > 0 {
			item.Invoice.Customer = &salesreport.CustomerRef{ID: customerID, Name: customerName}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
