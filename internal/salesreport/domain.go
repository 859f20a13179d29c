package salesreport

// UnitUnspecified labels quantities whose line item carries no unit of measure.
const UnitUnspecified = "unspecified"

// LineItem is one row of a sold invoice as delivered by the invoice store.
// Optional numeric fields are pointers so that "absent" and "zero" stay
// distinguishable for the price fallback chain.
type LineItem struct {
	Quantity  *float64    `json:"quantity,omitempty"`
	UnitName  string      `json:"unitName,omitempty"`
	UnitPrice *float64    `json:"unitPrice,omitempty"`
	Price     *float64    `json:"price,omitempty"`
	Product   *ProductRef `json:"product,omitempty"`
	Invoice   *InvoiceRef `json:"invoice,omitempty"`
}

// ProductRef is the catalog product a line item sold. An ID of zero or less
// means the reference is unusable for product-level grouping.
type ProductRef struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Code  string   `json:"code"`
	Price *float64 `json:"price,omitempty"`
}

// InvoiceRef ties a line item back to its parent invoice. Date is kept raw
// and parsed lazily by the date filter.
type InvoiceRef struct {
	ID       int64        `json:"id"`
	Date     string       `json:"date"`
	Customer *CustomerRef `json:"customer,omitempty"`
}

// CustomerRef identifies the buyer on the parent invoice.
type CustomerRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CustomerRollup summarizes every filtered line item bought by one customer.
// PurchaseCount is the number of distinct invoices, not line items.
type CustomerRollup struct {
	CustomerID    int64   `json:"customerId"`
	CustomerName  string  `json:"customerName"`
	PurchaseCount int     `json:"purchaseCount"`
	Revenue       float64 `json:"revenue"`
}

// UnitQuantity is one unit-of-measure bucket inside a product rollup.
type UnitQuantity struct {
	Unit     string  `json:"unit"`
	Quantity float64 `json:"quantity"`
}

// ProductRollup summarizes every filtered line item that sold one product.
// Units keeps quantities separate per unit label because no conversion factor
// between units is guaranteed to exist.
type ProductRollup struct {
	ProductID     int64          `json:"productId"`
	ProductName   string         `json:"productName"`
	ProductCode   string         `json:"productCode"`
	ListedPrice   float64        `json:"listedPrice"`
	CustomerCount int            `json:"customerCount"`
	PurchaseCount int            `json:"purchaseCount"`
	Revenue       float64        `json:"revenue"`
	Units         []UnitQuantity `json:"units"`
}

// Summary holds the headline totals over the filtered line items.
// PurchaseEvents counts line items with an invoice attached, which is a
// different figure from the per-customer distinct-invoice count.
type Summary struct {
	CustomerCount  int     `json:"customerCount"`
	PurchaseEvents int     `json:"purchaseEvents"`
	TotalRevenue   float64 `json:"totalRevenue"`
}

// Report bundles the two rollup views with the overall summary.
type Report struct {
	Summary   Summary          `json:"summary"`
	Products  []ProductRollup  `json:"products"`
	Customers []CustomerRollup `json:"customers"`
}

func (item LineItem) customer() *CustomerRef {
	if item.Invoice == nil {
		return nil
	}
	return item.Invoice.Customer
}

func (item LineItem) invoiceID() int64 {
	if item.Invoice == nil {
		return 0
	}
	return item.Invoice.ID
}
