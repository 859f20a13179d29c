package salesreport

import (
	"reflect"
	"testing"
	"time"
)

func fptr(v float64) *float64 { return &v }

func item(invoiceID int64, date string, customerID int64, customerName string, productID int64, productName string, unit string, quantity, unitPrice float64) LineItem {
	li := LineItem{
		Quantity:  fptr(quantity),
		UnitName:  unit,
		UnitPrice: fptr(unitPrice),
	}
	if productID > 0 {
		li.Product = &ProductRef{ID: productID, Name: productName, Code: productName}
	}
	li.Invoice = &InvoiceRef{ID: invoiceID, Date: date}
	if customerID > 0 {
		li.Invoice.Customer = &CustomerRef{ID: customerID, Name: customerName}
	}
	return li
}

func date(value string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestBuildReportEmptyInput(t *testing.T) {
	report := BuildReport(nil, time.Time{}, time.Time{})
	if len(report.Products) != 0 || len(report.Customers) != 0 {
		t.Fatalf("expected empty rollups, got %d products, %d customers", len(report.Products), len(report.Customers))
	}
	if report.Summary != (Summary{}) {
		t.Fatalf("expected zero summary, got %+v", report.Summary)
	}
}

func TestFilterByDateInclusiveWindow(t *testing.T) {
	items := []LineItem{
		item(1, "2024-01-05", 1, "An Phú", 1, "P1", "hộp", 1, 10),
		item(2, "2024-01-15", 1, "An Phú", 1, "P1", "hộp", 1, 10),
		item(3, "2024-01-25", 1, "An Phú", 1, "P1", "hộp", 1, 10),
	}
	filtered := FilterByDate(items, date("2024-01-10"), date("2024-01-20"))
	if len(filtered) != 1 {
		t.Fatalf("expected 1 item, got %d", len(filtered))
	}
	if filtered[0].Invoice.ID != 2 {
		t.Fatalf("expected invoice 2 to survive, got %d", filtered[0].Invoice.ID)
	}
}

func TestFilterByDateToBoundCoversWholeDay(t *testing.T) {
	items := []LineItem{
		item(1, "2024-01-20T18:30:00", 1, "An Phú", 1, "P1", "hộp", 1, 10),
	}
	filtered := FilterByDate(items, time.Time{}, date("2024-01-20"))
	if len(filtered) != 1 {
		t.Fatalf("expected the 18:30 item inside the inclusive day, got %d items", len(filtered))
	}
}

func TestFilterByDateBypassKeepsUnparsableDates(t *testing.T) {
	items := []LineItem{
		item(1, "not-a-date", 1, "An Phú", 1, "P1", "hộp", 1, 10),
		item(2, "", 1, "An Phú", 1, "P1", "hộp", 1, 10),
	}
	if got := FilterByDate(items, time.Time{}, time.Time{}); len(got) != 2 {
		t.Fatalf("expected bypass to keep all items, got %d", len(got))
	}
	if got := FilterByDate(items, date("2024-01-01"), time.Time{}); len(got) != 0 {
		t.Fatalf("expected active bound to drop unparsable dates, got %d", len(got))
	}
}

func TestCustomerPurchaseCountIsDistinctInvoices(t *testing.T) {
	items := []LineItem{
		item(7, "2024-01-05", 1, "An Phú", 1, "P1", "hộp", 1, 100),
		item(7, "2024-01-05", 1, "An Phú", 2, "P2", "hộp", 2, 50),
		item(8, "2024-01-06", 1, "An Phú", 1, "P1", "hộp", 1, 100),
	}
	report := BuildReport(items, time.Time{}, time.Time{})
	if len(report.Customers) != 1 {
		t.Fatalf("expected one customer, got %d", len(report.Customers))
	}
	cust := report.Customers[0]
	if cust.PurchaseCount != 2 {
		t.Fatalf("expected 2 distinct invoices, got %d", cust.PurchaseCount)
	}
	if cust.Revenue != 300 {
		t.Fatalf("expected revenue 300, got %.2f", cust.Revenue)
	}
	if report.Summary.PurchaseEvents != 3 {
		t.Fatalf("summary counts line items, expected 3, got %d", report.Summary.PurchaseEvents)
	}
}

func TestProductUnitBreakdownStaysSeparate(t *testing.T) {
	items := []LineItem{
		item(1, "2024-01-05", 1, "An Phú", 5, "Vở kẻ ngang", "hộp", 3, 10),
		item(2, "2024-01-06", 2, "Bình Minh", 5, "Vở kẻ ngang", "thùng", 2, 10),
		item(3, "2024-01-07", 1, "An Phú", 5, "Vở kẻ ngang", "hộp", 4, 10),
	}
	report := BuildReport(items, time.Time{}, time.Time{})
	if len(report.Products) != 1 {
		t.Fatalf("expected one product, got %d", len(report.Products))
	}
	product := report.Products[0]
	want := []UnitQuantity{{Unit: "hộp", Quantity: 7}, {Unit: "thùng", Quantity: 2}}
	if !reflect.DeepEqual(product.Units, want) {
		t.Fatalf("unexpected unit breakdown: %+v", product.Units)
	}
	if product.CustomerCount != 2 {
		t.Fatalf("expected 2 distinct customers, got %d", product.CustomerCount)
	}
	if product.PurchaseCount != 3 {
		t.Fatalf("expected 3 distinct invoices, got %d", product.PurchaseCount)
	}
}

func TestProductWithoutIDStillCountsForCustomer(t *testing.T) {
	orphan := item(1, "2024-01-05", 3, "Sao Mai", 0, "", "hộp", 2, 25)
	report := BuildReport([]LineItem{orphan}, time.Time{}, time.Time{})
	if len(report.Products) != 0 {
		t.Fatalf("expected no product rollups, got %d", len(report.Products))
	}
	if len(report.Customers) != 1 || report.Customers[0].Revenue != 50 {
		t.Fatalf("expected customer revenue 50, got %+v", report.Customers)
	}
	if report.Summary.TotalRevenue != 50 {
		t.Fatalf("expected summary revenue 50, got %.2f", report.Summary.TotalRevenue)
	}
}

func TestMissingUnitNameFallsBackToSentinel(t *testing.T) {
	li := item(1, "2024-01-05", 1, "An Phú", 9, "Bút bi", "", 5, 2)
	report := BuildReport([]LineItem{li}, time.Time{}, time.Time{})
	units := report.Products[0].Units
	if len(units) != 1 || units[0].Unit != UnitUnspecified {
		t.Fatalf("expected %q unit bucket, got %+v", UnitUnspecified, units)
	}
}

func TestSortRevenueDescThenPurchaseCountDesc(t *testing.T) {
	items := []LineItem{
		// Customer A: revenue 500 across 2 invoices.
		item(1, "2024-01-05", 1, "A", 1, "P1", "hộp", 1, 250),
		item(2, "2024-01-06", 1, "A", 1, "P1", "hộp", 1, 250),
		// Customer B: revenue 500 across 5 invoices.
		item(3, "2024-01-05", 2, "B", 2, "P2", "hộp", 1, 100),
		item(4, "2024-01-06", 2, "B", 2, "P2", "hộp", 1, 100),
		item(5, "2024-01-07", 2, "B", 2, "P2", "hộp", 1, 100),
		item(6, "2024-01-08", 2, "B", 2, "P2", "hộp", 1, 100),
		item(7, "2024-01-09", 2, "B", 2, "P2", "hộp", 1, 100),
		// Customer C: revenue 900.
		item(8, "2024-01-05", 3, "C", 3, "P3", "hộp", 1, 900),
	}
	report := BuildReport(items, time.Time{}, time.Time{})
	gotOrder := []int64{report.Customers[0].CustomerID, report.Customers[1].CustomerID, report.Customers[2].CustomerID}
	wantOrder := []int64{3, 2, 1}
	if !reflect.DeepEqual(gotOrder, wantOrder) {
		t.Fatalf("expected customer order %v, got %v", wantOrder, gotOrder)
	}
}

func TestBuildReportIsIdempotent(t *testing.T) {
	items := []LineItem{
		item(1, "2024-01-05", 1, "An Phú", 1, "P1", "hộp", 3, 10),
		item(2, "2024-01-15", 2, "Bình Minh", 2, "P2", "thùng", 1, 200),
		item(2, "2024-01-15", 2, "Bình Minh", 1, "P1", "hộp", 2, 10),
	}
	first := BuildReport(items, date("2024-01-01"), date("2024-01-31"))
	second := BuildReport(items, date("2024-01-01"), date("2024-01-31"))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected value-equal reports:\n%+v\n%+v", first, second)
	}
}
