package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/edusupply/console-api/internal/salesreport"
)

func TestWriteSummaryCSV(t *testing.T) {
	summary := salesreport.Summary{CustomerCount: 4, PurchaseEvents: 12, TotalRevenue: 1250000}
	buf := &bytes.Buffer{}
	if err := WriteSummaryCSV(buf, summary); err != nil {
		t.Fatalf("summary csv error: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("csv read error: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d", len(records))
	}
	if !strings.Contains(records[3][1], "₫") {
		t.Fatalf("expected currency-formatted revenue, got %q", records[3][1])
	}
}

func TestWriteProductsCSVUnits(t *testing.T) {
	products := []salesreport.ProductRollup{{
		ProductName:   "Vở kẻ ngang",
		ProductCode:   "VKN-96",
		CustomerCount: 2,
		PurchaseCount: 3,
		Revenue:       450000,
		ListedPrice:   9000,
		Units: []salesreport.UnitQuantity{
			{Unit: "hộp", Quantity: 7},
			{Unit: "thùng", Quantity: 2},
		},
	}}
	buf := &bytes.Buffer{}
	if err := WriteProductsCSV(buf, products); err != nil {
		t.Fatalf("products csv error: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("csv read error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected one data row, got %d", len(records)-1)
	}
	if records[1][2] != "7 hộp; 2 thùng" {
		t.Fatalf("unexpected unit column %q", records[1][2])
	}
}

func TestWriteCustomersCSV(t *testing.T) {
	customers := []salesreport.CustomerRollup{
		{CustomerName: "Trường An Phú", PurchaseCount: 5, Revenue: 300000},
	}
	buf := &bytes.Buffer{}
	if err := WriteCustomersCSV(buf, customers); err != nil {
		t.Fatalf("customers csv error: %v", err)
	}
	records, err := csv.NewReader(bytes.NewReader(buf.Bytes())).ReadAll()
	if err != nil {
		t.Fatalf("csv read error: %v", err)
	}
	if records[1][0] != "Trường An Phú" || records[1][1] != "5" {
		t.Fatalf("unexpected customer row %v", records[1])
	}
}
