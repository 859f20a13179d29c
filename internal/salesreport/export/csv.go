// Package export serialises sales reports for download.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/edusupply/console-api/internal/salesreport"
)

// vnd renders revenue columns the way the console displays them.
var vnd = message.NewPrinter(language.Vietnamese)

// WriteSummaryCSV serialises the headline totals to CSV.
func WriteSummaryCSV(w io.Writer, summary salesreport.Summary) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}
	records := [][]string{
		{"Customers", strconv.Itoa(summary.CustomerCount)},
		{"Purchases", strconv.Itoa(summary.PurchaseEvents)},
		{"Revenue", formatVND(summary.TotalRevenue)},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteProductsCSV emits the per-product rollup as CSV.
func WriteProductsCSV(w io.Writer, products []salesreport.ProductRollup) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Product", "Code", "Units", "Customers", "Purchases", "Revenue", "Listed Price"}); err != nil {
		return err
	}
	for _, product := range products {
		if err := writer.Write([]string{
			product.ProductName,
			product.ProductCode,
			formatUnits(product.Units),
			strconv.Itoa(product.CustomerCount),
			strconv.Itoa(product.PurchaseCount),
			formatVND(product.Revenue),
			formatVND(product.ListedPrice),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCustomersCSV emits the per-customer rollup as CSV.
func WriteCustomersCSV(w io.Writer, customers []salesreport.CustomerRollup) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Customer", "Purchases", "Revenue"}); err != nil {
		return err
	}
	for _, customer := range customers {
		if err := writer.Write([]string{
			customer.CustomerName,
			strconv.Itoa(customer.PurchaseCount),
			formatVND(customer.Revenue),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatVND(value float64) string {
	return vnd.Sprintf("%v ₫", number.Decimal(value, number.MaxFractionDigits(0)))
}

func formatUnits(units []salesreport.UnitQuantity) string {
	parts := make([]string, 0, len(units))
	for _, unit := range units {
		parts = append(parts, strconv.FormatFloat(unit.Quantity, 'f', -1, 64)+" "+unit.Unit)
	}
	return strings.Join(parts, "; ")
}
