package salesreport

import (
	"sort"
	"time"
)

// BuildReport runs the full rollup pipeline: date filter, the two grouping
// passes, the overall summary, and the final ordering. It is a pure function
// of its inputs; callers may invoke it as often as they like and cache the
// result under any key they see fit.
func BuildReport(items []LineItem, from, to time.Time) Report {
	filtered := FilterByDate(items, from, to)
	report := Report{
		Summary:   computeSummary(filtered),
		Products:  aggregateProducts(filtered),
		Customers: aggregateCustomers(filtered),
	}
	sort.SliceStable(report.Products, func(i, j int) bool {
		return rollupLess(report.Products[i].Revenue, report.Products[j].Revenue,
			report.Products[i].PurchaseCount, report.Products[j].PurchaseCount)
	})
	sort.SliceStable(report.Customers, func(i, j int) bool {
		return rollupLess(report.Customers[i].Revenue, report.Customers[j].Revenue,
			report.Customers[i].PurchaseCount, report.Customers[j].PurchaseCount)
	})
	return report
}

// rollupLess orders by revenue descending, then purchase count descending.
// Further ties keep encounter order through the stable sort.
func rollupLess(revI, revJ float64, countI, countJ int) bool {
	if revI != revJ {
		return revI > revJ
	}
	return countI > countJ
}
