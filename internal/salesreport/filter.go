package salesreport

import "time"

// invoiceDateLayouts lists the date formats the invoice store emits, most
// specific first.
var invoiceDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FilterByDate keeps the line items whose invoice date falls inside the
// inclusive [from, to] window. A zero bound is treated as unset; To is widened
// to the end of its day. When both bounds are unset the input passes through
// untouched, including items with missing or unparsable dates. When either
// bound is set, such items are dropped rather than reported as errors.
func FilterByDate(items []LineItem, from, to time.Time) []LineItem {
	if from.IsZero() && to.IsZero() {
		return items
	}
	if !to.IsZero() {
		to = endOfDay(to)
	}
	filtered := make([]LineItem, 0, len(items))
	for _, item := range items {
		ts, ok := item.invoiceDate()
		if !ok {
			continue
		}
		if !from.IsZero() && ts.Before(from) {
			continue
		}
		if !to.IsZero() && ts.After(to) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}

// invoiceDate parses the raw invoice date, reporting false when the item has
// no parent invoice or the date does not match any known layout.
func (item LineItem) invoiceDate() (time.Time, bool) {
	if item.Invoice == nil || item.Invoice.Date == "" {
		return time.Time{}, false
	}
	for _, layout := range invoiceDateLayouts {
		if ts, err := time.ParseInLocation(layout, item.Invoice.Date, time.UTC); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
