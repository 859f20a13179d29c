package salesreport

type customerAccumulator struct {
	rollup   CustomerRollup
	invoices map[int64]struct{}
}

// aggregateCustomers groups line items by customer identity. Items without a
// usable customer reference are skipped; they still count toward the summary
// and, independently, toward the product rollup. The returned slice is in
// encounter order, sorting happens later.
func aggregateCustomers(items []LineItem) []CustomerRollup {
	byCustomer := make(map[int64]*customerAccumulator)
	order := make([]int64, 0, len(items))
	for _, item := range items {
		cust := item.customer()
		if cust == nil || cust.ID <= 0 {
			continue
		}
		acc, ok := byCustomer[cust.ID]
		if !ok {
			acc = &customerAccumulator{
				rollup:   CustomerRollup{CustomerID: cust.ID, CustomerName: cust.Name},
				invoices: make(map[int64]struct{}),
			}
			byCustomer[cust.ID] = acc
			order = append(order, cust.ID)
		}
		if id := item.invoiceID(); id > 0 {
			acc.invoices[id] = struct{}{}
		}
		acc.rollup.Revenue += Revenue(item)
	}
	rollups := make([]CustomerRollup, 0, len(order))
	for _, id := range order {
		acc := byCustomer[id]
		acc.rollup.PurchaseCount = len(acc.invoices)
		rollups = append(rollups, acc.rollup)
	}
	return rollups
}

type productAccumulator struct {
	rollup    ProductRollup
	unitIndex map[string]int
	invoices  map[int64]struct{}
	customers map[int64]struct{}
}

// aggregateProducts groups line items by product identity, tracking distinct
// buyers, distinct invoices, revenue, and a per-unit quantity breakdown. Unit
// buckets appear in first-seen order and are never merged across labels.
func aggregateProducts(items []LineItem) []ProductRollup {
	byProduct := make(map[int64]*productAccumulator)
	order := make([]int64, 0, len(items))
	for _, item := range items {
		if item.Product == nil || item.Product.ID <= 0 {
			continue
		}
		product := item.Product
		acc, ok := byProduct[product.ID]
		if !ok {
			listed := 0.0
			if product.Price != nil {
				listed = *product.Price
			}
			acc = &productAccumulator{
				rollup: ProductRollup{
					ProductID:   product.ID,
					ProductName: product.Name,
					ProductCode: product.Code,
					ListedPrice: listed,
				},
				unitIndex: make(map[string]int),
				invoices:  make(map[int64]struct{}),
				customers: make(map[int64]struct{}),
			}
			byProduct[product.ID] = acc
			order = append(order, product.ID)
		}
		if id := item.invoiceID(); id > 0 {
			acc.invoices[id] = struct{}{}
		}
		if cust := item.customer(); cust != nil && cust.ID > 0 {
			acc.customers[cust.ID] = struct{}{}
		}
		acc.rollup.Revenue += Revenue(item)
		acc.addQuantity(item)
	}
	rollups := make([]ProductRollup, 0, len(order))
	for _, id := range order {
		acc := byProduct[id]
		acc.rollup.PurchaseCount = len(acc.invoices)
		acc.rollup.CustomerCount = len(acc.customers)
		rollups = append(rollups, acc.rollup)
	}
	return rollups
}

func (acc *productAccumulator) addQuantity(item LineItem) {
	unit := item.UnitName
	if unit == "" {
		unit = UnitUnspecified
	}
	quantity := 0.0
	if item.Quantity != nil {
		quantity = *item.Quantity
	}
	idx, ok := acc.unitIndex[unit]
	if !ok {
		idx = len(acc.rollup.Units)
		acc.unitIndex[unit] = idx
		acc.rollup.Units = append(acc.rollup.Units, UnitQuantity{Unit: unit})
	}
	acc.rollup.Units[idx].Quantity += quantity
}

// computeSummary totals the filtered set as a whole. Revenue is unconditional
// on whether an item could be grouped by customer or product.
func computeSummary(items []LineItem) Summary {
	customers := make(map[int64]struct{})
	var summary Summary
	for _, item := range items {
		if cust := item.customer(); cust != nil && cust.ID > 0 {
			customers[cust.ID] = struct{}{}
		}
		if item.invoiceID() > 0 {
			summary.PurchaseEvents++
		}
		summary.TotalRevenue += Revenue(item)
	}
	summary.CustomerCount = len(customers)
	return summary
}
