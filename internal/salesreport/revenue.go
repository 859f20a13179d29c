package salesreport

// Revenue computes the monetary contribution of one line item as
// quantity times the resolved unit price. It never fails: absent fields
// coerce to zero.
func Revenue(item LineItem) float64 {
	quantity := 0.0
	if item.Quantity != nil {
		quantity = *item.Quantity
	}
	return quantity * resolveUnitPrice(item)
}

// resolveUnitPrice walks the price candidates in precedence order: the item's
// own negotiated unit price, then its generic price, then the catalog price on
// the product reference. The first present value wins, missing everything
// resolves to zero.
func resolveUnitPrice(item LineItem) float64 {
	if item.UnitPrice != nil {
		return *item.UnitPrice
	}
	if item.Price != nil {
		return *item.Price
	}
	if item.Product != nil && item.Product.Price != nil {
		return *item.Product.Price
	}
	return 0
}
