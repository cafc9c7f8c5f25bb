package admin

// Analytics is a read-only view derived from the order ledger and the
// product catalog. Amounts are taken from the price snapshots inside
// the order lines, never from current catalog prices.
type Analytics struct {
	TotalOrders           int
	TotalProducts         int
	OpenOrders            int
	CompletedOrders       int
	TotalRevenueInCents   int64
	OrdersByStatus        map[string]int
	OrdersByPaymentMethod map[string]int
	DailySales            []DailySale
	TopProducts           []ProductSales
}

type DailySale struct {
	Day           string
	OrderCount    int
	AmountInCents int64
}

type ProductSales struct {
	ProductUID     string
	ProductName    string
	QuantitySold   int
	RevenueInCents int64
}
