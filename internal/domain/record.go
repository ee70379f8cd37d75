package domain

// LineItem is one product/quantity/price entry attached to a record.
// Approval and Approved form a two-step authorization gate on deal lines:
// the backend flags a line as needing approval, the user grants it.
type LineItem struct {
	ID          int64  `json:"id"`
	DetailID    int64  `json:"detail_id"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Qty         int    `json:"qty"`
	UnitPrice   int64  `json:"price"`
	Approval    bool   `json:"approval"`
	Approved    bool   `json:"approved"`
}

// Subtotal returns qty × unit price for this line.
func (li LineItem) Subtotal() int64 {
	return int64(li.Qty) * li.UnitPrice
}

// Total sums qty × unit price over all items.
func Total(items []LineItem) int64 {
	var total int64
	for _, li := range items {
		total += li.Subtotal()
	}
	return total
}

// Transaction is a read/write projection of a backend order record.
type Transaction struct {
	ID           int64
	CustomerName string
	Total        int64
	Date         string
	Details      []LineItem
}

// Deal is a read/write projection of a backend sales-pipeline record.
type Deal struct {
	ID      int64
	Name    string
	Email   string
	Phone   string
	Company string
	Stage   Stage
	Address string
	Needs   string
	Date    string
	Items   []LineItem
}

// Product is a read/write projection of a backend catalog record.
type Product struct {
	ID       int64
	Name     string
	Duration int
	Speed    string
	HPP      int64
	Margin   int64
	Status   string
	Price    int64
	Date     string
}
