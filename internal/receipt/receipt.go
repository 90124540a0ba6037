package receipt

import "time"

// Receipt is the API view of one extraction, with caller defaults applied
type Receipt struct {
	ID         string    `json:"id"`
	StoreName  string    `json:"store_name"`
	Date       string    `json:"date"` // YYYY-MM-DD
	DateFound  bool      `json:"date_found"`
	Total      int       `json:"total"` // Amount in cents
	TotalFound bool      `json:"total_found"`
	Items      []Item    `json:"items"`
	ItemsTotal int       `json:"items_total"` // Sum of item line totals in cents
	Category   string    `json:"category"`    // "Pending" until a categorizer assigns one
	CreatedAt  time.Time `json:"created_at"`
}

// Item is one line item of a receipt
type Item struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int    `json:"unit_price"` // Amount in cents
	LineTotal int    `json:"line_total"` // Quantity times unit price, in cents
}
