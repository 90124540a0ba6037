package extract

import "time"

// UnknownStore is returned as the store name when no header line qualifies
const UnknownStore = "Unknown Store"

// ExtractedReceipt is the best-effort structured view of one OCR text blob
type ExtractedReceipt struct {
	StoreName string     `json:"store_name"`
	Total     *float64   `json:"total,omitempty"` // nil when no keyword-adjacent amount was found
	Date      *time.Time `json:"date,omitempty"`  // midnight UTC, nil when no token parsed
	Items     []LineItem `json:"items"`
}

// LineItem is a single product line of a receipt
type LineItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}
