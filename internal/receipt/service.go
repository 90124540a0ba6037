package receipt

import (
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/scontrinosmart/receipt-extractor/internal/extract"
	"github.com/scontrinosmart/receipt-extractor/internal/tagging"
)

// ErrEmptyText is returned when there is no OCR text to extract from
var ErrEmptyText = errors.New("receipt text is empty")

// Extractor defines the extraction capability used by the service
type Extractor interface {
	Extract(raw string) extract.ExtractedReceipt
}

// IDGenerator generates unique IDs for receipts
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates random UUIDs
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return uuid.NewString()
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles receipt extraction requests
type Service struct {
	extractor   Extractor
	idGenerator IDGenerator
	timeSource  TimeSource
	categorizer Categorizer
}

// NewService creates a new Service with default ID generator and time source
func NewService(extractor Extractor) *Service {
	return &Service{
		extractor:   extractor,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
		categorizer: pendingCategorizer{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(extractor Extractor, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		extractor:   extractor,
		idGenerator: idGen,
		timeSource:  timeSrc,
		categorizer: pendingCategorizer{},
	}
}

// Extract runs the extractor over OCR text and builds the API receipt. Missing
// fields get the caller defaults: today's date and a zero total.
func (s *Service) Extract(rawText string) (*Receipt, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, ErrEmptyText
	}

	now := s.timeSource.Now()
	extracted := s.extractor.Extract(rawText)

	receipt := &Receipt{
		ID:        s.idGenerator.Generate(),
		StoreName: extracted.StoreName,
		Date:      now.Format("2006-01-02"),
		Items:     make([]Item, 0, len(extracted.Items)),
		CreatedAt: now,
	}

	if extracted.Date != nil {
		receipt.Date = extracted.Date.Format("2006-01-02")
		receipt.DateFound = true
	}
	if extracted.Total != nil {
		if cents, ok := toCents(*extracted.Total); ok {
			receipt.Total = cents
			receipt.TotalFound = true
		} else {
			slog.Debug("Dropping out of range total", "total", *extracted.Total)
		}
	}

	itemsTotal := decimal.Zero
	for _, it := range extracted.Items {
		item, lineTotal, ok := toItem(it)
		if !ok || itemsTotal.Add(lineTotal).GreaterThan(maxCents) {
			slog.Debug("Dropping out of range item", "name", it.Name, "unit_price", it.UnitPrice, "quantity", it.Quantity)
			continue
		}
		itemsTotal = itemsTotal.Add(lineTotal)
		receipt.Items = append(receipt.Items, item)
	}
	receipt.ItemsTotal = int(itemsTotal.IntPart())

	receipt.Category = s.categorize(rawText)

	slog.Debug("Extracted receipt",
		"id", receipt.ID,
		"store", receipt.StoreName,
		"total_found", receipt.TotalFound,
		"date_found", receipt.DateFound,
		"items", len(receipt.Items),
	)

	return receipt, nil
}

// TaggerName reports which line-item tagger the extractor uses
func (s *Service) TaggerName() string {
	if e, ok := s.extractor.(interface{ Tagger() tagging.Tagger }); ok {
		return tagging.Name(e.Tagger())
	}
	return "unknown"
}

// maxCents bounds every amount on a receipt. Larger numbers are OCR noise
// such as a barcode merged onto a total line.
var maxCents = decimal.New(1, 12)

// toCents converts an amount in currency units to cents, rounding half away
// from zero. Negative or out of range amounts are rejected.
func toCents(amount float64) (int, bool) {
	cents, ok := centsDecimal(amount)
	if !ok {
		return 0, false
	}
	return int(cents.IntPart()), true
}

func centsDecimal(amount float64) (decimal.Decimal, bool) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return decimal.Zero, false
	}
	cents := decimal.NewFromFloat(amount).Round(2).Shift(2)
	if cents.IsNegative() || cents.GreaterThan(maxCents) {
		return decimal.Zero, false
	}
	return cents, true
}

// toItem converts an extracted line item, returning its line total in cents
func toItem(it extract.LineItem) (Item, decimal.Decimal, bool) {
	unit, ok := centsDecimal(it.UnitPrice)
	if !ok || it.Quantity < 1 {
		return Item{}, decimal.Zero, false
	}
	lineTotal := unit.Mul(decimal.NewFromInt(int64(it.Quantity)))
	if lineTotal.GreaterThan(maxCents) {
		return Item{}, decimal.Zero, false
	}
	return Item{
		Name:      it.Name,
		Quantity:  it.Quantity,
		UnitPrice: int(unit.IntPart()),
		LineTotal: int(lineTotal.IntPart()),
	}, lineTotal, true
}
