package tagging

import (
	"fmt"
	"strings"
)

// Label is the semantic role assigned to a single token of a receipt line
type Label string

const (
	// Outside marks a token that carries no line-item role
	Outside     Label = ""
	ProductName Label = "PRODUCT_NAME"
	Quantity    Label = "QUANTITY"
	ItemPrice   Label = "ITEM_PRICE"
)

// ParseLabel maps a raw model label onto a known Label. Anything unknown is Outside.
func ParseLabel(raw string) Label {
	switch Label(strings.ToUpper(strings.TrimSpace(raw))) {
	case ProductName:
		return ProductName
	case Quantity:
		return Quantity
	case ItemPrice:
		return ItemPrice
	default:
		return Outside
	}
}

// Token is one word of a line together with its label
type Token struct {
	Text  string `json:"token"`
	Label Label  `json:"label"`
}

// Tagger defines the interface for line-item sequence labeling
type Tagger interface {
	// Tag labels every token of a single receipt line
	Tag(line string) ([]Token, error)
	// Close closes the tagger and releases resources
	Close() error
}

// Nop is the tagger used when no labeling model is loaded. It never tags anything.
type Nop struct{}

// Tag returns no tokens
func (Nop) Tag(string) ([]Token, error) { return nil, nil }

// Close is a no-op
func (Nop) Close() error { return nil }

// Available reports whether t is a real labeling capability
func Available(t Tagger) bool {
	if t == nil {
		return false
	}
	switch t.(type) {
	case Nop, *Nop:
		return false
	}
	return true
}

// Config selects and configures a Tagger
type Config struct {
	// Kind is one of "none", "pattern", "gemini" or "ollama"
	Kind        string
	GeminiKey   string
	GeminiModel string
	OllamaURL   string
	OllamaModel string
}

// New builds the tagger named by cfg.Kind. Callers should fall back to Nop on error.
func New(cfg Config) (Tagger, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Kind)) {
	case "", "none":
		return Nop{}, nil
	case "pattern":
		return NewPattern(), nil
	case "gemini":
		return NewGemini(cfg.GeminiKey, cfg.GeminiModel)
	case "ollama":
		return NewOllama(cfg.OllamaURL, cfg.OllamaModel)
	default:
		return nil, fmt.Errorf("unknown tagger %q (valid: none, pattern, gemini, ollama)", cfg.Kind)
	}
}

// Name returns a short human readable name for t
func Name(t Tagger) string {
	switch t.(type) {
	case *Pattern:
		return "pattern"
	case *Gemini:
		return "gemini"
	case *Ollama:
		return "ollama"
	case nil, Nop, *Nop:
		return "none"
	default:
		return fmt.Sprintf("%T", t)
	}
}
