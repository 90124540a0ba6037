package extract

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules holds the keyword and layout tables used by the finders
type Rules struct {
	// TotalKeywords are matched case-insensitively in front of a total amount
	TotalKeywords []string `yaml:"total_keywords"`
	// NoiseTokens are header lines that are never a store name (compared upper-cased)
	NoiseTokens []string `yaml:"noise_tokens"`
	// DateLayouts are Go reference layouts tried in order for each date token
	DateLayouts []string `yaml:"date_layouts"`
	// StoreLineLimit is how many leading lines are considered for the store name
	StoreLineLimit int `yaml:"store_line_limit"`
	// UnknownStore is the store name used when no line qualifies
	UnknownStore string `yaml:"unknown_store"`
}

// DefaultRules returns the built-in English/Italian (plus a few European) rule set
func DefaultRules() Rules {
	return Rules{
		TotalKeywords: []string{
			"total", "totale", "net total", "grand total", "totale complessivo",
			"total ttc", "amount", "amount due", "importo", "balance due",
			"pagato", "celkem", "summe", "gesamt", "montant",
		},
		NoiseTokens: []string{
			"DATE", "DATA", "TIME", "ORA", "RECEIPT", "SCONTRINO",
			"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN",
			"MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY",
			"LUN", "MAR", "MER", "GIO", "VEN", "SAB", "DOM",
			"LUNEDÌ", "MARTEDÌ", "MERCOLEDÌ", "GIOVEDÌ", "VENERDÌ", "SABATO", "DOMENICA",
		},
		DateLayouts: []string{
			// day first
			"2/1/2006", "2.1.2006", "2-1-2006",
			// month first
			"1/2/2006", "1.2.2006", "1-2-2006",
			// ISO
			"2006-1-2", "2006/1/2", "2006.1.2",
			// two-digit years
			"2/1/06", "2.1.06", "2-1-06",
			"1/2/06", "1.2.06", "1-2-06",
		},
		StoreLineLimit: 5,
		UnknownStore:   UnknownStore,
	}
}

// LoadRules reads a YAML rule file. Fields left out of the file keep their defaults.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("reading rules file: %w", err)
	}

	var file Rules
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Rules{}, fmt.Errorf("parsing rules file: %w", err)
	}

	return file.withDefaults(), nil
}

// withDefaults fills zero-valued fields from DefaultRules
func (r Rules) withDefaults() Rules {
	def := DefaultRules()
	if len(r.TotalKeywords) == 0 {
		r.TotalKeywords = def.TotalKeywords
	}
	if len(r.NoiseTokens) == 0 {
		r.NoiseTokens = def.NoiseTokens
	}
	if len(r.DateLayouts) == 0 {
		r.DateLayouts = def.DateLayouts
	}
	if r.StoreLineLimit <= 0 {
		r.StoreLineLimit = def.StoreLineLimit
	}
	if r.UnknownStore == "" {
		r.UnknownStore = def.UnknownStore
	}
	return r
}
