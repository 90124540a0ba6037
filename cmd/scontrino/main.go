package main

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/scontrinosmart/receipt-extractor/internal/extract"
	"github.com/scontrinosmart/receipt-extractor/internal/receipt"
	"github.com/scontrinosmart/receipt-extractor/internal/tagging"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("scontrino")
	var (
		port        = fs.IntLong("port", 8080, "HTTP server port")
		taggerKind  = fs.StringLong("tagger", "pattern", "Line-item tagger: 'none', 'pattern', 'gemini' or 'ollama'")
		geminiKey   = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel = fs.StringLong("gemini-model", "gemini-2.5-flash", "Google Gemini model name")
		ollamaURL   = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel = fs.StringLong("ollama-model", "llama3.2", "Ollama model name (e.g., llama3.2, qwen2.5, mistral)")
		rulesPath   = fs.StringLong("rules", "", "YAML file with keyword and date layout rules (optional)")
		input       = fs.StringLong("input", "", "Extract a single OCR text file ('-' for stdin) and print JSON instead of serving")
		authUser    = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass    = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		debug       = fs.BoolLong("debug", "Enable debug logging")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("SCONTRINO"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if *debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	// Load rules
	rules := extract.DefaultRules()
	if *rulesPath != "" {
		slog.Info("Loading rules...", "path", *rulesPath)
		var err error
		rules, err = extract.LoadRules(*rulesPath)
		if err != nil {
			slog.Error("Failed to load rules", "error", err)
			os.Exit(1)
		}
	}

	// Initialize tagger. Extraction keeps working without one.
	apiKey := *geminiKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	slog.Info("Initializing tagger...", "tagger", *taggerKind)
	tagger, err := tagging.New(tagging.Config{
		Kind:        *taggerKind,
		GeminiKey:   apiKey,
		GeminiModel: *geminiModel,
		OllamaURL:   *ollamaURL,
		OllamaModel: *ollamaModel,
	})
	if err != nil {
		slog.Warn("Tagger unavailable, line items will not be extracted", "tagger", *taggerKind, "error", err)
		tagger = tagging.Nop{}
	}
	defer tagger.Close()

	// Initialize extractor
	extractor, err := extract.New(tagger, extract.WithRules(rules))
	if err != nil {
		slog.Error("Failed to initialize extractor", "error", err)
		os.Exit(1)
	}

	receiptService := receipt.NewService(extractor)

	if *input != "" {
		if err := extractOnce(receiptService, *input, os.Stdout); err != nil {
			slog.Error("Failed to extract receipt", "input", *input, "error", err)
			os.Exit(1)
		}
		return
	}

	// Initialize server
	basicAuth := receipt.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := receipt.NewServer(receiptService, basicAuth)

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr), "tagger", tagging.Name(tagger))
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}

// extractOnce reads OCR text from path (or stdin for "-") and writes the receipt as JSON
func extractOnce(service *receipt.Service, path string, w io.Writer) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	r, err := service.Extract(string(data))
	if err != nil {
		return fmt.Errorf("extracting receipt: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding receipt: %w", err)
	}
	return nil
}
