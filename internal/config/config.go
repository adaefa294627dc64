package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// Run modes
	ModeExtract = "extract"
	ModeLLM     = "llm"
	ModeRefine  = "refine"
	ModeServe   = "serve"

	// Default values
	DefaultOutputCSV   = "jlpt_database_auto.csv"
	DefaultManualCSV   = "jlpt_database_manual.csv"
	DefaultFinalCSV    = "jlpt_database_final.csv"
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultLogLevel    = "info"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
)

// DefaultWatermarks lists the overlay strings stamped onto shared exam
// scans. Lines matching any entry are dropped before segmentation.
func DefaultWatermarks() []string {
	return []string{"Mogi", "Bùi", "Script Nghe", "YuukiBùi", "N4答案"}
}

// Config holds all configuration for the question extractor
type Config struct {
	// Run configuration
	Mode string // "extract", "llm", "refine" or "serve"

	// Input PDFs
	ListeningPDF string
	GrammarPDF   string

	// Output database files
	OutputCSV string // auto-extracted database
	ManualCSV string // manually corrected database (refine input)
	FinalCSV  string // refined database (refine output)

	// Extraction configuration
	Watermarks []string

	// LLM configuration
	GeminiAPIKey string
	GeminiModel  string

	// Application configuration
	Version     string
	LogLevel    string
	MaxFileSize int64 // Maximum PDF file size in bytes
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Mode:        ModeExtract,
		OutputCSV:   DefaultOutputCSV,
		ManualCSV:   DefaultManualCSV,
		FinalCSV:    DefaultFinalCSV,
		Watermarks:  DefaultWatermarks(),
		GeminiModel: DefaultGeminiModel,
		Version:     "1.0.0",
		LogLevel:    DefaultLogLevel,
		MaxFileSize: DefaultMaxFileSize,
	}
}

// LoadFromFlags parses command line flags and returns a configuration
func LoadFromFlags() (*Config, error) {
	cfg := DefaultConfig()

	setupViperEnvironment(cfg)
	defineCommandLineFlags(cfg)
	bindFlagsToViper()
	setupUsageMessage()

	// Check for version flag before parsing
	if err := checkVersionFlag(); err != nil {
		return nil, err
	}

	pflag.Parse()

	populateConfigFromViper(cfg)

	// Expand input paths if needed
	for _, p := range []*string{&cfg.ListeningPDF, &cfg.GrammarPDF} {
		if *p == "" {
			continue
		}
		if expandedPath, err := filepath.Abs(*p); err == nil {
			*p = expandedPath
		}
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setupViperEnvironment configures viper with environment variables and defaults
func setupViperEnvironment(cfg *Config) {
	// Set environment variable prefix
	viper.SetEnvPrefix("JLPT")
	viper.AutomaticEnv()

	// Define flags with Viper
	viper.SetDefault("mode", cfg.Mode)
	viper.SetDefault("listening", cfg.ListeningPDF)
	viper.SetDefault("grammar", cfg.GrammarPDF)
	viper.SetDefault("output", cfg.OutputCSV)
	viper.SetDefault("manual", cfg.ManualCSV)
	viper.SetDefault("final", cfg.FinalCSV)
	viper.SetDefault("watermarks", cfg.Watermarks)
	viper.SetDefault("geminikey", cfg.GeminiAPIKey)
	viper.SetDefault("geminimodel", cfg.GeminiModel)
	viper.SetDefault("loglevel", cfg.LogLevel)
	viper.SetDefault("maxfilesize", cfg.MaxFileSize)
}

// defineCommandLineFlags sets up all command line flags
func defineCommandLineFlags(cfg *Config) {
	pflag.String("mode", cfg.Mode, "Run mode: 'extract', 'llm', 'refine' or 'serve'")
	pflag.String("listening", cfg.ListeningPDF, "Listening section PDF path")
	pflag.String("grammar", cfg.GrammarPDF, "Grammar/vocabulary section PDF path")
	pflag.String("output", cfg.OutputCSV, "Auto-extracted database CSV path")
	pflag.String("manual", cfg.ManualCSV, "Manually corrected database CSV path (refine input)")
	pflag.String("final", cfg.FinalCSV, "Refined database CSV path (refine output)")
	pflag.StringSlice("watermarks", cfg.Watermarks, "Watermark strings to strip from pages")
	pflag.String("geminikey", cfg.GeminiAPIKey, "Gemini API key (llm mode)")
	pflag.String("geminimodel", cfg.GeminiModel, "Gemini model name (llm mode)")
	pflag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	pflag.Int64("maxfilesize", cfg.MaxFileSize, "Maximum PDF file size in bytes")
}

// bindFlagsToViper binds command line flags to viper configuration
func bindFlagsToViper() {
	for _, name := range []string{
		"mode", "listening", "grammar", "output", "manual", "final",
		"watermarks", "geminikey", "geminimodel", "loglevel", "maxfilesize",
	} {
		_ = viper.BindPFlag(name, pflag.Lookup(name))
	}
}

// setupUsageMessage configures the custom usage message
func setupUsageMessage() {
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nJLPT Extract - Build quiz question databases from JLPT exam PDFs\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		pflag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s --grammar=2024_N4_Grammar.pdf                  # grammar/vocab scan\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --grammar=g.pdf --listening=l.pdf              # both sections\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=llm --grammar=g.pdf                     # Gemini extraction\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=refine                                  # apply manual corrections\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --mode=serve                                   # MCP stdio server\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  JLPT_MODE         Run mode\n")
		fmt.Fprintf(os.Stderr, "  JLPT_LISTENING    Listening PDF path\n")
		fmt.Fprintf(os.Stderr, "  JLPT_GRAMMAR      Grammar PDF path\n")
		fmt.Fprintf(os.Stderr, "  JLPT_OUTPUT       Auto database CSV path\n")
		fmt.Fprintf(os.Stderr, "  JLPT_MANUAL       Manual database CSV path\n")
		fmt.Fprintf(os.Stderr, "  JLPT_FINAL        Final database CSV path\n")
		fmt.Fprintf(os.Stderr, "  JLPT_GEMINIKEY    Gemini API key\n")
		fmt.Fprintf(os.Stderr, "  JLPT_GEMINIMODEL  Gemini model name\n")
		fmt.Fprintf(os.Stderr, "  JLPT_LOGLEVEL     Log level\n")
		fmt.Fprintf(os.Stderr, "  JLPT_MAXFILESIZE  Maximum file size\n")
	}
}

// checkVersionFlag checks if version flag was requested
func checkVersionFlag() error {
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			return fmt.Errorf("version requested")
		}
	}
	return nil
}

// populateConfigFromViper fills the config struct with values from viper
func populateConfigFromViper(cfg *Config) {
	cfg.Mode = viper.GetString("mode")
	cfg.ListeningPDF = viper.GetString("listening")
	cfg.GrammarPDF = viper.GetString("grammar")
	cfg.OutputCSV = viper.GetString("output")
	cfg.ManualCSV = viper.GetString("manual")
	cfg.FinalCSV = viper.GetString("final")
	cfg.Watermarks = viper.GetStringSlice("watermarks")
	cfg.GeminiAPIKey = viper.GetString("geminikey")
	cfg.GeminiModel = viper.GetString("geminimodel")
	cfg.LogLevel = viper.GetString("loglevel")
	cfg.MaxFileSize = viper.GetInt64("maxfilesize")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Mode {
	case ModeExtract, ModeLLM:
		if c.ListeningPDF == "" && c.GrammarPDF == "" {
			return errors.New("at least one of --listening or --grammar is required")
		}
		if c.OutputCSV == "" {
			return errors.New("output CSV path cannot be empty")
		}
		if c.Mode == ModeLLM && c.GeminiAPIKey == "" {
			return errors.New("llm mode requires a Gemini API key (--geminikey or JLPT_GEMINIKEY)")
		}
		if c.Mode == ModeLLM && c.GeminiModel == "" {
			return errors.New("llm mode requires a Gemini model name")
		}
	case ModeRefine:
		if c.ManualCSV == "" {
			return errors.New("refine mode requires a manual database CSV path")
		}
		if c.FinalCSV == "" {
			return errors.New("refine mode requires a final database CSV path")
		}
	case ModeServe:
		// The server takes paths per tool call.
	default:
		return fmt.Errorf("mode must be one of: %s, %s, %s, %s",
			ModeExtract, ModeLLM, ModeRefine, ModeServe)
	}

	// Validate max file size
	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{Mode: %s, ListeningPDF: %s, GrammarPDF: %s, OutputCSV: %s, LogLevel: %s, MaxFileSize: %d}",
		c.Mode, c.ListeningPDF, c.GrammarPDF, c.OutputCSV, c.LogLevel, c.MaxFileSize)
}

// IsServeMode returns true if the run hosts the MCP stdio server
func (c *Config) IsServeMode() bool {
	return c.Mode == ModeServe
}

// IsLLMMode returns true if extraction goes through the language model
func (c *Config) IsLLMMode() bool {
	return c.Mode == ModeLLM
}
