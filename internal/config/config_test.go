package config

import (
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Test default values
	if cfg.Mode != ModeExtract {
		t.Errorf("Expected default mode to be 'extract', got '%s'", cfg.Mode)
	}

	if cfg.OutputCSV != "jlpt_database_auto.csv" {
		t.Errorf("Expected default output CSV to be 'jlpt_database_auto.csv', got '%s'", cfg.OutputCSV)
	}

	if cfg.ManualCSV != "jlpt_database_manual.csv" {
		t.Errorf("Expected default manual CSV to be 'jlpt_database_manual.csv', got '%s'", cfg.ManualCSV)
	}

	if cfg.FinalCSV != "jlpt_database_final.csv" {
		t.Errorf("Expected default final CSV to be 'jlpt_database_final.csv', got '%s'", cfg.FinalCSV)
	}

	if cfg.GeminiModel != "gemini-2.5-flash" {
		t.Errorf("Expected default Gemini model to be 'gemini-2.5-flash', got '%s'", cfg.GeminiModel)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level to be 'info', got '%s'", cfg.LogLevel)
	}

	if cfg.MaxFileSize != 100*1024*1024 {
		t.Errorf("Expected default max file size to be 100MB, got %d", cfg.MaxFileSize)
	}

	if len(cfg.Watermarks) == 0 {
		t.Error("Expected default watermark list to be non-empty")
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func(mutate func(*Config)) *Config {
		cfg := DefaultConfig()
		cfg.GrammarPDF = "/tmp/grammar.pdf"
		mutate(cfg)
		return cfg
	}

	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "valid config - extract mode",
			config:  valid(func(c *Config) {}),
			wantErr: false,
		},
		{
			name: "valid config - listening only",
			config: valid(func(c *Config) {
				c.GrammarPDF = ""
				c.ListeningPDF = "/tmp/listening.pdf"
			}),
			wantErr: false,
		},
		{
			name: "valid config - llm mode",
			config: valid(func(c *Config) {
				c.Mode = ModeLLM
				c.GeminiAPIKey = "key"
			}),
			wantErr: false,
		},
		{
			name: "valid config - refine mode without inputs",
			config: valid(func(c *Config) {
				c.Mode = ModeRefine
				c.GrammarPDF = ""
			}),
			wantErr: false,
		},
		{
			name: "valid config - serve mode without inputs",
			config: valid(func(c *Config) {
				c.Mode = ModeServe
				c.GrammarPDF = ""
			}),
			wantErr: false,
		},
		{
			name: "invalid mode",
			config: valid(func(c *Config) {
				c.Mode = "invalid"
			}),
			wantErr: true,
		},
		{
			name: "extract mode without inputs",
			config: valid(func(c *Config) {
				c.GrammarPDF = ""
			}),
			wantErr: true,
		},
		{
			name: "extract mode without output path",
			config: valid(func(c *Config) {
				c.OutputCSV = ""
			}),
			wantErr: true,
		},
		{
			name: "llm mode without API key",
			config: valid(func(c *Config) {
				c.Mode = ModeLLM
			}),
			wantErr: true,
		},
		{
			name: "llm mode without model name",
			config: valid(func(c *Config) {
				c.Mode = ModeLLM
				c.GeminiAPIKey = "key"
				c.GeminiModel = ""
			}),
			wantErr: true,
		},
		{
			name: "refine mode without manual path",
			config: valid(func(c *Config) {
				c.Mode = ModeRefine
				c.ManualCSV = ""
			}),
			wantErr: true,
		},
		{
			name: "refine mode without final path",
			config: valid(func(c *Config) {
				c.Mode = ModeRefine
				c.FinalCSV = ""
			}),
			wantErr: true,
		},
		{
			name: "zero max file size",
			config: valid(func(c *Config) {
				c.MaxFileSize = 0
			}),
			wantErr: true,
		},
		{
			name: "invalid log level",
			config: valid(func(c *Config) {
				c.LogLevel = "verbose"
			}),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigHelpers(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.IsDebug() {
		t.Error("IsDebug() should be false for the default log level")
	}
	cfg.LogLevel = "debug"
	if !cfg.IsDebug() {
		t.Error("IsDebug() should be true when log level is debug")
	}

	if cfg.IsServeMode() {
		t.Error("IsServeMode() should be false for extract mode")
	}
	cfg.Mode = ModeServe
	if !cfg.IsServeMode() {
		t.Error("IsServeMode() should be true for serve mode")
	}

	cfg.Mode = ModeLLM
	if !cfg.IsLLMMode() {
		t.Error("IsLLMMode() should be true for llm mode")
	}
}

func TestConfigString(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GrammarPDF = "/tmp/grammar.pdf"

	s := cfg.String()
	if !strings.Contains(s, "extract") {
		t.Errorf("String() missing mode: %s", s)
	}
	if !strings.Contains(s, "/tmp/grammar.pdf") {
		t.Errorf("String() missing grammar path: %s", s)
	}
	if strings.Contains(s, "geminikey") {
		t.Errorf("String() must not carry credentials: %s", s)
	}
}
