package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/yuukibui/jlpt-extract/internal/config"
	"github.com/yuukibui/jlpt-extract/internal/csvdb"
	"github.com/yuukibui/jlpt-extract/internal/extract"
	"github.com/yuukibui/jlpt-extract/internal/llm"
	"github.com/yuukibui/jlpt-extract/internal/mcp"
	"github.com/yuukibui/jlpt-extract/internal/pdfdoc"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

// setupLogging configures logging based on the run mode
func setupLogging(cfg *config.Config) {
	if cfg.IsServeMode() {
		// In serve mode, redirect log output to stderr to avoid interfering with MCP protocol
		log.SetOutput(os.Stderr)
		// Reduce log verbosity in serve mode unless debug is enabled
		if !cfg.IsDebug() {
			log.SetOutput(io.Discard)
		}
	} else {
		log.SetFlags(log.LstdFlags)
	}
}

// runExtract scans the configured PDFs with the geometric pipeline and
// writes the auto database.
func runExtract(cfg *config.Config) error {
	service := extract.NewService(cfg.Watermarks)
	var records []extract.Record

	if cfg.ListeningPDF != "" {
		src, err := pdfdoc.Open(cfg.ListeningPDF, cfg.MaxFileSize)
		if err != nil {
			return fmt.Errorf("listening PDF: %w", err)
		}
		result, err := service.ExtractListening(src)
		src.Close()
		if err != nil {
			return fmt.Errorf("listening scan: %w", err)
		}
		log.Printf("Extracted %d listening questions from %s (%d pages skipped)",
			len(result.Records), cfg.ListeningPDF, result.PagesFailed)
		records = append(records, result.Records...)
	}

	if cfg.GrammarPDF != "" {
		src, err := pdfdoc.Open(cfg.GrammarPDF, cfg.MaxFileSize)
		if err != nil {
			return fmt.Errorf("grammar PDF: %w", err)
		}
		result, err := service.ExtractGrammarVocab(src)
		src.Close()
		if err != nil {
			return fmt.Errorf("grammar scan: %w", err)
		}
		log.Printf("Extracted %d grammar/vocab questions from %s (%d pages skipped)",
			len(result.Records), cfg.GrammarPDF, result.PagesFailed)
		records = append(records, result.Records...)
	}

	if len(records) == 0 {
		log.Printf("No questions were extracted. Check the PDF files.")
	}
	if err := csvdb.WriteFile(cfg.OutputCSV, records); err != nil {
		return fmt.Errorf("writing database: %w", err)
	}
	log.Printf("Database saved to: %s (%d questions)", cfg.OutputCSV, len(records))
	return nil
}

// runLLM scans the configured PDFs through the Gemini extractor and
// writes the same database schema.
func runLLM(ctx context.Context, cfg *config.Config) error {
	service := extract.NewService(cfg.Watermarks)
	extractor := llm.NewGeminiExtractor(cfg.GeminiAPIKey, cfg.GeminiModel)
	defer extractor.Close()
	var records []extract.Record

	for _, path := range []string{cfg.ListeningPDF, cfg.GrammarPDF} {
		if path == "" {
			continue
		}
		src, err := pdfdoc.Open(path, cfg.MaxFileSize)
		if err != nil {
			return fmt.Errorf("input PDF: %w", err)
		}
		result, err := service.ExtractWithModel(ctx, src, extractor)
		src.Close()
		if err != nil {
			return fmt.Errorf("model scan: %w", err)
		}
		log.Printf("Extracted %d questions from %s (%d pages skipped)",
			len(result.Records), path, result.PagesFailed)
		records = append(records, result.Records...)
	}

	if err := csvdb.WriteFile(cfg.OutputCSV, records); err != nil {
		return fmt.Errorf("writing database: %w", err)
	}
	log.Printf("Database saved to: %s (%d questions)", cfg.OutputCSV, len(records))
	return nil
}

// runRefine applies manual answer corrections to the question texts.
func runRefine(cfg *config.Config) error {
	count, err := csvdb.RefineFile(cfg.ManualCSV, cfg.FinalCSV)
	if err != nil {
		return err
	}
	log.Printf("Refined %d questions", count)
	log.Printf("Final database saved to: %s", cfg.FinalCSV)
	return nil
}

// runServe hosts the MCP stdio server with signal handling for
// graceful shutdown.
func runServe(cfg *config.Config) error {
	service := extract.NewService(cfg.Watermarks)
	server, err := mcp.NewServer(cfg, service)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- server.Run(ctx)
	}()

	select {
	case sig := <-signalCh:
		log.Printf("Received signal: %s", sig)
		cancel()
		return <-serverErrCh
	case err := <-serverErrCh:
		return err
	}
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "-version" || arg == "--version" || arg == "-v" {
			printVersion()
			return
		}
	}

	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg)

	// Set version if it was provided during build
	if version != "dev" {
		cfg.Version = version
	}

	if cfg.IsDebug() {
		log.Printf("Starting with configuration: %s", cfg.String())
	}

	switch cfg.Mode {
	case config.ModeExtract:
		err = runExtract(cfg)
	case config.ModeLLM:
		err = runLLM(context.Background(), cfg)
	case config.ModeRefine:
		err = runRefine(cfg)
	case config.ModeServe:
		err = runServe(cfg)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("JLPT Extract\n")
	fmt.Printf("Version: %s\n", version)
	fmt.Printf("Build Time: %s\n", buildTime)
	fmt.Printf("Git Commit: %s\n", gitCommit)
	fmt.Printf("Built with: %s\n", runtime.Version())
}
