// Package mcp exposes the extraction pipeline as a Model Context
// Protocol stdio server, so agent clients can drive scans and refines
// against exam PDFs on the local filesystem.
package mcp

import (
	"context"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/yuukibui/jlpt-extract/internal/config"
	"github.com/yuukibui/jlpt-extract/internal/csvdb"
	"github.com/yuukibui/jlpt-extract/internal/extract"
	"github.com/yuukibui/jlpt-extract/internal/pdfdoc"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	service   *extract.Service
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, service *extract.Service) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		"jlpt-extract",
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		service:   service,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractQuestionsTool := mcp.NewTool(
		"extract_questions",
		mcp.WithDescription("Extract grammar and vocabulary questions from a JLPT answer-key PDF into a CSV database"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the grammar/vocabulary PDF"),
		),
		mcp.WithString("output",
			mcp.Description("CSV output path (uses the configured default if empty)"),
		),
	)
	s.mcpServer.AddTool(extractQuestionsTool, s.handleExtractQuestions)

	extractListeningTool := mcp.NewTool(
		"extract_listening",
		mcp.WithDescription("Extract listening questions from a JLPT listening-script PDF into a CSV database"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the listening-script PDF"),
		),
		mcp.WithString("output",
			mcp.Description("CSV output path (uses the configured default if empty)"),
		),
	)
	s.mcpServer.AddTool(extractListeningTool, s.handleExtractListening)

	refineDatabaseTool := mcp.NewTool(
		"refine_database",
		mcp.WithDescription("Reformat questions in a manually corrected CSV database against their corrected answers"),
		mcp.WithString("manual",
			mcp.Description("Manually corrected CSV path (uses the configured default if empty)"),
		),
		mcp.WithString("final",
			mcp.Description("Refined CSV output path (uses the configured default if empty)"),
		),
	)
	s.mcpServer.AddTool(refineDatabaseTool, s.handleRefineDatabase)

	validatePDFTool := mcp.NewTool(
		"validate_pdf",
		mcp.WithDescription("Validate that a file is a readable, structurally sound PDF"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validatePDFTool, s.handleValidatePDF)
}

// Handler functions
func (s *Server) handleExtractQuestions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	output := s.outputPath(request)

	src, err := pdfdoc.Open(path, s.config.MaxFileSize)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer src.Close()

	result, err := s.service.ExtractGrammarVocab(src)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := csvdb.WriteFile(output, result.Records); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Extracted %d questions from %s\n", len(result.Records), path)
	if result.PagesFailed > 0 {
		responseText += fmt.Sprintf("Pages skipped: %d\n", result.PagesFailed)
	}
	responseText += fmt.Sprintf("Database written to: %s", output)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleExtractListening(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	output := s.outputPath(request)

	src, err := pdfdoc.Open(path, s.config.MaxFileSize)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer src.Close()

	result, err := s.service.ExtractListening(src)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := csvdb.WriteFile(output, result.Records); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Extracted %d listening questions from %s\n", len(result.Records), path)
	if result.PagesFailed > 0 {
		responseText += fmt.Sprintf("Pages skipped: %d\n", result.PagesFailed)
	}
	responseText += fmt.Sprintf("Database written to: %s", output)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleRefineDatabase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	manual := s.config.ManualCSV
	if m, ok := args["manual"].(string); ok && m != "" {
		manual = m
	}
	final := s.config.FinalCSV
	if f, ok := args["final"].(string); ok && f != "" {
		final = f
	}

	count, err := csvdb.RefineFile(manual, final)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	responseText := fmt.Sprintf("Refined %d questions from %s\nDatabase written to: %s", count, manual, final)
	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleValidatePDF(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if err := pdfdoc.ValidateFile(path, s.config.MaxFileSize); err != nil {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", path, err)
	} else {
		responseText = fmt.Sprintf("PDF file %s is valid and readable", path)
	}
	return mcp.NewToolResultText(responseText), nil
}

// outputPath resolves the optional output argument against the
// configured default.
func (s *Server) outputPath(request mcp.CallToolRequest) string {
	if out, ok := request.GetArguments()["output"].(string); ok && out != "" {
		return out
	}
	return s.config.OutputCSV
}

// Run starts the MCP server on standard I/O and blocks until the
// client disconnects.
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting JLPT extract MCP server in stdio mode")
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
