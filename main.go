package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/JacobLanIsMe/markitdown-service/config"
	"github.com/JacobLanIsMe/markitdown-service/converter"
	"github.com/JacobLanIsMe/markitdown-service/enrich"
	"github.com/JacobLanIsMe/markitdown-service/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Server identity constants.
const (
	serverName    = "markitdown-service"
	serverVersion = "0.2.0"
)

// MCP tool parameter key constants — shared between schema definitions and
// argument extraction so a typo in one place is caught by the other.
const (
	argURI = "uri"
)

func main() {
	mcpMode := flag.Bool("mcp", false, "serve MCP over stdio instead of HTTP")
	flag.Parse()

	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	conv := converter.NewConverterWithConfig(cfg)
	pipeline := enrich.NewClient(logger)
	opts := describeOptions(cfg)

	if *mcpMode {
		runMCP(conv, pipeline, opts)
		return
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	server.NewHandler(conv, pipeline, opts, logger).RegisterRoutes(e)

	logger.Info("listening", "addr", cfg.ListenAddr, "enrichment", opts.EndpointURL != "")
	if err := e.Start(cfg.ListenAddr); err != nil {
		log.Fatalf("server error: %v\n", err)
	}
}

// describeOptions lifts the description-service config into the immutable
// per-invocation options the pipeline takes.
func describeOptions(cfg *config.Config) enrich.Options {
	return enrich.Options{
		EndpointURL: cfg.Describe.URL,
		Model:       cfg.Describe.Model,
		Prompt:      cfg.Describe.Prompt,
		MaxTokens:   cfg.Describe.MaxTokens,
		Temperature: cfg.Describe.Temperature,
		Seed:        cfg.Describe.Seed,
		Timeout:     cfg.Describe.Timeout,
		Workers:     cfg.Describe.Workers,
	}
}

// runMCP serves the conversion pipeline over MCP stdio.
func runMCP(conv *converter.Converter, pipeline *enrich.Client, opts enrich.Options) {
	s := mcpserver.NewMCPServer(serverName, serverVersion)
	registerTools(s, conv, pipeline, opts)

	if err := mcpserver.ServeStdio(s); err != nil {
		log.Fatalf("server error: %v\n", err)
	}
}

// registerTools binds MCP tool definitions to their handlers.
func registerTools(s *mcpserver.MCPServer, conv *converter.Converter, pipeline *enrich.Client, opts enrich.Options) {
	// convert_to_markdown — convert a file path or URL to Markdown
	s.AddTool(
		mcp.NewTool("convert_to_markdown",
			mcp.WithDescription("Convert a file or URL to Markdown, replacing embedded images with descriptions. "+
				"Pass an absolute file path (e.g. /path/to/doc.pdf) or an http:// / https:// URL. "+
				"Supported formats: HTML, HTM, CSV, JSON, XML, TXT, MD, DOCX, XLSX, XLS, PDF, PNG, JPG, JPEG."),
			mcp.WithString(argURI,
				mcp.Required(),
				mcp.Description("Absolute file path or http/https URL to convert"),
			),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			input, ok := req.Params.Arguments[argURI].(string)
			if !ok || input == "" {
				return mcp.NewToolResultError(argURI + " is required"), nil
			}
			var result string
			var err error
			if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
				result, err = conv.ConvertURI(ctx, input)
			} else {
				result, err = conv.ConvertFile(ctx, input)
			}
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if opts.EndpointURL != "" {
				result = pipeline.Enrich(ctx, result, opts)
			}
			return mcp.NewToolResultText(result), nil
		},
	)

	// get_conversion_info — list formats and configuration
	s.AddTool(
		mcp.NewTool("get_conversion_info",
			mcp.WithDescription("Return supported file formats, conversion approach, and active configuration."),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText(conv.GetConversionInfo(ctx)), nil
		},
	)
}
