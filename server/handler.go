package server

// handler.go — HTTP adapter around the converter and enrichment pipeline.
//
// The handler is a thin layer: it validates the upload, spools it to a
// scoped temp file, converts, enriches, and writes text/markdown back.
// Description-service failures never fail a request; they surface as
// placeholder text inside the document (or the document is returned
// unenriched if the whole pass falls over).

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/JacobLanIsMe/markitdown-service/converter"
	"github.com/JacobLanIsMe/markitdown-service/enrich"
	"github.com/labstack/echo/v4"
)

// uploadField is the multipart form field holding the document.
const uploadField = "file"

const markdownContentType = "text/markdown; charset=utf-8"

// Handler serves the document conversion endpoint.
type Handler struct {
	conv     *converter.Converter
	pipeline *enrich.Client
	opts     enrich.Options
	logger   *slog.Logger
}

// NewHandler wires the converter and enrichment pipeline into an HTTP
// handler. An empty opts.EndpointURL disables enrichment.
func NewHandler(conv *converter.Converter, pipeline *enrich.Client, opts enrich.Options, logger *slog.Logger) *Handler {
	return &Handler{
		conv:     conv,
		pipeline: pipeline,
		opts:     opts,
		logger:   logger,
	}
}

// RegisterRoutes binds the handler's endpoints.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/convert_file_to_markdown", h.ConvertFileToMarkdown)
	e.GET("/healthz", h.Health)
}

// ConvertFileToMarkdown accepts a single uploaded file, converts it to
// Markdown, enriches embedded images, and returns text/markdown.
func (h *Handler) ConvertFileToMarkdown(c echo.Context) error {
	fh, err := c.FormFile(uploadField)
	if err != nil {
		return badRequest("missing_file", "no file provided")
	}
	if fh.Filename == "" {
		return badRequest("missing_filename", "no filename provided")
	}

	tmpPath, err := h.spoolUpload(fh)
	if err != nil {
		h.logger.Error("failed to spool upload", "error", err, "filename", fh.Filename)
		return internalError("upload_failed", "failed to read upload")
	}
	defer func() { _ = os.Remove(tmpPath) }()

	ctx := c.Request().Context()

	markdown, err := h.conv.ConvertFile(ctx, tmpPath)
	if err != nil {
		if errors.Is(err, converter.ErrUnsupportedFormat) {
			return unsupportedMedia("unsupported_format", err.Error())
		}
		h.logger.Error("conversion failed", "error", err, "filename", fh.Filename)
		return internalError("conversion_failed", fmt.Sprintf("conversion failed: %v", err))
	}

	if h.opts.EndpointURL != "" {
		markdown = h.pipeline.Enrich(ctx, markdown, h.opts)
	}

	return c.Blob(http.StatusOK, markdownContentType, []byte(markdown))
}

// Health is a liveness probe.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// spoolUpload copies the multipart part to a temp file that keeps the
// original extension so the converter can detect the format. The caller
// removes the file on every exit path.
func (h *Handler) spoolUpload(fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer func() { _ = src.Close() }()

	tmp, err := os.CreateTemp("", "markitdown-upload-*"+filepath.Ext(fh.Filename))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, src); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return tmpPath, nil
}
