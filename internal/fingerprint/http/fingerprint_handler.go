// Package http provides HTTP handlers for fingerprinting documents and scanning leaked copies.
package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/PrLayt0n/FiLeaked/internal/errors"
	fingerprintDomain "github.com/PrLayt0n/FiLeaked/internal/fingerprint/domain"
	"github.com/PrLayt0n/FiLeaked/internal/fingerprint/http/dto"
	fingerprintUseCase "github.com/PrLayt0n/FiLeaked/internal/fingerprint/usecase"
	"github.com/PrLayt0n/FiLeaked/internal/httputil"
	customValidation "github.com/PrLayt0n/FiLeaked/internal/validation"
)

// multipartMemory is the part of a multipart form kept in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

// FingerprintHandler handles fingerprint embedding and scanning requests.
type FingerprintHandler struct {
	fingerprintUseCase fingerprintUseCase.FingerprintUseCase
	maxUploadBytes     int64
	logger             *slog.Logger
}

// NewFingerprintHandler creates a new fingerprint handler. maxUploadBytes caps
// the whole request body.
func NewFingerprintHandler(
	fingerprintUseCase fingerprintUseCase.FingerprintUseCase,
	maxUploadBytes int64,
	logger *slog.Logger,
) *FingerprintHandler {
	return &FingerprintHandler{
		fingerprintUseCase: fingerprintUseCase,
		maxUploadBytes:     maxUploadBytes,
		logger:             logger,
	}
}

// EmbedHandler fingerprints an uploaded document.
// POST /v1/fingerprints (multipart: file, copy_id, distribution_id, file_type).
// Returns 200 OK with the marked file as an attachment named "<name>_<copy_id><ext>".
func (h *FingerprintHandler) EmbedHandler(c *gin.Context) {
	if err := h.parseForm(c); err != nil {
		h.handleFormError(c, err)
		return
	}

	var req dto.EmbedRequest
	if err := c.ShouldBind(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	identifier, err := req.Identifier()
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	data, header, err := h.readFile(c)
	if err != nil {
		h.handleFormError(c, err)
		return
	}

	fileType, err := resolveFileType(req.FileType, header)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	out, err := h.fingerprintUseCase.Embed(c.Request.Context(), identifier, data, fileType)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	filename := fingerprintDomain.CopyFilename(header.Filename, identifier.Copy, fileType)
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	c.Data(http.StatusOK, fileType.ContentType(), out)
}

// ScanHandler looks for a fingerprint in an uploaded file.
// POST /v1/scan (multipart: file, file_type).
// Returns 200 OK with status "found" and the identifier, or status "not_found".
func (h *FingerprintHandler) ScanHandler(c *gin.Context) {
	if err := h.parseForm(c); err != nil {
		h.handleFormError(c, err)
		return
	}

	var req dto.ScanRequest
	if err := c.ShouldBind(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	data, header, err := h.readFile(c)
	if err != nil {
		h.handleFormError(c, err)
		return
	}

	fileType, err := resolveFileType(req.FileType, header)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	id, err := h.fingerprintUseCase.Identify(c.Request.Context(), data, fileType)
	if err != nil {
		if apperrors.Is(err, fingerprintDomain.ErrFingerprintNotFound) {
			c.JSON(http.StatusOK, dto.NotFoundResponse())
			return
		}
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info("fingerprint identified",
		slog.String("identifier", id.Identifier.String()),
		slog.String("channel", string(id.Channel)),
	)
	c.JSON(http.StatusOK, dto.MapIdentificationToResponse(id))
}

func (h *FingerprintHandler) parseForm(c *gin.Context) error {
	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
	return c.Request.ParseMultipartForm(multipartMemory)
}

func (h *FingerprintHandler) readFile(c *gin.Context) ([]byte, *multipart.FileHeader, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return nil, nil, fmt.Errorf("missing file part: %w", err)
	}

	f, err := header.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return data, header, nil
}

func (h *FingerprintHandler) handleFormError(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		httputil.HandleErrorGin(c, apperrors.Wrapf(apperrors.ErrTooLarge, "limit is %d bytes", maxErr.Limit), h.logger)
		return
	}
	httputil.HandleBadRequestGin(c, err, h.logger)
}

// resolveFileType prefers an explicit file_type field over the upload's name and part content type.
func resolveFileType(explicit string, header *multipart.FileHeader) (fingerprintDomain.FileType, error) {
	if explicit != "" {
		return fingerprintDomain.ParseFileType(explicit)
	}
	return fingerprintDomain.DetectFileType(header.Filename, header.Header.Get("Content-Type"))
}
