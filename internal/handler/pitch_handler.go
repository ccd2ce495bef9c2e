package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/scaninstead/api/internal/dto"
	"github.com/scaninstead/api/internal/repository"
	"github.com/scaninstead/api/internal/service"
)

// maxUploadBytes caps pitch attachments at 10MB.
const maxUploadBytes = 10 << 20

// Attachment types a visitor may leave with a pitch: images, business
// documents, demo videos, and voice recordings. Both the declared MIME type
// and the file extension must match.
var allowedUploadTypes = map[string]struct{}{
	"image/jpeg": {}, "image/jpg": {}, "image/png": {}, "image/gif": {},
	"image/webp": {}, "image/bmp": {},
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         {},
	"application/vnd.ms-powerpoint": {},
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": {},
	"text/plain": {}, "text/csv": {},
	"video/mp4": {}, "video/avi": {}, "video/mov": {}, "video/wmv": {},
	"audio/mp3": {}, "audio/wav": {}, "audio/m4a": {}, "audio/mpeg": {},
}

var allowedUploadExts = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {}, ".bmp": {},
	".pdf": {}, ".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {}, ".ppt": {}, ".pptx": {},
	".txt": {}, ".csv": {},
	".mp4": {}, ".avi": {}, ".mov": {}, ".wmv": {},
	".mp3": {}, ".wav": {}, ".m4a": {},
}

// PitchHandler handles visitor pitch submission and homeowner pitch history.
type PitchHandler struct {
	pitchService *service.PitchService
}

// NewPitchHandler wires a handler backed by the pitch service.
func NewPitchHandler(pitchService *service.PitchService) *PitchHandler {
	return &PitchHandler{pitchService: pitchService}
}

// Submit handles POST /api/pitch/:id requests from scanned QR codes.
func (h *PitchHandler) Submit(c echo.Context) error {
	homeownerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusNotFound, "homeowner not found")
	}

	form := dto.PitchForm{
		VisitorName:  c.FormValue("visitorName"),
		Company:      c.FormValue("company"),
		Offer:        c.FormValue("offer"),
		Reason:       c.FormValue("reason"),
		VisitorEmail: c.FormValue("visitorEmail"),
		VisitorPhone: c.FormValue("visitorPhone"),
		UserType:     c.FormValue("userType"),
		FillSeconds:  c.FormValue("fillSeconds"),
	}

	var upload *service.PitchUpload
	if fileHeader, err := c.FormFile("file"); err == nil {
		if fileHeader.Size > maxUploadBytes {
			return Error(c, http.StatusBadRequest, "file exceeds the 10MB limit")
		}
		contentType := fileHeader.Header.Get("Content-Type")
		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if _, ok := allowedUploadTypes[contentType]; !ok {
			return Error(c, http.StatusBadRequest, "unsupported file type, use an image or PDF")
		}
		if _, ok := allowedUploadExts[ext]; !ok {
			return Error(c, http.StatusBadRequest, "unsupported file extension, use an image or PDF")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return Error(c, http.StatusBadRequest, "unable to open uploaded file")
		}
		defer file.Close()

		upload = &service.PitchUpload{
			FileName:    fileHeader.Filename,
			ContentType: contentType,
			Body:        file,
		}
	}

	pitch, err := h.pitchService.Submit(c.Request().Context(), homeownerID, form, upload)
	if err != nil {
		var vErr *service.ValidationFailedError
		switch {
		case errors.Is(err, repository.ErrHomeownerNotFound):
			return Error(c, http.StatusNotFound, "homeowner not found")
		case errors.As(err, &vErr):
			return ValidationError(c, vErr.Violations)
		default:
			return Error(c, http.StatusInternalServerError, "failed to submit pitch")
		}
	}

	return c.JSON(http.StatusCreated, dto.PitchResponse{
		Success: true,
		Message: "pitch delivered to homeowner",
		Pitch:   pitch,
	})
}

// List handles GET /api/homeowner/:id/pitches requests.
func (h *PitchHandler) List(c echo.Context) error {
	homeownerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return Error(c, http.StatusNotFound, "homeowner not found")
	}

	pitches, total, err := h.pitchService.List(c.Request().Context(), homeownerID)
	if err != nil {
		if errors.Is(err, repository.ErrHomeownerNotFound) {
			return Error(c, http.StatusNotFound, "homeowner not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to load pitches")
	}

	return c.JSON(http.StatusOK, dto.PitchListResponse{
		Success: true,
		Total:   total,
		Pitches: pitches,
	})
}
