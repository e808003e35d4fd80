package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/Aashish23092/candidate-intake/dto"
	"github.com/Aashish23092/candidate-intake/service"
	"github.com/Aashish23092/candidate-intake/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// DocumentHandler handles the document slots of a candidate form
type DocumentHandler struct {
	formService *service.FormService
	maxFileSize int64
}

// NewDocumentHandler creates a new DocumentHandler instance
func NewDocumentHandler(formService *service.FormService, maxFileSize int64) *DocumentHandler {
	return &DocumentHandler{
		formService: formService,
		maxFileSize: maxFileSize,
	}
}

// AddDocument handles POST /candidate-forms/:id/documents
func (h *DocumentHandler) AddDocument(c *gin.Context) {
	var uri dto.FormURI
	if err := c.ShouldBindUri(&uri); err != nil {
		sendBindingError(c, err)
		return
	}

	form, err := h.formService.AddDocument(uri.ID)
	if err != nil {
		sendServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, form)
}

// RemoveDocument handles DELETE /candidate-forms/:id/documents/:index
func (h *DocumentHandler) RemoveDocument(c *gin.Context) {
	var uri dto.DocumentURI
	if err := c.ShouldBindUri(&uri); err != nil {
		sendBindingError(c, err)
		return
	}

	form, err := h.formService.RemoveDocument(uri.ID, uri.Index)
	if err != nil {
		sendServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

// SelectFile handles PUT /candidate-forms/:id/documents/:index/file.
// The file is read from the multipart field "file".
func (h *DocumentHandler) SelectFile(c *gin.Context) {
	var uri dto.DocumentURI
	if err := c.ShouldBindUri(&uri); err != nil {
		sendBindingError(c, err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		sendError(c, http.StatusBadRequest, "FILE_MISSING", "A file is required in field 'file'", err)
		return
	}

	utils.Logger.WithFields(logrus.Fields{
		"form_id":   uri.ID,
		"index":     uri.Index,
		"file_name": header.Filename,
		"size":      header.Size,
	}).Debug("Received document file")

	reader, err := header.Open()
	if err != nil {
		sendError(c, http.StatusInternalServerError, "FILE_UNREADABLE", "Failed to open uploaded file", err)
		return
	}
	defer reader.Close()

	// one byte past the limit keeps an oversized file detectable
	var src io.Reader = reader
	if h.maxFileSize > 0 {
		src = io.LimitReader(reader, h.maxFileSize+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "FILE_UNREADABLE", "Failed to read file data", err)
		return
	}

	form, err := h.formService.SelectFile(uri.ID, uri.Index, dto.PickedFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	switch {
	case errors.Is(err, service.ErrInvalidFileType), errors.Is(err, service.ErrFileTooLarge):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:   "FILE_REJECTED",
			Message: err.Error(),
			Code:    http.StatusUnprocessableEntity,
			Fields:  map[string]string{service.DocumentKey(uri.Index): form.State.Errors[service.DocumentKey(uri.Index)]},
		})
	case err != nil:
		sendServiceError(c, err)
	default:
		c.JSON(http.StatusOK, form)
	}
}
