package handler

import (
	"context"
	"net/http"

	"github.com/Aashish23092/candidate-intake/dto"
	"github.com/Aashish23092/candidate-intake/service"
	"github.com/gin-gonic/gin"
)

// FormHandler handles candidate form requests
type FormHandler struct {
	formService *service.FormService
}

// NewFormHandler creates a new FormHandler instance
func NewFormHandler(formService *service.FormService) *FormHandler {
	return &FormHandler{
		formService: formService,
	}
}

// CreateForm handles POST /candidate-forms
func (h *FormHandler) CreateForm(c *gin.Context) {
	c.JSON(http.StatusCreated, h.formService.CreateForm())
}

// GetForm handles GET /candidate-forms/:id
func (h *FormHandler) GetForm(c *gin.Context) {
	var uri dto.FormURI
	if err := c.ShouldBindUri(&uri); err != nil {
		sendBindingError(c, err)
		return
	}

	form, err := h.formService.GetForm(uri.ID)
	if err != nil {
		sendServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

// UpdateForm handles PATCH /candidate-forms/:id
func (h *FormHandler) UpdateForm(c *gin.Context) {
	var uri dto.FormURI
	if err := c.ShouldBindUri(&uri); err != nil {
		sendBindingError(c, err)
		return
	}

	var req dto.UpdateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindingError(c, err)
		return
	}

	form, err := h.formService.UpdateForm(uri.ID, &req)
	if err != nil {
		sendServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

// DeleteForm handles DELETE /candidate-forms/:id
func (h *FormHandler) DeleteForm(c *gin.Context) {
	var uri dto.FormURI
	if err := c.ShouldBindUri(&uri); err != nil {
		sendBindingError(c, err)
		return
	}

	if err := h.formService.DeleteForm(uri.ID); err != nil {
		sendServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Validate handles POST /candidate-forms/:id/validate
func (h *FormHandler) Validate(c *gin.Context) {
	var uri dto.FormURI
	if err := c.ShouldBindUri(&uri); err != nil {
		sendBindingError(c, err)
		return
	}

	res, err := h.formService.Validate(uri.ID)
	if err != nil {
		sendServiceError(c, err)
		return
	}

	status := http.StatusOK
	if !res.Valid {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, res)
}

// Submit handles POST /candidate-forms/:id/submit
func (h *FormHandler) Submit(c *gin.Context) {
	var uri dto.FormURI
	if err := c.ShouldBindUri(&uri); err != nil {
		sendBindingError(c, err)
		return
	}

	// detached from the caller; the backend client timeout still bounds it
	result, err := h.formService.Submit(context.WithoutCancel(c.Request.Context()), uri.ID)
	if err != nil {
		sendServiceError(c, err)
		return
	}

	c.JSON(submitStatus(result.Outcome), result)
}

func submitStatus(outcome dto.SubmitOutcome) int {
	switch outcome {
	case dto.OutcomeSuccess:
		return http.StatusOK
	case dto.OutcomeValidationFailed:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
