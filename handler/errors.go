package handler

import (
	"errors"
	"net/http"

	"github.com/Aashish23092/candidate-intake/dto"
	"github.com/Aashish23092/candidate-intake/service"
	"github.com/Aashish23092/candidate-intake/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// sendError sends a structured error response
func sendError(c *gin.Context, statusCode int, code, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		utils.Logger.WithError(err).Warnf("Error: %s", message)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   code,
		Message: errorMsg,
		Code:    statusCode,
	})
}

// sendServiceError maps a service error to its status code
func sendServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrFormNotFound):
		sendError(c, http.StatusNotFound, "FORM_NOT_FOUND", "Candidate form not found", err)
	case errors.Is(err, service.ErrDocumentIndex):
		sendError(c, http.StatusNotFound, "DOCUMENT_NOT_FOUND", "Document slot not found", err)
	case errors.Is(err, service.ErrLastDocument):
		sendError(c, http.StatusConflict, "LAST_DOCUMENT", "At least one document slot must remain", err)
	case errors.Is(err, service.ErrSubmitInProgress):
		sendError(c, http.StatusConflict, "SUBMIT_IN_PROGRESS", "Submission already in progress", err)
	default:
		sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error", err)
	}
}

// sendBindingError reports request binding failures field by field
func sendBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		sendError(c, http.StatusBadRequest, "INVALID_REQUEST", "Malformed request", err)
		return
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = bindingMessage(fe)
	}
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error:   "INVALID_REQUEST",
		Message: "validate failed",
		Code:    http.StatusBadRequest,
		Fields:  fields,
	})
}

func bindingMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "uuid":
		return "Must be a UUID"
	case "max":
		return "Too long"
	case "gte":
		return "Value too small"
	default:
		return "Invalid value"
	}
}
