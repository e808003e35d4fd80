package dto

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Code    int               `json:"code"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// SubmitOutcome tags how a submission attempt ended
type SubmitOutcome string

const (
	OutcomeSuccess          SubmitOutcome = "success"
	OutcomeValidationFailed SubmitOutcome = "validation_failed"
	OutcomeServerRejected   SubmitOutcome = "server_rejected"
	OutcomeTransportError   SubmitOutcome = "transport_error"
)

// SubmitResult is returned by every submission attempt
type SubmitResult struct {
	Outcome    SubmitOutcome `json:"outcome"`
	RedirectTo string        `json:"redirect_to,omitempty"`
	Message    string        `json:"message,omitempty"`
	Errors     ErrorMap      `json:"errors,omitempty"`
}

// ValidateResponse is returned by POST /candidate-forms/:id/validate
type ValidateResponse struct {
	Valid  bool     `json:"valid"`
	Errors ErrorMap `json:"errors"`
}

// CandidateSubmitResponse is the candidate backend's reply
type CandidateSubmitResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
