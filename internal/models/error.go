package models

// Error codes returned in the error envelope.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeConfig           = "CONFIG_ERROR"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeAI               = "AI_ERROR"
	CodeEmptyReply       = "EMPTY_REPLY"
	CodeImage            = "IMAGE_ERROR"
	CodeInternal         = "INTERNAL_ERROR"
)

// API Error response
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Details   string `json:"details,omitempty"`
	RequestID string `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}
