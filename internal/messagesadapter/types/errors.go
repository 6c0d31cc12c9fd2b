package types

// Error is the error detail inside an Anthropic-style error response.
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Error implements the error interface for Error, returning the error message.
func (e *Error) Error() string {
	return e.Message
}

// ErrorResponse wraps Error in the envelope Anthropic clients expect:
// {"type":"error","error":{...}}.
type ErrorResponse struct {
	Type string `json:"type"`
	Err  Error  `json:"error"`
}

// NewErrorResponse builds an ErrorResponse with the envelope type set.
func NewErrorResponse(errType, message string) *ErrorResponse {
	return &ErrorResponse{
		Type: "error",
		Err:  Error{Type: errType, Message: message},
	}
}

// Error implements the error interface for ErrorResponse, returning the
// underlying error message. This allows ErrorResponse to be used directly in
// error returns while keeping the full structure for marshaling.
func (e *ErrorResponse) Error() string {
	return e.Err.Message
}
