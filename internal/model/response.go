package model

// BasicResponse is the console's response envelope. It mirrors the upstream
// API convention the dashboard frontend already understands: error=false on
// success, error=true with a message otherwise.
type BasicResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// Success wraps data in a non-error envelope.
func Success(msg string, data any) BasicResponse {
	return BasicResponse{
		Error:   false,
		Message: msg,
		Data:    data,
	}
}

// Error returns an error envelope with the given message.
func Error(msg string) BasicResponse {
	return BasicResponse{
		Error:   true,
		Message: msg,
	}
}

// FieldErrors returns an error envelope carrying per-field validation
// messages for the new-entry form.
func FieldErrors(msg string, fields map[string]string) BasicResponse {
	return BasicResponse{
		Error:   true,
		Message: msg,
		Data:    map[string]any{"fields": fields},
	}
}
