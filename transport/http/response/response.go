package response

import (
	"net/http"

	"tourbook/shared/constant"
	"tourbook/shared/failure"
	"tourbook/shared/logger"

	"github.com/goccy/go-json"
)

// Data is the success envelope carrying a payload.
type Data[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// Error is the failure envelope.
type Error struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Message is the success envelope without a payload.
type Message struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// WithMessage sends a response with a simple text message
func WithMessage(writer http.ResponseWriter, code int, message string) {
	response(writer, code, Message{Success: true, Message: message})
}

// WithJSON sends a response containing a JSON object
func WithJSON(writer http.ResponseWriter, code int, jsonPayload any) {
	response(writer, code, Data[any]{Success: true, Data: jsonPayload})
}

// WithData sends a payload together with a message. A nil payload is written as data:null.
func WithData(writer http.ResponseWriter, code int, jsonPayload any, message string) {
	response(writer, code, Data[any]{Success: true, Data: jsonPayload, Message: message})
}

// WithError sends a response with an error message. Errors that are not a
// failure.Failure are logged and answered with a generic message.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)

	if !failure.IsFailure(err) {
		logger.ErrorWithStack(err)

		response(writer, code, Error{Error: constant.ResponseErrorInternal})

		return
	}

	response(writer, code, Error{Error: err.Error()})
}

// WithRaw sends the payload without the envelope, for callers that expect their own shape.
func WithRaw(writer http.ResponseWriter, code int, payload any) {
	response(writer, code, payload)
}

// WithRequestLimitExceeded sends a default response for when the request limit is exceeded
func WithRequestLimitExceeded(writer http.ResponseWriter) {
	response(writer, http.StatusTooManyRequests, Error{Error: constant.ResponseErrorRequestLimitExceeded})
}

// WithPreparingShutdown sends a default response for when the server is preparing to shut down
func WithPreparingShutdown(writer http.ResponseWriter) {
	response(writer, http.StatusServiceUnavailable, Error{Error: constant.ResponseErrorPrepareShutdown})
}

// WithUnhealthy sends a default response for when the server is unhealthy
func WithUnhealthy(writer http.ResponseWriter) {
	response(writer, http.StatusServiceUnavailable, Error{Error: constant.ResponseErrorUnhealthy})
}

func response(writer http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)
	_, err = writer.Write(response)

	if err != nil {
		logger.ErrorWithStack(err)
	}
}
