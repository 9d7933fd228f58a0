package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"travelapi/internal/apperror"
	"travelapi/internal/http/middleware"
	"travelapi/internal/repository"
	"travelapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return writeFieldErrors(c, status, code, message, nil)
}

// writeFieldErrors is writeError with a per-field message map.
func writeFieldErrors(c *fiber.Ctx, status int, code, message string, fields map[string]string) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
			Fields:  fields,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError maps service and validation errors onto HTTP responses.
// Structured errors keep their kind, message and fields; anything else is a
// bare 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	if e, ok := apperror.As(err); ok {
		return writeFieldErrors(c, statusForKind(e.Kind, err), string(e.Kind), e.Message, e.Fields)
	}
	switch {
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "record not found")
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "id is required")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

func statusForKind(kind apperror.Kind, err error) int {
	switch kind {
	case apperror.KindTypeMismatch:
		return fiber.StatusBadRequest
	case apperror.KindUnknownEntity:
		return fiber.StatusNotFound
	case apperror.KindUnexpectedFields, apperror.KindFieldValidationFailed, apperror.KindValidationFailure:
		return fiber.StatusUnprocessableEntity
	case apperror.KindDuplicateUser:
		return fiber.StatusConflict
	case apperror.KindPersistence:
		if errors.Is(err, repository.ErrDuplicate) {
			return fiber.StatusConflict
		}
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
