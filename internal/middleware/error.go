package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/z3by/arabtree-sub000/internal/domain"
)

type ErrorResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
}

// ErrorHandler translates domain errors into HTTP responses so handlers can
// return service errors as-is.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	errorCode := "INTERNAL_ERROR"
	var detail interface{}

	var invalidInput *domain.InvalidInputError
	var invalidHierarchy *domain.InvalidHierarchyError
	var invalidTransition *domain.InvalidTransitionError
	var hasChildren *domain.HasActiveChildrenError
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &invalidInput):
		code = fiber.StatusBadRequest
		errorCode = "INVALID_INPUT"
		message = invalidInput.Error()

	case errors.As(err, &invalidHierarchy):
		code = fiber.StatusUnprocessableEntity
		errorCode = "HIERARCHY_VIOLATION"
		message = invalidHierarchy.Error()
		detail = fiber.Map{
			"parent_type": invalidHierarchy.ParentType,
			"child_type":  invalidHierarchy.ChildType,
			"allowed":     invalidHierarchy.Allowed,
		}

	case errors.As(err, &invalidTransition):
		code = fiber.StatusConflict
		errorCode = "INVALID_TRANSITION"
		message = invalidTransition.Error()
		detail = fiber.Map{
			"from":      invalidTransition.From,
			"requested": invalidTransition.Requested,
			"allowed":   invalidTransition.Allowed,
		}

	case errors.As(err, &hasChildren):
		code = fiber.StatusConflict
		errorCode = "HAS_ACTIVE_CHILDREN"
		message = hasChildren.Error()
		detail = fiber.Map{
			"node_id":         hasChildren.NodeID,
			"active_children": hasChildren.ActiveChildren,
		}

	case errors.Is(err, domain.ErrNodeNotFound),
		errors.Is(err, domain.ErrContributionNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrMediaNotFound),
		errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrDnaMarkerNotFound):
		code = fiber.StatusNotFound
		errorCode = "NOT_FOUND"
		message = err.Error()

	case errors.Is(err, domain.ErrForbidden):
		code = fiber.StatusForbidden
		errorCode = "FORBIDDEN"
		message = err.Error()

	case errors.Is(err, domain.ErrConflict):
		code = fiber.StatusConflict
		errorCode = "CONFLICT"
		message = err.Error()

	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
		switch code {
		case fiber.StatusBadRequest:
			errorCode = "BAD_REQUEST"
		case fiber.StatusUnauthorized:
			errorCode = "UNAUTHORIZED"
		case fiber.StatusForbidden:
			errorCode = "FORBIDDEN"
		case fiber.StatusNotFound:
			errorCode = "NOT_FOUND"
		case fiber.StatusConflict:
			errorCode = "CONFLICT"
		case fiber.StatusUnprocessableEntity:
			errorCode = "VALIDATION_ERROR"
		}
	}

	traceID := uuid.New().String()[:8]

	return c.Status(code).JSON(ErrorResponse{
		Code:    errorCode,
		Message: message,
		Detail:  detail,
		TraceID: traceID,
	})
}

func NewError(code int, message string) *fiber.Error {
	return fiber.NewError(code, message)
}

func BadRequest(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

func Unauthorized(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusUnauthorized, message)
}

func Forbidden(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusForbidden, message)
}

func NotFound(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusNotFound, message)
}

func Conflict(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusConflict, message)
}
