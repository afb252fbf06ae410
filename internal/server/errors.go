package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	authdomain "github.com/smallbiznis/trackiy/internal/auth/domain"
	boarddomain "github.com/smallbiznis/trackiy/internal/board/domain"
	commentdomain "github.com/smallbiznis/trackiy/internal/comment/domain"
	invitationdomain "github.com/smallbiznis/trackiy/internal/invitation/domain"
	"github.com/smallbiznis/trackiy/internal/presence"
	projectdomain "github.com/smallbiznis/trackiy/internal/project/domain"
	ticketdomain "github.com/smallbiznis/trackiy/internal/ticket/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code, err),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidSession),
		errors.Is(err, authdomain.ErrSessionExpired),
		errors.Is(err, authdomain.ErrSessionRevoked),
		errors.Is(err, authdomain.ErrSessionNotFound):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, projectdomain.ErrNotMember),
		errors.Is(err, commentdomain.ErrNotAuthor):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, authdomain.ErrUserExists),
		errors.Is(err, projectdomain.ErrDuplicateKey),
		errors.Is(err, boarddomain.ErrColumnNotEmpty),
		errors.Is(err, boarddomain.ErrIntakeColumn):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: conflictMessage(err),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrInternal):
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, authdomain.ErrInvalidEmail),
		errors.Is(err, authdomain.ErrWeakPassword),
		errors.Is(err, projectdomain.ErrInvalidName),
		errors.Is(err, projectdomain.ErrInvalidKey),
		errors.Is(err, projectdomain.ErrInvalidType),
		errors.Is(err, boarddomain.ErrInvalidName),
		errors.Is(err, boarddomain.ErrInvalidColumn),
		errors.Is(err, ticketdomain.ErrInvalidTitle),
		errors.Is(err, ticketdomain.ErrInvalidPriority),
		errors.Is(err, commentdomain.ErrInvalidContent),
		errors.Is(err, invitationdomain.ErrInvalidEmail),
		errors.Is(err, presence.ErrInvalidField):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, projectdomain.ErrProjectNotFound),
		errors.Is(err, boarddomain.ErrColumnNotFound),
		errors.Is(err, boarddomain.ErrStatusNotFound),
		errors.Is(err, ticketdomain.ErrTicketNotFound),
		errors.Is(err, commentdomain.ErrCommentNotFound),
		errors.Is(err, invitationdomain.ErrInvitationNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, authdomain.ErrInvalidEmail):
		return "invalid_email"
	case errors.Is(err, authdomain.ErrWeakPassword):
		return "invalid_password"
	case errors.Is(err, projectdomain.ErrInvalidName), errors.Is(err, boarddomain.ErrInvalidName):
		return "invalid_name"
	case errors.Is(err, projectdomain.ErrInvalidKey):
		return "invalid_key"
	case errors.Is(err, projectdomain.ErrInvalidType):
		return "invalid_type"
	case errors.Is(err, boarddomain.ErrInvalidColumn):
		return "invalid_column"
	case errors.Is(err, ticketdomain.ErrInvalidTitle):
		return "invalid_title"
	case errors.Is(err, ticketdomain.ErrInvalidPriority):
		return "invalid_priority"
	case errors.Is(err, commentdomain.ErrInvalidContent):
		return "invalid_content"
	case errors.Is(err, invitationdomain.ErrInvalidEmail):
		return "invalid_email"
	case errors.Is(err, presence.ErrInvalidField):
		return "invalid_field"
	default:
		return "invalid_request"
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string, err error) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	default:
		return err.Error()
	}
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, projectdomain.ErrDuplicateKey):
		return "project key already exists"
	case errors.Is(err, authdomain.ErrUserExists):
		return "user already exists"
	case errors.Is(err, boarddomain.ErrColumnNotEmpty):
		return "column still has tickets"
	case errors.Is(err, boarddomain.ErrIntakeColumn):
		return "intake column cannot be deleted"
	default:
		return "conflict"
	}
}

// classifyErrorForLog feeds the request logger with a coarse error
// type and code without rendering a response body.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	switch {
	case status >= 500:
		return "server_error", code
	case status >= 400:
		return "client_error", code
	default:
		return "", ""
	}
}
