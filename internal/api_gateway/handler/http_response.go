package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rewear/swap-platform/internal/api_gateway/middleware"
	"github.com/rewear/swap-platform/internal/domain/shared"
	applog "github.com/rewear/swap-platform/internal/logger"
)

// Response represents a standard API response
type Response struct {
	Data          interface{} `json:"data,omitempty"`
	Error         *ErrorInfo  `json:"error,omitempty"`
	CorrelationID string      `json:"correlation_id,omitempty"`
	Meta          *MetaInfo   `json:"meta,omitempty"`
}

// ErrorInfo represents error information in a response
type ErrorInfo struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// MetaInfo represents offset pagination metadata in a response
type MetaInfo struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// NewResponse creates a new response with data
func NewResponse(data interface{}) *Response {
	return &Response{
		Data: data,
	}
}

// NewErrorResponse creates a new error response
func NewErrorResponse(code, message string) *Response {
	return &Response{
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

// NewPaginatedResponse creates a new paginated response
func NewPaginatedResponse(data interface{}, total int64, limit, offset int) *Response {
	return &Response{
		Data: data,
		Meta: &MetaInfo{
			Total:   total,
			Limit:   limit,
			Offset:  offset,
			HasMore: int64(offset+limit) < total,
		},
	}
}

// RespondWithData sends a JSON response with data
func RespondWithData(c *gin.Context, statusCode int, data interface{}) {
	response := NewResponse(data)
	response.CorrelationID = middleware.GetCorrelationID(c)
	c.JSON(statusCode, response)
}

// RespondWithError sends a JSON response with an error
func RespondWithError(c *gin.Context, statusCode int, code, message string) {
	response := NewErrorResponse(code, message)
	response.CorrelationID = middleware.GetCorrelationID(c)
	c.JSON(statusCode, response)
}

// RespondWithPaginatedData sends a JSON response with paginated data
func RespondWithPaginatedData(c *gin.Context, statusCode int, data interface{}, total int64, limit, offset int) {
	response := NewPaginatedResponse(data, total, limit, offset)
	response.CorrelationID = middleware.GetCorrelationID(c)
	c.JSON(statusCode, response)
}

// RespondOK sends a 200 OK response with data
func RespondOK(c *gin.Context, data interface{}) {
	RespondWithData(c, http.StatusOK, data)
}

// RespondCreated sends a 201 Created response with data
func RespondCreated(c *gin.Context, data interface{}) {
	RespondWithData(c, http.StatusCreated, data)
}

// RespondNoContent sends a 204 No Content response
func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// RespondBadRequest sends a 400 Bad Request response with an error
func RespondBadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// RespondPage sends a 200 OK response with a page of data
func RespondPage(c *gin.Context, data interface{}, total int64, limit, offset int) {
	RespondWithPaginatedData(c, http.StatusOK, data, total, limit, offset)
}

// RespondUnauthorized sends a 401 Unauthorized response with an error
func RespondUnauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Unauthorized"
	}
	RespondWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", message)
}

// RespondInternalError sends a 500 Internal Server Error response with an error
func RespondInternalError(c *gin.Context) {
	RespondWithError(c, http.StatusInternalServerError, string(shared.KindInternal), "An internal server error occurred")
}

// StatusForKind maps a domain error kind to its HTTP status
func StatusForKind(kind shared.ErrorKind) int {
	switch kind {
	case shared.KindNotFound:
		return http.StatusNotFound
	case shared.KindForbidden:
		return http.StatusForbidden
	case shared.KindInvalidState, shared.KindInsufficientFunds, shared.KindInvalidInput:
		return http.StatusBadRequest
	case shared.KindConflict:
		return http.StatusConflict
	case shared.KindUnauthorized:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// RespondWithDomainError classifies err and sends the matching status.
// Internal errors are logged here; their details never reach the client.
func RespondWithDomainError(c *gin.Context, logger *slog.Logger, err error) {
	kind := shared.KindOf(err)
	if kind == shared.KindInternal {
		applog.WithContext(c.Request.Context(), logger).Error("Request failed",
			"method", c.Request.Method,
			"route", c.FullPath(),
			"error", err,
		)
		RespondInternalError(c)
		return
	}

	response := NewErrorResponse(string(kind), shared.MessageOf(err))
	var funds shared.InsufficientFundsError
	if errors.As(err, &funds) {
		response.Error.Details = map[string]any{
			"required":  funds.Required,
			"available": funds.Available,
		}
	}
	response.CorrelationID = middleware.GetCorrelationID(c)
	c.JSON(StatusForKind(kind), response)
}
