package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotecard/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotecard/internal/platform/logging"
)

// RespondWithError maps err to a JSON error response.
func RespondWithError(c *gin.Context, err error) {
	status, errResp := dto.MapDomainError(err)
	errResp.WithTraceID(dto.TraceID(c.Request.Context()))

	if status == http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("internal error",
			"error", err.Error(),
			"trace_id", errResp.TraceID,
		)
	}

	c.JSON(status, errResp)
}

// RespondWithErrorCode writes an adapter-level error that did not come
// from the domain.
func RespondWithErrorCode(c *gin.Context, code, message string) {
	errResp := dto.NewErrorResponse(code, message).WithTraceID(dto.TraceID(c.Request.Context()))
	c.JSON(dto.HTTPStatusFromCode(code), errResp)
}

// RespondWithBindError writes a 400 for a failed BindQueryAndValidate.
func RespondWithBindError(c *gin.Context, err error) {
	if dto.IsValidationError(err) {
		errResp := dto.NewErrorResponseWithDetails(
			dto.ErrorCodeValidation,
			"request validation failed",
			dto.ValidationErrors(err),
		).WithTraceID(dto.TraceID(c.Request.Context()))
		c.JSON(http.StatusBadRequest, errResp)

		return
	}

	RespondWithErrorCode(c, dto.ErrorCodeBadRequest, err.Error())
}

// AbortWithErrorCode aborts the chain with a JSON error.
func AbortWithErrorCode(c *gin.Context, code, message string) {
	errResp := dto.NewErrorResponse(code, message).WithTraceID(dto.TraceID(c.Request.Context()))
	c.AbortWithStatusJSON(dto.HTTPStatusFromCode(code), errResp)
}
