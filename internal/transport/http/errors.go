package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/iamasit07/connect4-replay/internal/domain"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

var statusByCode = map[string]int{
	domain.CodeColumnOutOfRange: http.StatusBadRequest,
	domain.CodeColumnFull:       http.StatusBadRequest,
	domain.CodeGameFinished:     http.StatusConflict,
	domain.CodeSessionBusy:      http.StatusConflict,
	domain.CodeSessionNotFound:  http.StatusNotFound,
	domain.CodeReplayNotFound:   http.StatusNotFound,
	domain.CodeInvalidRequest:   http.StatusBadRequest,
}

// respondError writes err with the status and code for its kind. Internal
// errors are logged and their text is not exposed.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	code := domain.ErrorCode(err)
	status, ok := statusByCode[code]
	if !ok {
		logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error: "internal server error",
			Code:  domain.CodeInternal,
		})
		return
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: err.Error(),
		Code:  code,
	})
}

// respondBindError reports a request that failed binding or validation. A
// column outside the board is reported as an illegal move, not a malformed
// request.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Tag() == columnTag {
				c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
					Error: domain.ErrColumnOutOfRange.Error(),
					Code:  domain.CodeColumnOutOfRange,
				})
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Code:    domain.CodeInvalidRequest,
			Details: describeValidation(verrs),
		})
		return
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error:   "invalid request body",
		Code:    domain.CodeInvalidRequest,
		Details: err.Error(),
	})
}
