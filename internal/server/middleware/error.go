package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/strata-ai/strata/internal/core/domain"
	"go.uber.org/zap"
)

// ErrorHandler renders errors attached by handlers: RFC 9457 problems keep
// their full shape, service errors collapse to {error}, everything else
// becomes an opaque 500.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var problem *domain.Problem
		if errors.As(err, &problem) {
			if problem.Log != nil {
				logger.Error("Request problem",
					zap.Int("status", problem.Status),
					zap.Error(problem.Log),
				)
			}
			// RFC 9457 dictates the json is at the root
			c.JSON(problem.Status, problem)
			c.Abort()
			return
		}

		var svcErr *domain.Error
		if errors.As(err, &svcErr) {
			if svcErr.Log != nil {
				logger.Error("Request failed",
					zap.Int("status", svcErr.Code),
					zap.Error(svcErr.Log),
				)
			}
			c.JSON(svcErr.Code, gin.H{"error": svcErr.Message})
			c.Abort()
			return
		}

		logger.Error("Unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An unexpected error occurred."})
		c.Abort()
	}
}
