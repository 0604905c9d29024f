package middleware

import (
	"firedesk/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorHandler recovers from panics and converts deferred gin errors
// into the standard response envelope.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestID := c.GetString("request_id")
				logrus.WithFields(logrus.Fields{
					"request_id": requestID,
					"path":       c.Request.URL.Path,
					"panic":      err,
				}).Error("Panic recovered")

				if !c.Writer.Written() {
					utils.ErrorResponse(c, http.StatusInternalServerError, utils.ErrCodeInternal, "Internal error")
				}
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		logrus.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.Request.URL.Path,
		}).Errorf("Unhandled request error: %v", err)

		utils.ServiceErrorResponse(c, err)
	}
}
