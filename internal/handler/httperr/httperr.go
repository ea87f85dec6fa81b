// Package httperr is the one error envelope every API handler writes.
// Redemption and auth failures deliberately reuse the same shape and
// message granularity so a caller cannot probe which gate rejected them.
package httperr

import (
	"github.com/gin-gonic/gin"
)

// Response is the `{"error":{"message":...}}` body the API contract
// promises for every non-2xx status.
type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// AbortWithError writes the envelope and records the underlying err on the
// gin context for the logging middleware. err carries the real cause; msg
// is the only text the caller sees.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
