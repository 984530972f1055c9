// Package handlers implements the HTTP handlers for the OpenID Connect
// surface of the identity provider.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
)

// writeError renders an error as the OAuth2 error envelope, using the
// status carried by the domain error. Rate limited callers also get a
// Retry-After hint.
// writeError 将错误渲染为 OAuth2 错误包体，使用领域错误携带的状态码。
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	if authErr, ok := errors.AsAuthError(err); ok {
		status = authErr.HTTPStatus()
		if authErr.Code() == constants.ErrCodeRateLimited {
			c.Header("Retry-After", strconv.Itoa(int(constants.RateLimitWindow.Seconds())))
		}
	}

	c.AbortWithStatusJSON(status, errors.ToGenericErrorResponse(err))
}

// sessionCode reads the authorization session handle from the query
// string, falling back to the cookie set by the auth endpoint.
func sessionCode(c *gin.Context) string {
	if code := c.Query("session_code"); code != "" {
		return code
	}
	code, _ := c.Cookie("session_code")
	return code
}
