package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rbenna1/ferriskey-sub000/internal/application/service"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
)

const identityContextKey = string(constants.ContextKeyIdentity)

// Identity authenticates the bearer token against the realm named in the
// route and stores the resolved caller for downstream handlers. Requests
// without a valid access token are rejected.
// Identity 根据路由中的 Realm 验证 Bearer 令牌，并为后续处理器存储已解析的
// 调用方身份。没有有效访问令牌的请求会被拒绝。
func Identity(tokenService service.TokenAppService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abortUnauthorized(c, errors.ErrInvalidToken("missing bearer token"))
			return
		}

		identity, err := tokenService.ResolveIdentity(c.Request.Context(), c.Param("realm_name"), parts[1])
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		c.Set(identityContextKey, identity)
		c.Next()
	}
}

// IdentityFromContext returns the caller identity stored by the Identity
// middleware.
func IdentityFromContext(c *gin.Context) (*models.Identity, bool) {
	value, exists := c.Get(identityContextKey)
	if !exists {
		return nil, false
	}
	identity, ok := value.(*models.Identity)
	return identity, ok
}

func abortUnauthorized(c *gin.Context, err error) {
	status := http.StatusUnauthorized
	if authErr, ok := errors.AsAuthError(err); ok && authErr.HTTPStatus() != http.StatusInternalServerError {
		status = authErr.HTTPStatus()
	}
	c.Header("WWW-Authenticate", `Bearer realm="`+c.Param("realm_name")+`"`)
	c.AbortWithStatusJSON(status, errors.ToGenericErrorResponse(err))
}
