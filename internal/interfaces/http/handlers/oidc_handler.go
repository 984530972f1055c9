package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rbenna1/ferriskey-sub000/internal/application/dto"
	"github.com/rbenna1/ferriskey-sub000/internal/application/service"
	"github.com/rbenna1/ferriskey-sub000/pkg/constants"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
)

// OidcHandler serves the realm-scoped OpenID Connect protocol endpoints.
// OidcHandler 提供以 Realm 为作用域的 OpenID Connect 协议端点。
type OidcHandler struct {
	authService  service.AuthAppService
	tokenService service.TokenAppService
}

// NewOidcHandler creates a new OidcHandler.
func NewOidcHandler(authService service.AuthAppService, tokenService service.TokenAppService) *OidcHandler {
	return &OidcHandler{
		authService:  authService,
		tokenService: tokenService,
	}
}

// Authorize handles GET /realms/:realm_name/protocol/openid-connect/auth.
// It opens an authorization session, sets the session_code cookie and
// redirects the browser to the login page that drives the credential flow.
func (h *OidcHandler) Authorize(c *gin.Context) {
	var req dto.AuthorizeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		writeError(c, errors.ErrInvalidRequest("malformed authorization request").WithCause(err))
		return
	}

	resp, err := h.authService.Authorize(c.Request.Context(), c.Param("realm_name"), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.SetCookie("session_code", resp.SessionCode, int(constants.AuthSessionTTL.Seconds()), "/", "", true, true)
	c.Redirect(http.StatusFound, resp.LoginURL)
}

// Authenticate handles POST /realms/:realm_name/login-actions/authenticate.
// The session opened by Authorize is carried in the session_code query
// parameter or cookie.
func (h *OidcHandler) Authenticate(c *gin.Context) {
	var req dto.AuthenticateRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, errors.ErrInvalidRequest("malformed authentication request").WithCause(err))
		return
	}

	resp, err := h.authService.Authenticate(c.Request.Context(), c.Param("realm_name"), sessionCode(c), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Token handles POST /realms/:realm_name/protocol/openid-connect/token.
func (h *OidcHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, errors.ErrInvalidRequest("malformed token request").WithCause(err))
		return
	}

	resp, err := h.tokenService.ExchangeToken(c.Request.Context(), c.Param("realm_name"), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Certs handles GET /realms/:realm_name/protocol/openid-connect/certs.
func (h *OidcHandler) Certs(c *gin.Context) {
	resp, err := h.tokenService.Certs(c.Request.Context(), c.Param("realm_name"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// WellKnown handles GET /realms/:realm_name/.well-known/openid-configuration.
func (h *OidcHandler) WellKnown(c *gin.Context) {
	resp, err := h.tokenService.OpenIDConfiguration(c.Request.Context(), c.Param("realm_name"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
