package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rbenna1/ferriskey-sub000/internal/application/dto"
	"github.com/rbenna1/ferriskey-sub000/internal/application/service"
	"github.com/rbenna1/ferriskey-sub000/internal/domain/models"
	"github.com/rbenna1/ferriskey-sub000/internal/interfaces/http/middleware"
	"github.com/rbenna1/ferriskey-sub000/pkg/errors"
)

// OtpHandler serves OTP enrollment and the login-time OTP challenge.
// OtpHandler 提供 OTP 注册与登录时的 OTP 挑战。
type OtpHandler struct {
	authService service.AuthAppService
}

// NewOtpHandler creates a new OtpHandler.
func NewOtpHandler(authService service.AuthAppService) *OtpHandler {
	return &OtpHandler{authService: authService}
}

// Challenge handles POST /realms/:realm_name/login-actions/otp-challenge.
// The caller presents the temporary token from the password step as a
// bearer credential.
func (h *OtpHandler) Challenge(c *gin.Context) {
	var req dto.OtpChallengeRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, errors.ErrInvalidRequest("malformed otp challenge").WithCause(err))
		return
	}

	token := bearerToken(c)
	if token == "" {
		writeError(c, errors.ErrInvalidToken("missing bearer token"))
		return
	}

	resp, err := h.authService.ChallengeOtp(c.Request.Context(), c.Param("realm_name"), sessionCode(c), token, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Setup handles POST /realms/:realm_name/account/otp/setup. The route runs
// behind the identity middleware, for human users only.
func (h *OtpHandler) Setup(c *gin.Context) {
	user, err := requestUser(c)
	if err != nil {
		writeError(c, err)
		return
	}

	resp, err := h.authService.SetupOtp(c.Request.Context(), c.Param("realm_name"), user)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Verify handles POST /realms/:realm_name/account/otp/verify.
func (h *OtpHandler) Verify(c *gin.Context) {
	user, err := requestUser(c)
	if err != nil {
		writeError(c, err)
		return
	}

	var req dto.OtpVerifyRequest
	if err := c.ShouldBind(&req); err != nil {
		writeError(c, errors.ErrInvalidRequest("malformed otp verification").WithCause(err))
		return
	}

	if err := h.authService.VerifyOtp(c.Request.Context(), c.Param("realm_name"), user, &req); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// requestUser resolves the human user behind the request. Service-account
// tokens cannot enroll OTP factors.
func requestUser(c *gin.Context) (*models.User, error) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		return nil, errors.ErrInvalidToken("missing identity")
	}
	if !identity.IsUser() {
		return nil, errors.ErrForbidden("service accounts cannot enroll otp credentials")
	}
	return identity.User(), nil
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
