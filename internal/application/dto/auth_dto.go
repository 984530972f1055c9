package dto

// AuthorizeRequest 授权端点请求 DTO
// 对应授权端点的查询参数，开启一次授权码流程
type AuthorizeRequest struct {
	ClientID     string `form:"client_id" json:"client_id" validate:"required,min=1,max=255"`
	RedirectURI  string `form:"redirect_uri" json:"redirect_uri" validate:"required,uri"`
	ResponseType string `form:"response_type" json:"response_type" validate:"required,eq=code"`
	Scope        string `form:"scope" json:"scope" validate:"omitempty,max=512"`
	State        string `form:"state" json:"state" validate:"omitempty,max=512"`
}

// AuthorizeResponse carries the session handle the login page submits
// credentials against.
// AuthorizeResponse 携带登录页面提交凭据时使用的会话句柄。
type AuthorizeResponse struct {
	SessionCode string `json:"session_code"`
	LoginURL    string `json:"login_url"`
}

// AuthenticateRequest 登录动作请求 DTO
// 凭据为用户名加密码，或一个先前颁发的令牌（恢复被中断的流程时使用）。
type AuthenticateRequest struct {
	Username string `form:"username" json:"username" validate:"required_without=Token,omitempty,min=1,max=255"`
	Password string `form:"password" json:"password" validate:"required_without=Token,omitempty,min=1"`
	Token    string `form:"token" json:"token" validate:"omitempty,min=1"`
}

// AuthenticateResponse reports the outcome of one authentication step.
// Exactly one of RedirectURL (flow finished), RequiredActions, or the OTP
// challenge marker applies.
type AuthenticateResponse struct {
	Status          string   `json:"status"`
	RedirectURL     string   `json:"redirect_url,omitempty"`
	RequiredActions []string `json:"required_actions,omitempty"`

	// TemporaryToken lets the caller finish a pending challenge without
	// re-entering the password.
	TemporaryToken string `json:"temporary_token,omitempty"`
}

// OtpChallengeRequest 提交 OTP 挑战答案
type OtpChallengeRequest struct {
	Code string `form:"code" json:"code" validate:"required,len=6,numeric"`
}

// OtpSetupResponse carries the freshly generated shared secret and the
// otpauth URI the enrollment page renders as a QR code.
// OtpSetupResponse 携带新生成的共享密钥以及注册页渲染为二维码的 otpauth URI。
type OtpSetupResponse struct {
	Secret     string `json:"secret"`
	OtpauthURI string `json:"otpauth_uri"`
}

// OtpVerifyRequest 确认 OTP 注册
// Secret 是注册开始时下发的共享密钥，在用户证明持有之前不会被持久化
type OtpVerifyRequest struct {
	Secret string `form:"secret" json:"secret" validate:"required,min=16"`
	Code   string `form:"code" json:"code" validate:"required,len=6,numeric"`
	Label  string `form:"label" json:"label" validate:"omitempty,max=255"`
}
