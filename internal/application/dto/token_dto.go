package dto

// TokenRequest 令牌端点请求 DTO
// 字段随 grant_type 而异，各授权模式策略只读取自己需要的子集
type TokenRequest struct {
	GrantType    string `form:"grant_type" json:"grant_type" validate:"required,oneof=authorization_code password client_credentials refresh_token"`
	ClientID     string `form:"client_id" json:"client_id" validate:"required,min=1,max=255"`
	ClientSecret string `form:"client_secret" json:"client_secret" validate:"omitempty,max=255"`
	Code         string `form:"code" json:"code" validate:"required_if=GrantType authorization_code"`
	Username     string `form:"username" json:"username" validate:"required_if=GrantType password"`
	Password     string `form:"password" json:"password" validate:"required_if=GrantType password"`
	RefreshToken string `form:"refresh_token" json:"refresh_token" validate:"required_if=GrantType refresh_token"`
}

// TokenResponse 令牌端点响应 DTO
// 访问令牌同时携带身份声明，因此也作为 id_token 返回。
type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	IDToken          string `json:"id_token,omitempty"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int64  `json:"expires_in"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
}
