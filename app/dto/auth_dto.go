package dto

// LoginRequest authenticates the admin account
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=3,max=255" example:"admin"`
	Password string `json:"password" validate:"required,min=8,max=100" example:"SecurePass123!"`
}

// LoginResponse carries the issued access token
type LoginResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"` // seconds
}
