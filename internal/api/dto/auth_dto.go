package dto

// Data Transfer Objects for the confirmation-code authentication flow

// EmailRequest: payload for requesting a confirmation code
type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// EmailResponse: acknowledgement after a code was dispatched. Never carries
// the code itself.
type EmailResponse struct {
	Email string `json:"email"`
}

// TokenRequest: payload for exchanging an (email, code) pair for tokens
type TokenRequest struct {
	Email            string `json:"email" binding:"required,email"`
	ConfirmationCode string `json:"confirmation_code" binding:"required"`
}

// TokenResponse: response payload after a successful exchange
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"` // "Bearer"
	ExpiresIn    int64  `json:"expires_in"` // seconds
}

// RefreshTokenRequest: payload for refreshing an access token
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshResponse: response payload after refreshing an access token
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
