package dto

// Claims represents the admin JWT claims carried by management API tokens.
type Claims struct {
	Name  string   `json:"name"`
	Roles []string `json:"roles,omitempty"`
}

// TokenResponse is an issued admin token.
// @Description Signed admin bearer token
type TokenResponse struct {
	Token     string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresIn int64  `json:"expires_in" example:"86400"`
} // @name TokenResponse
