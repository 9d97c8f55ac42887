// Package entity defines response shapes shared by the web layer.
package entity

// Msg is the standard envelope for confirmation-style responses.
type Msg struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg,omitempty"`
	Obj     any    `json:"obj,omitempty"`
}

// Token is the response body for successful logins.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AuthURL points the client at the external provider's authorization page.
type AuthURL struct {
	AuthURL string `json:"auth_url"`
}
