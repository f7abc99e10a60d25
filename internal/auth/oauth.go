package auth

import (
	"strings"

	"golang.org/x/oauth2"
)

const (
	authorizePath = "/oauth/authorize"
	tokenPath     = "/oauth/token"
)

// Scopes required by the app (the platform uses comma-separated scopes)
var Scopes = []string{
	"workouts:read,heart_rate:read",
}

// Config holds the OAuth client credentials
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string // e.g., "http://localhost:8089/callback"
}

// NewOAuthConfig builds an oauth2.Config against the sensor platform's
// OAuth endpoints, which live alongside the API on the same host.
func NewOAuthConfig(baseURL string, cfg Config) *oauth2.Config {
	base := strings.TrimRight(baseURL, "/")
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:  base + authorizePath,
			TokenURL: base + tokenPath,
		},
		RedirectURL: cfg.RedirectURL,
		Scopes:      Scopes,
	}
}

// Result contains the token and user info from a successful auth flow
type Result struct {
	Token  *oauth2.Token
	UserID int64
}

// ExtractUserID pulls the user ID out of the token extras.
// The platform embeds user info in the token response.
func ExtractUserID(token *oauth2.Token) int64 {
	if user, ok := token.Extra("user").(map[string]interface{}); ok {
		if id, ok := user["id"].(float64); ok {
			return int64(id)
		}
	}
	return 0
}
