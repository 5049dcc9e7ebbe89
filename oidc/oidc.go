// Copyright (c) 2025 Maarten Thijssen.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package oidc

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-resty/resty/v2"
)

// TokenResponse is the provider's answer to an authorization-code exchange.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	Subject     string `json:"sub"`
	Error       string `json:"error"`
	ErrorDesc   string `json:"error_description"`
}

// UserInfo is the profile claim set returned by the provider's
// userinfo endpoint.
type UserInfo struct {
	Subject    string `json:"sub"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

// Client talks to the external OpenID Connect identity provider.
type Client struct {
	http         *resty.Client
	baseURL      string
	clientID     string
	clientSecret string
}

func NewClient(baseURL, clientID, clientSecret string) *Client {
	return &Client{
		http:         resty.New(),
		baseURL:      baseURL,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// AuthorizeURL builds the provider URL the browser is redirected to for login.
func (c *Client) AuthorizeURL(redirect string) string {
	params := url.Values{
		"client_id":     {c.clientID},
		"redirect_uri":  {redirect},
		"response_type": {"code"},
		"scope":         {"openid profile"},
		"state":         {"null"},
	}
	return c.baseURL + "/connect/authorize?" + params.Encode()
}

// Token exchanges an authorization code for provider tokens.
func (c *Client) Token(ctx context.Context, code, redirect string) (TokenResponse, error) {
	var token TokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"grant_type":    "authorization_code",
			"code":          code,
			"redirect_uri":  redirect,
			"client_id":     c.clientID,
			"client_secret": c.clientSecret,
		}).
		SetResult(&token).
		SetError(&token).
		Post(c.baseURL + "/connect/token")
	if err != nil {
		return TokenResponse{}, fmt.Errorf("token exchange failed: %w", err)
	}
	if token.Error != "" {
		return TokenResponse{}, fmt.Errorf("token exchange rejected: %s", token.Error)
	}
	if resp.IsError() {
		return TokenResponse{}, fmt.Errorf("token exchange failed: %s", resp.Status())
	}
	return token, nil
}

// User fetches the profile for an access token from the userinfo endpoint.
func (c *Client) User(ctx context.Context, accessToken string) (UserInfo, error) {
	var info UserInfo
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(accessToken).
		SetResult(&info).
		Get(c.baseURL + "/connect/userinfo")
	if err != nil {
		return UserInfo{}, fmt.Errorf("userinfo request failed: %w", err)
	}
	if resp.IsError() {
		return UserInfo{}, fmt.Errorf("userinfo request failed: %s", resp.Status())
	}
	return info, nil
}
