package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"resume-builder/internal/users"
)

const maxUserInfoBytes = 64 << 10

type googleUserInfo struct {
	Sub           string `json:"sub"`
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified *bool  `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// user maps the profile to a users.User. Unverified emails are dropped.
func (i googleUserInfo) user() users.User {
	email := i.Email
	if i.EmailVerified != nil && !*i.EmailVerified {
		email = ""
	}
	return users.User{
		ID:         googleIDNS + i.Sub,
		Email:      email,
		FullName:   i.Name,
		GivenName:  i.GivenName,
		FamilyName: i.FamilyName,
		PictureURL: i.Picture,
	}
}

// fetchUserInfo reads the OpenID userinfo document with an authorized client. The legacy
// v2 endpoint's "id" is accepted in place of "sub".
func fetchUserInfo(ctx context.Context, client *http.Client, endpoint string) (googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return googleUserInfo{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return googleUserInfo{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return googleUserInfo{}, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxUserInfoBytes)).Decode(&info); err != nil {
		return googleUserInfo{}, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Sub == "" {
		info.Sub = info.ID
	}
	if info.Sub == "" {
		return googleUserInfo{}, errors.New("userinfo without subject")
	}
	return info, nil
}
