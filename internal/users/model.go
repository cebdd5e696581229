package users

import "time"

// User is an account created by Google sign-in. Guests have no row.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"fullName"`
	GivenName   string    `json:"givenName"`
	FamilyName  string    `json:"familyName"`
	PictureURL  string    `json:"pictureUrl"`
	LastLoginAt time.Time `json:"lastLoginAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DisplayName prefers the full name, then the given and family names, then the email.
func (u User) DisplayName() string {
	switch {
	case u.FullName != "":
		return u.FullName
	case u.GivenName != "" || u.FamilyName != "":
		if u.GivenName == "" || u.FamilyName == "" {
			return u.GivenName + u.FamilyName
		}
		return u.GivenName + " " + u.FamilyName
	default:
		return u.Email
	}
}
