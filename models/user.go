package models

import (
	"fmt"
	"strings"
	"time"
)

type User struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	PhoneNumber    string     `json:"phone_number,omitempty"`
	ProfilePicture string     `json:"profile_picture,omitempty"`
	IsStaff        bool       `json:"is_staff,omitempty"`
	DateJoined     *time.Time `json:"date_joined,omitempty"`
}

// DisplayName prefers the full name and falls back to the username.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Username
}

// Address is a delivery location saved against the user or typed at checkout.
type Address struct {
	ID            string   `json:"id,omitempty"`
	Title         string   `json:"title,omitempty"`
	FullName      string   `json:"full_name"`
	PhoneNumber   string   `json:"phone_number"`
	Email         string   `json:"email,omitempty"`
	StreetAddress string   `json:"street_address"`
	City          string   `json:"city"`
	County        string   `json:"county,omitempty"`
	PostalCode    string   `json:"postal_code,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	IsDefault     bool     `json:"is_default"`
}

// HasCoordinates reports whether a map location was picked.
func (a Address) HasCoordinates() bool {
	return a.Latitude != nil && a.Longitude != nil
}

// Complete reports whether the fields needed to deliver are filled in.
func (a Address) Complete() bool {
	return strings.TrimSpace(a.FullName) != "" &&
		strings.TrimSpace(a.PhoneNumber) != "" &&
		strings.TrimSpace(a.StreetAddress) != "" &&
		strings.TrimSpace(a.City) != ""
}

// Line renders the address the way orders store it: "street, city, county".
func (a Address) Line() string {
	parts := []string{a.StreetAddress, a.City}
	if a.County != "" {
		parts = append(parts, a.County)
	}
	return strings.Join(parts, ", ")
}

// TokenPair is what the login and Google exchange endpoints return.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	User    *User  `json:"user,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Password2   string `json:"password2,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

type GoogleAuthRequest struct {
	GoogleID       string `json:"google_id"`
	Email          string `json:"email"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type PasswordResetConfirm struct {
	UID      string `json:"uid"`
	Token    string `json:"token"`
	Password string `json:"new_password"`
}

// SplitDisplayName splits "First Rest Of Name" the way the Google exchange expects.
func SplitDisplayName(name string) (first, last string) {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

func (u User) String() string {
	return fmt.Sprintf("%s <%s>", u.DisplayName(), u.Email)
}
