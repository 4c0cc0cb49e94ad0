package model

import "time"

// Assignment is a user's role and designation, loaded from the
// user_assignments table with its referenced rows at sign-in.
type Assignment struct {
	RoleID          int64  `json:"role_id"`
	RoleName        string `json:"role_name"`
	DesignationID   int64  `json:"designation_id"`
	DesignationName string `json:"designation_name"`
}

// UserProfile is the signed-in user's denormalized identity: the users
// row merged with its assignment. One copy is cached locally after
// sign-in and cleared at sign-out; it is never refreshed in between.
type UserProfile struct {
	UserID       int64       `json:"user_id"`
	AuthUserID   string      `json:"auth_user_id"`
	Username     string      `json:"username"`
	FirstName    string      `json:"first_name"`
	MiddleName   string      `json:"middle_name,omitempty"`
	LastName     string      `json:"last_name"`
	Email        string      `json:"email"`
	Birthday     string      `json:"birthday,omitempty"`
	Sex          string      `json:"sex,omitempty"`
	MobileNumber string      `json:"mobile_number,omitempty"`
	Address      string      `json:"address,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	Assignment   *Assignment `json:"assignment,omitempty"`
}

// DisplayName joins the profile's first and last name.
func (u UserProfile) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Role returns the assignment's role name, or empty when unassigned.
func (u UserProfile) Role() string {
	if u.Assignment == nil {
		return ""
	}
	return u.Assignment.RoleName
}
