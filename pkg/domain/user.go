package domain

import (
	"time"
)

// User is a user record managed through the admin dashboard.
type User struct {
	ID             int       `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	IsVerified     bool      `json:"isVerified"`
	GenderID       int       `json:"genderId"`
	Avatar         *string   `json:"avatar"`
	CreatedDate    time.Time `json:"createdDate"`
	ICNumber       int64     `json:"icNumber,omitempty"`
	ICTypeID       int       `json:"icTypeId,omitempty"`
	RecordStatusID int       `json:"recordStatusId,omitempty"`
}

// FullName joins first and last name.
func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// CreateUserRequest is the payload for creating a user. Every field is required.
type CreateUserRequest struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	ICNumber       int64  `json:"icNumber"`
	ICTypeID       int    `json:"icTypeId"`
	GenderID       int    `json:"genderId"`
	IsVerified     bool   `json:"isVerified"`
	RecordStatusID int    `json:"recordStatusId"`
}

// Partial returns the request as an update payload with every field present,
// so create and update share one client-side validation path.
func (r CreateUserRequest) Partial() UpdateUserRequest {
	return UpdateUserRequest{
		FirstName:      Some(r.FirstName),
		LastName:       Some(r.LastName),
		Email:          Some(r.Email),
		Password:       Some(r.Password),
		ICNumber:       Some(r.ICNumber),
		ICTypeID:       Some(r.ICTypeID),
		GenderID:       Some(r.GenderID),
		IsVerified:     Some(r.IsVerified),
		RecordStatusID: Some(r.RecordStatusID),
	}
}

// UpdateUserRequest is a partial update. Absent fields are left untouched by
// the backend; present fields are sent even when they hold a zero value.
type UpdateUserRequest struct {
	FirstName      Optional[string] `json:"firstName,omitzero"`
	LastName       Optional[string] `json:"lastName,omitzero"`
	Email          Optional[string] `json:"email,omitzero"`
	Password       Optional[string] `json:"password,omitzero"`
	ICNumber       Optional[int64]  `json:"icNumber,omitzero"`
	ICTypeID       Optional[int]    `json:"icTypeId,omitzero"`
	GenderID       Optional[int]    `json:"genderId,omitzero"`
	IsVerified     Optional[bool]   `json:"isVerified,omitzero"`
	RecordStatusID Optional[int]    `json:"recordStatusId,omitzero"`
}

// DisplayUser is a user decorated with presentation-ready fields.
type DisplayUser struct {
	User
	FullName             string `json:"fullName"`
	FormattedCreatedDate string `json:"formattedCreatedDate"`
}

// GenderCount is one bucket of the gender distribution.
type GenderCount struct {
	GenderID int `json:"genderId"`
	Count    int `json:"count"`
}

// UserAnalytics holds aggregate statistics over the full user collection.
type UserAnalytics struct {
	TotalUsers         int           `json:"totalUsers"`
	VerifiedUsers      int           `json:"verifiedUsers"`
	UnverifiedUsers    int           `json:"unverifiedUsers"`
	GenderDistribution []GenderCount `json:"genderDistribution"`
	NewUsersLast7Days  int           `json:"newUsersLast7Days"`
	NewUsersLast30Days int           `json:"newUsersLast30Days"`
}
