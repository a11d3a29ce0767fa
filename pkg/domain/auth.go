package domain

// UserData is the authenticated principal returned by the login endpoint.
type UserData struct {
	ID             int     `json:"id"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Email          string  `json:"email"`
	IsVerified     bool    `json:"isVerified"`
	GenderID       int     `json:"genderId"`
	Avatar         *string `json:"avatar"`
	CreatedDate    string  `json:"createdDate"`
	ICNumber       int64   `json:"icNumber,omitempty"`
	ICTypeID       int     `json:"icTypeId,omitempty"`
	RecordStatusID int     `json:"recordStatusId,omitempty"`
}

// DisplayName returns the best human-readable name for the principal.
func (u UserData) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Email
	}
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the login endpoint's answer.
type AuthResponse struct {
	Success     bool     `json:"success"`
	Message     string   `json:"message"`
	AccessToken string   `json:"accessToken"`
	UserData    UserData `json:"userData"`
}
