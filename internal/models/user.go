package models

// Role values returned by the backend.
const (
	RoleUser  = "user"  // Storefront customer
	RoleAdmin = "admin" // Back office operator
)

// UserProfile is the identity returned by /me, /login and /register.
// The backend owns the record; the client replaces it wholesale on every fetch.
type UserProfile struct {
	ID        int64   `json:"id" validate:"required"`
	Name      string  `json:"name"`
	Email     string  `json:"email" validate:"omitempty,email"`
	Phone     string  `json:"phone,omitempty"`
	Role      string  `json:"role" validate:"required"`
	Avatar    *string `json:"avatar,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

// HasRole returns true if the profile role is one of roles.
func (u *UserProfile) HasRole(roles ...string) bool {
	if u == nil {
		return false
	}
	for _, r := range roles {
		if u.Role == r {
			return true
		}
	}
	return false
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterForm is what a registration form collects.
// PasswordConfirm is checked locally and never leaves the client.
type RegisterForm struct {
	Name            string `validate:"required"`
	Email           string `validate:"required,email"`
	Phone           string `validate:"required"`
	Password        string `validate:"required"`
	PasswordConfirm string `validate:"required"`
}

// Payload returns the body of POST /register.
func (f RegisterForm) Payload() RegisterRequest {
	return RegisterRequest{
		Name:     f.Name,
		Email:    f.Email,
		Phone:    f.Phone,
		Password: f.Password,
	}
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

// AuthResponse is returned by /login and /register.
type AuthResponse struct {
	User  UserProfile `json:"user" validate:"required"`
	Token string      `json:"token" validate:"required"`
}

// ProfileUpdateResponse is returned by /me/update. Older backends wrap
// the profile in "data" instead of "user".
type ProfileUpdateResponse struct {
	User *UserProfile `json:"user,omitempty"`
	Data *UserProfile `json:"data,omitempty"`
}

// Profile returns whichever profile the backend sent.
func (r *ProfileUpdateResponse) Profile() *UserProfile {
	if r.User != nil {
		return r.User
	}
	return r.Data
}
