package dto

// LoginRequest carries credentials.
type LoginRequest struct {
	DNI      string `json:"dni"`
	Password string `json:"password"`
}

// RegisterUserRequest creates an account.
type RegisterUserRequest struct {
	DNI      string `json:"dni"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// ChangePasswordRequest rotates the acting user's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
