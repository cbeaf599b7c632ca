package domain

type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	Lastname          string    `json:"lastname,omitempty"`
	AvatarURL         string    `json:"avatarUrl"`
	CreatedAt         Timestamp `json:"createdAt"`
	EmailVerified     bool      `json:"emailVerified"`
	Role              string    `json:"role"`
	Provider          string    `json:"provider"`
	CanChangePassword bool      `json:"canChangePassword"`
	IsAdmin           bool      `json:"isAdmin"`
	IsPremiumUser     bool      `json:"isPremiumUser"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type AuthResponse struct {
	AccessToken  string  `json:"accessToken"`
	RefreshToken *string `json:"refreshToken"`
	ExpiresIn    int64   `json:"expiresIn"`
	User         User    `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword" validate:"required"`
	NewPassword        string `json:"newPassword" validate:"required,min=6"`
	ConfirmNewPassword string `json:"confirmNewPassword" validate:"required,eqfield=NewPassword"`
}
