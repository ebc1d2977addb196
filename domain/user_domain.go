package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessRegister       = "user registered successfully"
	MessageSuccessLogin          = "user logged in successfully"
	MessageSuccessGetUser        = "user retrieved successfully"
	MessageSuccessUpdateUser     = "user updated successfully"
	MessageSuccessForgotPassword = "if the email exists, a reset link has been sent"
	MessageSuccessResetPassword  = "password has been reset"

	MessageFailedRegister       = "failed to register user"
	MessageFailedLogin          = "failed to login"
	MessageFailedGetUser        = "failed to retrieve user"
	MessageFailedUpdateUser     = "failed to update user"
	MessageFailedForgotPassword = "failed to send reset link"
	MessageFailedResetPassword  = "failed to reset password"

	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrHashPassword       = errors.New("failed to hash password")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrGenerateResetToken = errors.New("failed to generate reset token")
	ErrGenerateLoginToken = errors.New("failed to generate login token")
)

type (
	RegisterRequest struct {
		Name     string                `json:"name" form:"name" validate:"required"`
		Email    string                `json:"email" form:"email" validate:"required,email"`
		Password string                `json:"password" form:"password" validate:"required,min=8"`
		Gender   string                `json:"gender" form:"gender" validate:"omitempty,oneof=male female other"`
		Image    *multipart.FileHeader `json:"image" form:"image"`
	}

	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}

	UpdateUserRequest struct {
		Name     string                `json:"name" form:"name" validate:"omitempty"`
		Email    string                `json:"email" form:"email" validate:"omitempty,email"`
		Password string                `json:"password" form:"password" validate:"omitempty,min=8"`
		Gender   string                `json:"gender" form:"gender" validate:"omitempty,oneof=male female other"`
		Image    *multipart.FileHeader `json:"image" form:"image"`
	}

	ForgotPasswordRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	ResetPasswordRequest struct {
		Token       string `json:"token" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=8"`
	}

	UserResponse struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Email     string    `json:"email"`
		Gender    string    `json:"gender,omitempty"`
		ImageURL  string    `json:"image_url,omitempty"`
		Role      string    `json:"role"`
		CreatedAt time.Time `json:"created_at"`
	}
)
