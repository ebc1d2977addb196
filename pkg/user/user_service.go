package user

import (
	"Meal-Tracker/domain"
	"Meal-Tracker/entities"
	"Meal-Tracker/internal/utils/mailing"
	"Meal-Tracker/internal/utils/storage"
	"Meal-Tracker/pkg/jwt"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"strings"
	"time"
)

const (
	resetTokenDuration = 15 * time.Minute

	claimPasswordFP = "pwd_fp"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
		UpdateUser(ctx context.Context, req domain.UpdateUserRequest, userID string) (domain.UserResponse, error)
		ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error
		ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		s3             storage.AwsS3
		mailer         mailing.Mailer
		appURL         string
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, s3 storage.AwsS3, mailer mailing.Mailer, appURL string) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		s3:             s3,
		mailer:         mailer,
		appURL:         appURL,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	email := normalizeEmail(req.Email)

	exists, err := s.userRepository.CheckEmailExists(ctx, email)
	if err != nil {
		return domain.UserResponse{}, err
	}
	if exists {
		return domain.UserResponse{}, domain.ErrEmailAlreadyExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserResponse{}, domain.ErrHashPassword
	}

	user := &entities.User{
		ID:       uuid.New(),
		Name:     req.Name,
		Email:    email,
		Password: string(hashed),
		Gender:   req.Gender,
		Role:     domain.RoleUser,
	}

	var objectKey string
	if req.Image != nil {
		objectKey, err = s.s3.UploadFile(ctx, avatarFileName(user), req.Image, avatarFolder(user), storage.AllowImage...)
		if err != nil {
			return domain.UserResponse{}, err
		}
		user.ImageURL = s.s3.GetPublicLinkKey(objectKey)
	}

	if err := s.userRepository.RegisterUser(ctx, user); err != nil {
		if objectKey != "" {
			if delErr := s.s3.DeleteFile(ctx, objectKey); delErr != nil {
				log.Errorf("failed to remove orphaned avatar %s: %v", objectKey, delErr)
			}
		}
		return domain.UserResponse{}, err
	}

	return toUserResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrInvalidCredentials
		}
		return domain.LoginResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.LoginResponse{}, domain.ErrInvalidCredentials
	}

	token := s.jwtService.GenerateTokenUser(user.ID.String(), user.Role)
	if token == "" {
		return domain.LoginResponse{}, domain.ErrGenerateLoginToken
	}

	return domain.LoginResponse{
		Token: token,
		Role:  user.Role,
	}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

func (s *userService) UpdateUser(ctx context.Context, req domain.UpdateUserRequest, userID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}

	if req.Email != "" {
		email := normalizeEmail(req.Email)
		if email != user.Email {
			exists, err := s.userRepository.CheckEmailExists(ctx, email)
			if err != nil {
				return domain.UserResponse{}, err
			}
			if exists {
				return domain.UserResponse{}, domain.ErrEmailAlreadyExists
			}
			user.Email = email
		}
	}

	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return domain.UserResponse{}, domain.ErrHashPassword
		}
		user.Password = string(hashed)
	}

	if req.Gender != "" {
		user.Gender = req.Gender
	}

	if req.Image != nil {
		var objectKey string
		var uploadErr error

		existingKey := ""
		if user.ImageURL != "" {
			existingKey = s.s3.GetObjectKeyFromLink(user.ImageURL)
		}
		if existingKey != "" {
			objectKey, uploadErr = s.s3.UpdateFile(ctx, existingKey, req.Image, storage.AllowImage...)
		} else {
			objectKey, uploadErr = s.s3.UploadFile(ctx, avatarFileName(user), req.Image, avatarFolder(user), storage.AllowImage...)
		}
		if uploadErr != nil {
			return domain.UserResponse{}, uploadErr
		}
		user.ImageURL = s.s3.GetPublicLinkKey(objectKey)
	}

	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return domain.UserResponse{}, err
	}

	return toUserResponse(user), nil
}

func (s *userService) ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error {
	user, err := s.userRepository.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		// unknown addresses are not disclosed
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	token, err := s.jwtService.GenerateTokenForgetPassword(map[string]any{
		"email":         user.Email,
		claimPasswordFP: passwordFingerprint(user.Password),
	}, resetTokenDuration)
	if err != nil {
		return domain.ErrGenerateResetToken
	}

	body := mailing.ResetPasswordBody(s.appURL, user.Name, token)
	if err := s.mailer.SendMail(user.Email, "Reset your password", body); err != nil {
		log.Errorf("failed to send reset mail to %s: %v", user.Email, err)
		return err
	}
	return nil
}

func (s *userService) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	claims, err := s.jwtService.ValidateTokenForgetPassword(req.Token)
	if err != nil {
		return domain.ErrInvalidResetToken
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return domain.ErrInvalidResetToken
	}

	user, err := s.userRepository.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrInvalidResetToken
		}
		return err
	}

	// a reset token is spent once the password it was issued for changes
	if fp, _ := claims[claimPasswordFP].(string); fp != passwordFingerprint(user.Password) {
		return domain.ErrInvalidResetToken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return domain.ErrHashPassword
	}
	user.Password = string(hashed)

	return s.userRepository.UpdateUser(ctx, user)
}

func avatarFolder(user *entities.User) string {
	return "avatars/" + user.ID.String()
}

func avatarFileName(user *entities.User) string {
	return fmt.Sprintf("avatar-%s", user.ID.String())
}

// passwordFingerprint is a short digest of the stored hash, never the hash itself.
func passwordFingerprint(hash string) string {
	sum := sha256.Sum256([]byte(hash))
	return hex.EncodeToString(sum[:8])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toUserResponse(user *entities.User) domain.UserResponse {
	return domain.UserResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Gender:    user.Gender,
		ImageURL:  user.ImageURL,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
