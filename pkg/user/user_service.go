package user

import (
	"context"
	"dishcovery/domain"
	"dishcovery/entities"
	"dishcovery/internal/utils"
	"dishcovery/internal/utils/mailing"
	"dishcovery/internal/utils/storage"
	"dishcovery/pkg/jwt"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error)
		Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		SendVerifyEmail(ctx context.Context, req domain.SendVerifyEmailRequest) error
		VerifyEmail(ctx context.Context, token string) error
		Me(ctx context.Context, userID string) (domain.ProfileResponse, error)
		UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest, userID string) (domain.ProfileResponse, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
		awsS3          storage.AwsS3
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService, awsS3 storage.AwsS3) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
		awsS3:          awsS3,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.RegisterResponse, error) {
	if _, err := s.userRepository.GetUserByEmail(ctx, req.Email); err == nil {
		return domain.RegisterResponse{}, domain.ErrEmailAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.RegisterResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.RegisterResponse{}, err
	}

	user := &entities.User{
		ID:          uuid.New(),
		Email:       req.Email,
		Password:    string(hashed),
		DisplayName: req.DisplayName,
		Role:        domain.RoleUser,
	}

	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		return domain.RegisterResponse{}, err
	}

	// The account exists either way; the user can request the mail again.
	if err := s.sendVerificationMail(user); err != nil {
		log.Printf("failed to send verification mail to %s: %v", user.Email, err)
	}

	return domain.RegisterResponse{
		ID:          user.ID.String(),
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}, nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
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
	return domain.LoginResponse{Token: token, Role: user.Role}, nil
}

func (s *userService) SendVerifyEmail(ctx context.Context, req domain.SendVerifyEmailRequest) error {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return s.sendVerificationMail(user)
}

func (s *userService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.jwtService.ValidateMailToken(token)
	if err != nil {
		return err
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return domain.ErrTokenInvalid
	}

	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	user.IsVerified = true
	return s.userRepository.UpdateUser(ctx, user)
}

func (s *userService) Me(ctx context.Context, userID string) (domain.ProfileResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ProfileResponse{}, domain.ErrUserNotFound
		}
		return domain.ProfileResponse{}, err
	}
	return toProfileResponse(user), nil
}

func (s *userService) UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest, userID string) (domain.ProfileResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ProfileResponse{}, domain.ErrUserNotFound
		}
		return domain.ProfileResponse{}, err
	}

	if req.DisplayName != "" {
		user.DisplayName = req.DisplayName
	}

	if req.Avatar != nil && s.awsS3 != nil {
		fileName := fmt.Sprintf("%s_%d", user.ID.String(), time.Now().Unix())
		var objectKey string
		if user.AvatarURL != "" {
			objectKey, err = s.awsS3.UpdateFile(s.awsS3.GetObjectKeyFromLink(user.AvatarURL), req.Avatar, storage.AllowImage...)
		} else {
			objectKey, err = s.awsS3.UploadFile(fileName, req.Avatar, "avatars", storage.AllowImage...)
		}
		if err != nil {
			return domain.ProfileResponse{}, err
		}
		user.AvatarURL = s.awsS3.GetPublicLinkKey(objectKey)
	}

	if err := s.userRepository.UpdateUser(ctx, user); err != nil {
		return domain.ProfileResponse{}, err
	}
	return toProfileResponse(user), nil
}

func (s *userService) sendVerificationMail(user *entities.User) error {
	token, err := s.jwtService.GenerateMailToken(map[string]any{"user_id": user.ID.String()}, 24*time.Hour)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/api/v1/users/verify?token=%s", utils.GetConfig("APP_URL"), token)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>Welcome to Dishcovery! Click the link below to verify your email address.</p><p><a href=\"%s\">Verify my email</a></p><p>The link expires in 24 hours.</p>",
		user.DisplayName, link,
	)
	return mailing.SendMail(user.Email, "Verify your Dishcovery account", body)
}

func toProfileResponse(user *entities.User) domain.ProfileResponse {
	return domain.ProfileResponse{
		ID:          user.ID.String(),
		Email:       user.Email,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		IsVerified:  user.IsVerified,
		CreatedAt:   user.CreatedAt,
	}
}
