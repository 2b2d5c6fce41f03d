package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"github.com/sirawit/examportal/config"
	"github.com/sirawit/examportal/internal/dto"
	"github.com/sirawit/examportal/internal/model"
	"github.com/sirawit/examportal/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService interface {
	Register(req dto.RegisterDTO) (*dto.AuthResponseDTO, error)
	Login(req dto.LoginDTO) (*dto.AuthResponseDTO, error)
	GetProfile(userID uuid.UUID) (*dto.ProfileDTO, error)
}

type authService struct {
	profileRepo repository.ProfileRepository
	cfg         *config.Config
}

func NewAuthService(profileRepo repository.ProfileRepository, cfg *config.Config) AuthService {
	return &authService{profileRepo: profileRepo, cfg: cfg}
}

func (s *authService) Register(req dto.RegisterDTO) (*dto.AuthResponseDTO, error) {
	if _, err := s.profileRepo.FindByEmail(req.Email); err == nil {
		return nil, fmt.Errorf("email %s is already registered", req.Email)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("error checking existing profile: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	profile := model.Profile{
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         model.RoleStudent,
	}
	if err := s.profileRepo.Create(&profile); err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Register: failed to create profile")
		return nil, fmt.Errorf("database error creating profile: %w", err)
	}

	return s.buildAuthResponse(&profile)
}

func (s *authService) Login(req dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	profile, err := s.profileRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error loading profile: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.buildAuthResponse(profile)
}

func (s *authService) GetProfile(userID uuid.UUID) (*dto.ProfileDTO, error) {
	profile, err := s.profileRepo.FindByID(userID)
	if err != nil {
		return nil, fmt.Errorf("profile not found: %w", err)
	}
	var resp dto.ProfileDTO
	if err := copier.Copy(&resp, profile); err != nil {
		return nil, fmt.Errorf("error preparing profile response: %w", err)
	}
	return &resp, nil
}

func (s *authService) buildAuthResponse(profile *model.Profile) (*dto.AuthResponseDTO, error) {
	ttl := time.Duration(s.cfg.Auth.TokenTTLHours) * time.Hour
	claims := jwt.RegisteredClaims{
		Subject:   profile.ID.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("error signing token: %w", err)
	}

	var profileDTO dto.ProfileDTO
	if err := copier.Copy(&profileDTO, profile); err != nil {
		return nil, fmt.Errorf("error preparing auth response: %w", err)
	}
	return &dto.AuthResponseDTO{Token: token, Profile: profileDTO}, nil
}
