package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/apperrors"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/auth"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/clients"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/models"
	"github.com/Pedrocavalcantip/projeto-prefeitura-backend-sub000/internal/repository"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuthService interface {
	// Login proxies the credentials to the municipal identity API and, on
	// success, refreshes the local NGO mirror and issues a session token.
	Login(ctx context.Context, email, password string) (string, *models.Ngo, error)
	Profile(ctx context.Context, ngoID uint) (*models.Ngo, error)
}

type authService struct {
	ngoRepo   repository.NgoRepository
	client    clients.HCPassClient
	jwtSecret string
}

func NewAuthService(ngoRepo repository.NgoRepository, client clients.HCPassClient, jwtSecret string) AuthService {
	return &authService{
		ngoRepo:   ngoRepo,
		client:    client,
		jwtSecret: jwtSecret,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *models.Ngo, error) {
	if email == "" || password == "" {
		return "", nil, apperrors.NewValidation("email", "email e senha são obrigatórios")
	}

	profile, err := s.client.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, clients.ErrInvalidCredentials) {
			return "", nil, apperrors.NewUnauthorized("credenciais inválidas")
		}
		return "", nil, fmt.Errorf("identity API login failed: %w", err)
	}

	ngo := &models.Ngo{
		Name:    profile.Name,
		Email:   email,
		LogoURL: profile.LogoURL,
		Raw:     datatypes.JSON(profile.Raw),
	}
	if err := s.ngoRepo.Upsert(ctx, ngo); err != nil {
		return "", nil, fmt.Errorf("failed to upsert NGO mirror: %w", err)
	}

	token, err := auth.GenerateToken(s.jwtSecret, ngo.ID, ngo.Email)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	return token, ngo, nil
}

func (s *authService) Profile(ctx context.Context, ngoID uint) (*models.Ngo, error) {
	ngo, err := s.ngoRepo.GetByID(ctx, ngoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("organização não encontrada")
		}
		return nil, fmt.Errorf("failed to load NGO %d: %w", ngoID, err)
	}
	return ngo, nil
}
