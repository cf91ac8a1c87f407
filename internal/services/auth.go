package services

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/marketplace-backend/internal/dto"
	"github.com/yungbote/marketplace-backend/internal/logger"
	"github.com/yungbote/marketplace-backend/internal/normalization"
	"github.com/yungbote/marketplace-backend/internal/platform/apierr"
	"github.com/yungbote/marketplace-backend/internal/repos"
	"github.com/yungbote/marketplace-backend/internal/requestdata"
	"github.com/yungbote/marketplace-backend/internal/types"
)

type JWTClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

type AuthService interface {
	RegisterUser(ctx context.Context, req dto.RegisterRequest) (*types.User, error)
	LoginUser(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	GetAccessTTL() time.Duration
}

type authService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	roleRepo     repos.RoleRepo
	jwtSecretKey string
	accessTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	roleRepo repos.RoleRepo,
	jwtSecretKey string,
	accessTTL time.Duration,
) AuthService {
	return &authService{
		db:           db,
		log:          log.With("service", "AuthService"),
		userRepo:     userRepo,
		roleRepo:     roleRepo,
		jwtSecretKey: jwtSecretKey,
		accessTTL:    accessTTL,
	}
}

func (as *authService) RegisterUser(ctx context.Context, req dto.RegisterRequest) (*types.User, error) {
	email := normalization.ParseInputString(req.Email)
	name := normalization.TrimInputString(req.Name)
	if name == "" {
		return nil, apierr.Validation("name is required")
	}
	if email == "" {
		return nil, apierr.Validation("email is required")
	}
	if len(req.Password) < 8 {
		return nil, apierr.Validation("password must be at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var user *types.User
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := as.userRepo.EmailExists(ctx, tx, email)
		if err != nil {
			return err
		}
		if exists {
			return apierr.Conflict("email %s is already registered", email)
		}
		role, err := as.roleRepo.GetByName(ctx, tx, types.RoleUser)
		if err != nil {
			return err
		}
		if role == nil {
			return apierr.NotFound("role %s is not seeded", types.RoleUser)
		}
		user = &types.User{
			ID:       uuid.New(),
			Name:     name,
			Email:    email,
			Password: string(hashed),
			Phone:    normalization.TrimInputString(req.Phone),
			Roles:    []types.Role{*role},
		}
		return as.userRepo.Create(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}
	as.log.Info("User registered", "user_id", user.ID, "email", email)
	return user, nil
}

func (as *authService) LoginUser(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	email := normalization.ParseInputString(req.Email)
	user, err := as.userRepo.GetByEmail(ctx, nil, email)
	if err != nil {
		return nil, err
	}
	// Same error for unknown email and bad password so logins cannot be
	// used to probe which addresses exist.
	if user == nil {
		return nil, apierr.Unauthorized("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apierr.Unauthorized("invalid credentials")
	}

	token, err := as.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(as.accessTTL.Seconds()),
	}, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		Roles: user.RoleNames(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, apierr.Unauthorized("missing bearer token")
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apierr.Unauthorized("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return ctx, apierr.Unauthorized("invalid or expired token")
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ctx, apierr.Unauthorized("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, apierr.Unauthorized("invalid subject in token")
	}
	rd := &requestdata.RequestData{
		UserID: userID,
		Roles:  claims.Roles,
	}
	return requestdata.WithRequestData(ctx, rd), nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}
