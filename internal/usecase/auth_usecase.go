package usecase

import (
	"context"
	"errors"
	"strings"

	"go-dental-clinic/internal/converter"
	"go-dental-clinic/internal/delivery/dto"
	"go-dental-clinic/internal/delivery/http/middleware"
	"go-dental-clinic/internal/domain/entity"
	"go-dental-clinic/internal/domain/repository"
	"go-dental-clinic/internal/service"
	"go-dental-clinic/pkg/jwt"
	"go-dental-clinic/pkg/timezone"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrRoleNotFound       = errors.New("role not found")
)

type AuthUsecase interface {
	RegisterClinic(ctx context.Context, req *dto.RegisterClinicRequest) (*dto.RegisterClinicResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context) (*dto.UserResponse, error)
}

type authUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	clinicRepo      repository.ClinicRepository
	userRepo        repository.UserRepository
	roleRepo        repository.RoleRepository
	auditService    service.AuditService
	tokenStore      service.TokenStore
	jwtService      *jwt.JWTService
	defaultTimezone string
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	clinicRepo repository.ClinicRepository,
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	auditService service.AuditService,
	tokenStore service.TokenStore,
	jwtService *jwt.JWTService,
	defaultTimezone string,
) AuthUsecase {
	return &authUsecase{
		db:              db,
		log:             log,
		clinicRepo:      clinicRepo,
		userRepo:        userRepo,
		roleRepo:        roleRepo,
		auditService:    auditService,
		tokenStore:      tokenStore,
		jwtService:      jwtService,
		defaultTimezone: defaultTimezone,
	}
}

// RegisterClinic creates the tenant and its admin in one transaction
func (u *authUsecase) RegisterClinic(ctx context.Context, req *dto.RegisterClinicRequest) (*dto.RegisterClinicResponse, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	tz := req.Timezone
	if !timezone.IsValid(tz) {
		tz = timezone.Location(u.defaultTimezone, "").String()
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	// roles are seeded by the migrations
	adminRole, err := u.roleRepo.FindByName(ctx, tx, entity.RoleAdmin)
	if err != nil {
		u.log.Warnf("Failed to find admin role: %+v", err)
		return nil, err
	}
	if adminRole == nil {
		return nil, ErrRoleNotFound
	}

	clinic := &entity.Clinic{
		Name:               req.ClinicName,
		Timezone:           tz,
		Phone:              req.Phone,
		Address:            req.Address,
		SubscriptionStatus: entity.SubscriptionStatusNone,
	}
	if err := u.clinicRepo.Create(ctx, tx, clinic); err != nil {
		u.log.Warnf("Failed to create clinic: %+v", err)
		return nil, err
	}

	active := true
	user := &entity.User{
		ClinicID: clinic.ID,
		RoleID:   adminRole.ID,
		Role:     *adminRole,
		Email:    strings.ToLower(req.Email),
		Password: string(hashedPassword),
		FullName: req.FullName,
		IsActive: &active,
	}
	if err := u.userRepo.Create(ctx, tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		if isForeignKeyError(err, "role") {
			return nil, ErrRoleNotFound
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, tx, service.AuditEntry{
		ClinicID:   clinic.ID,
		UserID:     &user.ID,
		Action:     entity.AuditActionClinicRegister,
		EntityName: "clinic",
		EntityID:   clinic.ID.String(),
	}, converter.ClinicToResponse(clinic)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return &dto.RegisterClinicResponse{
		Clinic: *converter.ClinicToResponse(clinic),
		Admin:  *converter.UserToResponse(user),
	}, nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// read-only, no transaction needed
	user, err := u.userRepo.FindByEmail(ctx, u.db, strings.ToLower(req.Email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.Active() {
		return nil, ErrUserInactive
	}

	tokens, err := u.issueTokens(ctx, jwt.Identity{
		UserID:   user.ID,
		ClinicID: user.ClinicID,
		Email:    user.Email,
		RoleID:   user.RoleID,
	})
	if err != nil {
		return nil, err
	}

	if err := u.auditService.LogCreate(ctx, u.db, service.AuditEntry{
		ClinicID:   user.ClinicID,
		UserID:     &user.ID,
		Action:     entity.AuditActionUserLogin,
		EntityName: "user",
		EntityID:   user.ID.String(),
	}, nil); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return tokens, nil
}

// Logout revokes the access token of the request and, when given, the refresh token
func (u *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	accessTokenID, _ := middleware.GetTokenIDFromContext(ctx)

	if err := u.tokenStore.Revoke(ctx, userID, jwt.AccessToken, accessTokenID); err != nil {
		return err
	}

	if refreshToken != "" {
		claims, err := u.jwtService.ValidateToken(refreshToken)
		if err == nil && claims.TokenType == jwt.RefreshToken && claims.UserID == userID {
			if err := u.tokenStore.Revoke(ctx, userID, jwt.RefreshToken, claims.TokenID); err != nil {
				return err
			}
		}
	}

	if clinicID, ok := middleware.GetClinicIDFromContext(ctx); ok {
		if err := u.auditService.LogCreate(ctx, u.db, service.AuditEntry{
			ClinicID:   clinicID,
			UserID:     &userID,
			Action:     entity.AuditActionUserLogout,
			EntityName: "user",
			EntityID:   userID.String(),
		}, nil); err != nil {
			u.log.Warnf("Failed to create audit log: %+v", err)
		}
	}

	return nil
}

// RefreshToken rotates the refresh token: the old one is revoked before new tokens are issued
func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateToken(req.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != jwt.RefreshToken {
		return nil, ErrInvalidToken
	}

	valid, err := u.tokenStore.IsValid(ctx, claims.UserID, jwt.RefreshToken, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, ErrTokenRevoked
	}

	if err := u.tokenStore.Revoke(ctx, claims.UserID, jwt.RefreshToken, claims.TokenID); err != nil {
		return nil, err
	}

	// role or status may have changed since the token was issued
	user, err := u.userRepo.FindByID(ctx, u.db, claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.Active() {
		return nil, ErrUserInactive
	}

	return u.issueTokens(ctx, jwt.Identity{
		UserID:   user.ID,
		ClinicID: user.ClinicID,
		Email:    user.Email,
		RoleID:   user.RoleID,
	})
}

func (u *authUsecase) GetCurrentUser(ctx context.Context) (*dto.UserResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	user, err := u.userRepo.FindByID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

func (u *authUsecase) issueTokens(ctx context.Context, id jwt.Identity) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(id)
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(id)
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.tokenStore.Store(ctx, id.UserID, jwt.AccessToken, accessTokenID, u.jwtService.GetAccessExpiry()); err != nil {
		return nil, err
	}
	if err := u.tokenStore.Store(ctx, id.UserID, jwt.RefreshToken, refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}
