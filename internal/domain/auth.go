package domain

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/questx-lab/agora/internal/entity"
	"github.com/questx-lab/agora/internal/model"
	"github.com/questx-lab/agora/internal/repository"
	"github.com/questx-lab/agora/pkg/errorx"
	"github.com/questx-lab/agora/pkg/xcontext"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthDomain interface {
	Register(context.Context, *model.RegisterRequest) (*model.RegisterResponse, error)
	Login(context.Context, *model.LoginRequest) (*model.LoginResponse, error)
	Logout(context.Context, *model.LogoutRequest) (*model.LogoutResponse, error)
}

type authDomain struct {
	userRepo         repository.UserRepository
	statsRepo        repository.StatsRepository
	revokedTokenRepo repository.RevokedTokenRepository
}

func NewAuthDomain(
	userRepo repository.UserRepository,
	statsRepo repository.StatsRepository,
	revokedTokenRepo repository.RevokedTokenRepository,
) AuthDomain {
	return &authDomain{
		userRepo:         userRepo,
		statsRepo:        statsRepo,
		revokedTokenRepo: revokedTokenRepo,
	}
}

func (d *authDomain) Register(
	ctx context.Context, req *model.RegisterRequest,
) (*model.RegisterResponse, error) {
	if err := checkUsername(req.Username); err != nil {
		return nil, err
	}

	if err := checkEmail(req.Email); err != nil {
		return nil, err
	}

	if err := checkPassword(req.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot hash password: %v", err)
		return nil, errorx.Unknown
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if _, err := d.userRepo.GetByUsername(ctx, req.Username); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Username is already taken")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get user by username: %v", err)
		return nil, errorx.Unknown
	}

	if _, err := d.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get user by email: %v", err)
		return nil, errorx.Unknown
	}

	user := &entity.User{
		Base:         entity.Base{ID: uuid.NewString()},
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	err = d.userRepo.Create(ctx, user)
	if err := createRelation(ctx, err, "Username or email is already taken", "create user"); err != nil {
		return nil, err
	}

	if err := d.statsRepo.CreateUserStats(ctx, user.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create user stats: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit transaction: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RegisterResponse{User: model.ConvertUser(user, &entity.UserStats{}, true)}, nil
}

func (d *authDomain) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := d.userRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.Unauthenticated, "Invalid username or password")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password))
	if err != nil {
		return nil, errorx.New(errorx.Unauthenticated, "Invalid username or password")
	}

	cfg := xcontext.Configs(ctx).Auth.AccessToken
	token, err := xcontext.TokenEngine(ctx).Generate(cfg.Expiration, model.AccessToken{
		ID:       user.ID,
		Username: user.Username,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate access token: %v", err)
		return nil, errorx.Unknown
	}

	expiresAt, err := xcontext.TokenEngine(ctx).ExpiresAt(token)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot read expiration of access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt.Format(model.DefaultTimeLayout),
	}, nil
}

// Logout revokes the access token of the request until it expires.
func (d *authDomain) Logout(ctx context.Context, req *model.LogoutRequest) (*model.LogoutResponse, error) {
	token := xcontext.AccessToken(ctx)
	if token == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Need authentication")
	}

	expiresAt, err := xcontext.TokenEngine(ctx).ExpiresAt(token)
	if err != nil {
		return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
	}

	if err := d.revokedTokenRepo.Revoke(ctx, token, expiresAt); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot revoke access token: %v", err)
		return nil, errorx.Unknown
	}

	return &model.LogoutResponse{}, nil
}
