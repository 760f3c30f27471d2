package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/armonia-music/pos-backend/internal/auth/domain"
	"github.com/armonia-music/pos-backend/internal/auth/repository"
	"github.com/armonia-music/pos-backend/internal/platform/config"
	"github.com/armonia-music/pos-backend/internal/platform/logger"
	"github.com/armonia-music/pos-backend/internal/platform/storage"
)

var (
	ErrInvalidCredentials = errors.New("invalid name or password")
	ErrLoginLocked        = errors.New("too many failed attempts, login temporarily locked")
	ErrNoSession          = errors.New("no active session")
)

type AuthService interface {
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*domain.User, error)
	// ParseToken validates a JWT and returns the user it encodes.
	ParseToken(tokenString string) (*domain.User, error)
	// SweepExpiredBlock drops the lockout record once its window has passed.
	// Called lazily on login and periodically by the scheduler.
	SweepExpiredBlock(ctx context.Context)

	// Register creates an active customer account from the public sign-up
	// form. The password is stored hashed with the directory entry.
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error)

	// User directory management, for the admin screen.
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, req domain.UserRequest) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, req domain.UserRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}

type demoAccount struct {
	passwordHash []byte
	role         domain.Role
}

type authServiceImpl struct {
	store     storage.Store
	users     repository.UserRepository
	cfg       config.AuthConfig
	accounts  map[string]demoAccount
	scheduler *cron.Cron
}

// NewAuthService hashes the predefined employee credentials and starts the
// lockout sweeper.
func NewAuthService(users repository.UserRepository, store storage.Store, cfg config.AuthConfig) (AuthService, error) {
	s := &authServiceImpl{
		store:    store,
		users:    users,
		cfg:      cfg,
		accounts: make(map[string]demoAccount),
	}

	demoUsers := []struct {
		name     string
		password string
		role     domain.Role
	}{
		{"admin", "admin123", domain.RoleAdmin},
		{"vendedor", "vend123", domain.RoleSeller},
		{"inventario", "inv123", domain.RoleInventory},
	}
	for _, u := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash demo credentials: %w", err)
		}
		s.accounts[u.name] = demoAccount{passwordHash: hash, role: u.role}
	}

	s.scheduler = cron.New()
	s.scheduler.AddFunc("@every 1m", func() {
		s.SweepExpiredBlock(context.Background())
	})
	s.scheduler.Start()

	return s, nil
}

func (s *authServiceImpl) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, ErrInvalidCredentials
	}

	if err := s.checkBlock(ctx); err != nil {
		return nil, err
	}

	var user domain.User
	switch req.Type {
	case "Cliente":
		// A registered customer logs in under the directory identity; an
		// unknown name still gets a transient session, as walk-ins do not
		// have to sign up first.
		stored, err := s.users.GetByName(ctx, req.Name)
		switch {
		case err == nil:
			if !stored.Active {
				return nil, ErrInvalidCredentials
			}
			user = stored.User
		case errors.Is(err, repository.ErrUserNotFound):
			user = domain.User{
				ID:        uuid.NewString(),
				Name:      req.Name,
				Role:      domain.RoleCustomer,
				Active:    true,
				CreatedAt: time.Now(),
			}
		default:
			return nil, err
		}
	default:
		account, ok := s.accounts[strings.ToLower(req.Name)]
		if !ok {
			s.recordFailure(ctx)
			return nil, ErrInvalidCredentials
		}
		if err := bcrypt.CompareHashAndPassword(account.passwordHash, []byte(req.Password)); err != nil {
			s.recordFailure(ctx)
			return nil, ErrInvalidCredentials
		}
		user = domain.User{
			ID:        uuid.NewString(),
			Name:      strings.ToLower(req.Name),
			Role:      account.role,
			Active:    true,
			CreatedAt: time.Now(),
		}
	}

	s.clearBlock(ctx)

	token, err := s.signToken(user)
	if err != nil {
		logger.Error("Login: failed to sign token", err)
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	if data, err := json.Marshal(user); err == nil {
		if err := s.store.Set(ctx, storage.KeySession, string(data)); err != nil {
			logger.Error("Login: failed to persist session", err)
		}
	}

	return &domain.LoginResponse{User: user, Token: token}, nil
}

func (s *authServiceImpl) signToken(user domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"name": user.Name,
		"role": string(user.Role),
		"exp":  time.Now().Add(s.cfg.TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *authServiceImpl) ParseToken(tokenString string) (*domain.User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	id, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)
	if name == "" || role == "" {
		return nil, ErrInvalidCredentials
	}
	return &domain.User{ID: id, Name: name, Role: domain.Role(role), Active: true}, nil
}

func (s *authServiceImpl) Logout(ctx context.Context) error {
	return s.store.Delete(ctx, storage.KeySession)
}

func (s *authServiceImpl) CurrentUser(ctx context.Context) (*domain.User, error) {
	raw, err := s.store.Get(ctx, storage.KeySession)
	if err != nil {
		if errors.Is(err, storage.ErrNoValue) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &user, nil
}

func (s *authServiceImpl) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(req.Name + " " + req.LastName),
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      domain.RoleCustomer,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if err := s.users.Insert(ctx, repository.Record{User: user, PasswordHash: string(hash)}); err != nil {
		return nil, err
	}
	logger.Info("Auth: registered customer " + user.Name)
	return &user, nil
}

func (s *authServiceImpl) ListUsers(ctx context.Context) ([]domain.User, error) {
	records, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.User, len(records))
	for i, r := range records {
		out[i] = r.User
	}
	return out, nil
}

func (s *authServiceImpl) CreateUser(ctx context.Context, req domain.UserRequest) (*domain.User, error) {
	user := domain.User{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      req.Role,
		Active:    true,
		CreatedAt: time.Now(),
	}
	if req.Active != nil {
		user.Active = *req.Active
	}
	if err := s.users.Insert(ctx, repository.Record{User: user}); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *authServiceImpl) UpdateUser(ctx context.Context, id string, req domain.UserRequest) (*domain.User, error) {
	record, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	record.Name = req.Name
	record.Email = req.Email
	record.Phone = req.Phone
	record.Role = req.Role
	if req.Active != nil {
		record.Active = *req.Active
	}
	if err := s.users.Replace(ctx, id, *record); err != nil {
		return nil, err
	}
	return &record.User, nil
}

func (s *authServiceImpl) DeleteUser(ctx context.Context, id string) error {
	return s.users.Delete(ctx, id)
}

func (s *authServiceImpl) loadBlock(ctx context.Context) *domain.LoginBlock {
	raw, err := s.store.Get(ctx, storage.KeyLoginLock)
	if err != nil {
		if !errors.Is(err, storage.ErrNoValue) {
			logger.Error("Auth: failed to load login block", err)
		}
		return nil
	}
	var block domain.LoginBlock
	if err := json.Unmarshal([]byte(raw), &block); err != nil {
		logger.Error("Auth: malformed login block, dropping it", err)
		s.clearBlock(ctx)
		return nil
	}
	return &block
}

func (s *authServiceImpl) checkBlock(ctx context.Context) error {
	block := s.loadBlock(ctx)
	if block == nil {
		return nil
	}
	elapsed := time.Since(block.Timestamp)
	if block.Attempts >= s.cfg.MaxAttempts && elapsed < s.cfg.BlockDuration {
		remaining := (s.cfg.BlockDuration - elapsed).Round(time.Second)
		return fmt.Errorf("%w: retry in %s", ErrLoginLocked, remaining)
	}
	if elapsed >= s.cfg.BlockDuration {
		s.clearBlock(ctx)
	}
	return nil
}

func (s *authServiceImpl) recordFailure(ctx context.Context) {
	block := s.loadBlock(ctx)
	if block == nil || time.Since(block.Timestamp) >= s.cfg.BlockDuration {
		block = &domain.LoginBlock{Timestamp: time.Now()}
	}
	block.Attempts++
	if data, err := json.Marshal(block); err == nil {
		if err := s.store.Set(ctx, storage.KeyLoginLock, string(data)); err != nil {
			logger.Error("Auth: failed to persist login block", err)
		}
	}
	if block.Attempts >= s.cfg.MaxAttempts {
		logger.Warn("Auth: login locked after %d failed attempts", block.Attempts)
	}
}

func (s *authServiceImpl) clearBlock(ctx context.Context) {
	if err := s.store.Delete(ctx, storage.KeyLoginLock); err != nil {
		logger.Error("Auth: failed to clear login block", err)
	}
}

func (s *authServiceImpl) SweepExpiredBlock(ctx context.Context) {
	block := s.loadBlock(ctx)
	if block == nil {
		return
	}
	if time.Since(block.Timestamp) >= s.cfg.BlockDuration {
		logger.Info("Auth: clearing expired login block")
		s.clearBlock(ctx)
	}
}
