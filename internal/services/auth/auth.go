package auth

import (
	"context"
	"errors"
	"log/slog"
	"movieapp/proj/internal/domain/models"
	"movieapp/proj/internal/storage"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const TokenTypeBearer = "bearer"

type UsersStorage interface {
	Insert(ctx context.Context, email, username string, passwordHash []byte) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, offset, limit int) ([]models.User, error)
}

type MailProvider interface {
	Send(recipient string, tmplName string, tmplData any) error
}

type TaskExecutor interface {
	Add(task func())
}

type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

type AuthService struct {
	log          *slog.Logger
	storage      UsersStorage
	Mailer       MailProvider
	taskExecutor TaskExecutor
	tokens       TokenConfig
	now          func() time.Time
}

// New builds the service. mailer may be nil, in which case no e-mails are
// sent.
func New(
	log *slog.Logger,
	storage UsersStorage,
	mailer MailProvider,
	taskExecutor TaskExecutor,
	tokens TokenConfig,
) *AuthService {
	return &AuthService{
		log:          log,
		storage:      storage,
		Mailer:       mailer,
		taskExecutor: taskExecutor,
		tokens:       tokens,
		now:          time.Now,
	}
}

type accessClaims struct {
	UID int64 `json:"uid"`
	jwt.RegisteredClaims
}

func (a *AuthService) sendWelcomeEmail(user *models.User) {
	a.log.Info("sending welcome email", "user_id", user.ID)
	err := a.Mailer.Send(
		user.Email,
		"user_welcome.tmpl",
		map[string]any{
			"username": user.Username,
			"userID":   user.ID,
		})
	if err != nil {
		a.log.Error("Error sending welcome email", "errMsg", err.Error())
	}
}

func (a *AuthService) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	const op = "auth.AuthService.Register"
	log := a.log.With("op", op, "email", email)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Error hashing password", "errMsg", err.Error())
		return nil, err
	}
	user, err := a.storage.Insert(ctx, email, username, hash)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			log.Info("user already exists")
			return nil, ErrUserAlreadyExists
		}
		log.Error(err.Error())
		return nil, err
	}
	if a.Mailer != nil && a.taskExecutor != nil {
		a.taskExecutor.Add(func() {
			a.sendWelcomeEmail(user)
		})
	}
	return user, nil
}

func (a *AuthService) Login(ctx context.Context, email, password string) (*models.AuthTokens, error) {
	const op = "auth.AuthService.Login"
	log := a.log.With("op", op, "email", email)
	user, err := a.storage.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("unknown email")
			return nil, ErrInvalidCredentials
		}
		log.Error(err.Error())
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		log.Info("password mismatch")
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		log.Info("inactive user")
		return nil, ErrInvalidCredentials
	}
	token, err := a.issueToken(user)
	if err != nil {
		log.Error("Error signing token", "errMsg", err.Error())
		return nil, err
	}
	return &models.AuthTokens{AccessToken: token, TokenType: TokenTypeBearer}, nil
}

func (a *AuthService) issueToken(user *models.User) (string, error) {
	now := a.now()
	claims := accessClaims{
		UID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.tokens.TTL)),
			ID:        uuid.NewString(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.tokens.Secret))
}

// UserFromToken validates an access token and loads its active owner.
func (a *AuthService) UserFromToken(ctx context.Context, token string) (*models.User, error) {
	const op = "auth.AuthService.UserFromToken"
	log := a.log.With("op", op)
	claims := &accessClaims{}
	_, err := jwt.ParseWithClaims(
		token,
		claims,
		func(*jwt.Token) (any, error) {
			return []byte(a.tokens.Secret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		log.Debug("invalid token", "errMsg", err.Error())
		return nil, ErrInvalidToken
	}
	user, err := a.storage.GetByID(ctx, claims.UID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Warn("token owner not found", "user_id", claims.UID)
			return nil, ErrInvalidToken
		}
		log.Error(err.Error())
		return nil, err
	}
	if !user.IsActive || user.Email != claims.Subject {
		log.Warn("token does not match an active user", "user_id", user.ID)
		return nil, ErrInvalidToken
	}
	return user, nil
}

func (a *AuthService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	const op = "auth.AuthService.GetUser"
	log := a.log.With("op", op, "id", id)
	user, err := a.storage.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Info("user not found")
			return nil, ErrUserNotFound
		}
		log.Error(err.Error())
		return nil, err
	}
	return user, nil
}

func (a *AuthService) ListUsers(ctx context.Context, skip, limit int) ([]models.User, error) {
	const op = "auth.AuthService.ListUsers"
	log := a.log.With("op", op, "skip", skip, "limit", limit)
	users, err := a.storage.List(ctx, skip, limit)
	if err != nil {
		log.Error(err.Error())
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}
