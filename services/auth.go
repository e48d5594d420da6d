package services

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"

	"github.com/vidgate-io/vidgate_api/dto"
	"github.com/vidgate-io/vidgate_api/shared"
)

type AuthService struct {
	context.DefaultService

	sqlSvc *PostgresService
	jwtSvc *JWTService
}

const AUTH_SVC = "auth_svc"

const (
	maxFailedLogins = 5
	lockoutDuration = 15 * time.Minute
)

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	return nil
}

func (svc *AuthService) Register(req dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if existing, err := svc.sqlSvc.GetUserByEmailOrUsername(req.Email); err == nil && existing != nil {
		return nil, shared.NewConflictError(nil, "Email already registered")
	}
	if existing, err := svc.sqlSvc.GetUserByEmailOrUsername(req.Username); err == nil && existing != nil {
		return nil, shared.NewConflictError(nil, "Username already taken")
	}

	user, err := svc.sqlSvc.CreateUser(req.Email, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"user_id": user.ID, "username": user.Username}).Info("User registered")

	return &dto.RegisterResponse{
		UserID:    user.ID,
		Email:     user.Email,
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (svc *AuthService) Login(req dto.LoginRequest, clientIP string) (*dto.LoginResponse, error) {
	user, err := svc.sqlSvc.GetUserByEmailOrUsername(req.EmailOrUsername)
	if err != nil {
		return nil, shared.NewUnauthorizedError(nil, "Invalid credentials")
	}

	if !user.IsActive {
		return nil, shared.NewForbiddenError(nil, "Account is disabled")
	}
	if user.LockedUntil != nil && user.LockedUntil.After(time.Now()) {
		return nil, shared.NewForbiddenError(nil, "Account temporarily locked, try again later")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		user.FailedAttempts++
		if user.FailedAttempts >= maxFailedLogins {
			until := time.Now().Add(lockoutDuration)
			user.LockedUntil = &until
			user.FailedAttempts = 0
		}
		_ = svc.sqlSvc.UpdateUser(user)
		return nil, shared.NewUnauthorizedError(nil, "Invalid credentials")
	}

	now := time.Now()
	user.FailedAttempts = 0
	user.LockedUntil = nil
	user.LastLoginAt = &now
	user.LastLoginIP = clientIP
	if err := svc.sqlSvc.UpdateUser(user); err != nil {
		log.WithError(err).Warn("Failed to update login metadata")
	}

	pair, err := svc.jwtSvc.GenerateTokenPair(user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: pair.AccessToken,
		ExpiresIn:   pair.ExpiresIn,
		UserID:      user.ID,
		Username:    user.Username,
		Role:        user.Role,
	}, nil
}

// RequiredAuth verifies the bearer token and stores user identity in the
// request context.
func (svc *AuthService) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := svc.jwtSvc.ExtractTokenFromHeader(c.Get("Authorization"))
		if err != nil {
			return shared.NewUnauthorizedError(err, "Authentication required")
		}

		userID, role, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil {
			return shared.NewUnauthorizedError(err, "Invalid or expired token")
		}

		c.Locals(shared.UserID, userID)
		c.Locals(shared.UserRole, role)
		return c.Next()
	}
}

// RequireRole gates a route to one role; must run after RequiredAuth.
func (svc *AuthService) RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		current, _ := c.Locals(shared.UserRole).(string)
		if current != role {
			return shared.NewForbiddenError(nil, "Insufficient permissions")
		}
		return c.Next()
	}
}
