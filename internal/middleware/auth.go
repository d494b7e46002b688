package middleware

import (
	"context"
	"errors"
	"strings"
	"time"

	"clinicdesk/config"
	"clinicdesk/internal/domain/user"
	appErrors "clinicdesk/internal/errors"
	"clinicdesk/internal/logger"
	"clinicdesk/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

const (
	ContextUserID = "user_id"
	ContextEmail  = "user_email"
	ContextRole   = "role"

	devSecret = "clinicdesk-dev-secret"
)

var (
	ErrMissingToken = appErrors.NewAuthError("MISSING_TOKEN", "Token de acesso não informado")
	ErrInvalidToken = appErrors.NewAuthError("INVALID_TOKEN", "Token inválido")
	ErrExpiredToken = appErrors.NewAuthError("TOKEN_EXPIRED", "Token expirado")
)

type UserLookup interface {
	GetByID(ctx context.Context, id ulid.ULID) (*user.User, error)
}

type Claims struct {
	Email string    `json:"email"`
	Role  user.Role `json:"role"`
	jwt.RegisteredClaims
}

type JwtService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	users      UserLookup
}

func NewJwtService(cfg config.JWTConfig, users UserLookup) (*JwtService, error) {
	secret := cfg.Secret
	if secret == "" {
		logger.Warn().Msg("JWT_SECRET não definido, usando segredo de desenvolvimento")
		secret = devSecret
	}
	if cfg.Expiration <= 0 {
		return nil, errors.New("middleware: expiração do JWT deve ser positiva")
	}
	return &JwtService{
		secret:     []byte(secret),
		expiration: cfg.Expiration,
		issuer:     cfg.Issuer,
		users:      users,
	}, nil
}

func (j *JwtService) CreateToken(u *user.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Id.String(),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.expiration)),
		},
	})

	signed, err := token.SignedString(j.secret)
	if err != nil {
		return "", appErrors.ErrInternalServer.WithError(err)
	}
	return signed, nil
}

func (j *JwtService) ExpiresIn() time.Duration {
	return j.expiration
}

func (j *JwtService) ValidateToken(tokenString string) (*Claims, error) {
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if j.issuer != "" {
		options = append(options, jwt.WithIssuer(j.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return j.secret, nil
	}, options...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken.WithError(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// AuthMiddleware valida o bearer token e carrega o papel atual do usuário.
func AuthMiddleware(j *JwtService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, ErrMissingToken)
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortWithError(c, ErrInvalidToken)
			return
		}

		claims, err := j.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			abortWithError(c, err)
			return
		}

		userID, err := pkg.ParseULID(claims.Subject)
		if err != nil {
			abortWithError(c, ErrInvalidToken.WithError(err))
			return
		}

		role := claims.Role
		if j.users != nil {
			current, err := j.users.GetByID(c.Request.Context(), userID)
			if err != nil {
				abortWithError(c, appErrors.ErrUnauthorized.WithError(err))
				return
			}
			role = current.Role
		}

		c.Set(ContextUserID, userID.String())
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, role)
		c.Next()
	}
}

func abortWithError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	payload := gin.H{
		"error":   appErr.Code,
		"message": appErr.Message,
	}
	if len(appErr.Details) > 0 {
		payload["details"] = appErr.Details
	}
	c.AbortWithStatusJSON(appErr.StatusCode, payload)
}
