package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Haleralex/ledgerhub/internal/adapters/http/common"
	"github.com/Haleralex/ledgerhub/internal/application/ports"
	"github.com/Haleralex/ledgerhub/internal/domain/auth"
	"github.com/Haleralex/ledgerhub/internal/domain/entities"
	domainerrors "github.com/Haleralex/ledgerhub/internal/domain/errors"
	"github.com/Haleralex/ledgerhub/internal/pkg/logger"
)

// AuthContextKey is the gin context key holding the resolved
// *auth.Authorization.
const AuthContextKey = "authorization"

// AuthConfig configures the JWT authentication middleware.
type AuthConfig struct {
	Secret string
	Issuer string // expected "iss" claim; empty disables the check
	// Businesses resolves the tenant named in the token.
	Businesses ports.BusinessRepository
	// Cache fronts the tenant lookup; nil disables caching.
	Cache ports.BusinessCache
}

// Claims is the token payload. The issuer kind decides what the caller
// may do; the business claim names the tenant every operation is scoped
// to.
type Claims struct {
	jwt.RegisteredClaims
	IssuerKind string   `json:"issuer_kind"` // user, business, app
	Business   string   `json:"business"`
	UserID     string   `json:"user_id,omitempty"`
	AppID      string   `json:"app_id,omitempty"`
	Scopes     []string `json:"scopes,omitempty"`
}

// Auth validates the Bearer token, resolves the tenant and stores the
// authorization in the gin context. Handlers read it with
// GetAuthorization.
func Auth(config *AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortUnauthorized(c, "authorization header is required")
			return
		}

		claims := &Claims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(config.Secret), nil
		})
		if err != nil || !parsed.Valid {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		if config.Issuer != "" {
			if iss, _ := claims.GetIssuer(); iss != config.Issuer {
				abortUnauthorized(c, "invalid token issuer")
				return
			}
		}

		issuer := entities.Issuer(claims.IssuerKind)
		if !issuer.IsValid() {
			abortUnauthorized(c, "unknown issuer kind")
			return
		}

		if claims.Business == "" {
			abortUnauthorized(c, "token carries no business")
			return
		}

		business, err := resolveBusiness(c, config, claims.Business)
		if err != nil {
			abortUnauthorized(c, "unknown business")
			return
		}

		var userID uuid.UUID
		if claims.UserID != "" {
			userID, err = uuid.Parse(claims.UserID)
			if err != nil {
				abortUnauthorized(c, "malformed user id in token")
				return
			}
		}

		authz := &auth.Authorization{
			Issuer:   issuer,
			UserID:   userID,
			Business: business,
			AppID:    claims.AppID,
			Scopes:   claims.Scopes,
		}
		c.Set(AuthContextKey, authz)

		ctx := logger.WithBusinessName(c.Request.Context(), business.Name())
		if userID != uuid.Nil {
			ctx = logger.WithUserID(ctx, userID.String())
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// resolveBusiness loads the tenant, cache first. Cache errors are
// advisory: the repository remains the source of truth.
func resolveBusiness(c *gin.Context, config *AuthConfig, name string) (*entities.Business, error) {
	ctx := c.Request.Context()

	if config.Cache != nil {
		if cached, err := config.Cache.Get(ctx, name); err == nil && cached != nil {
			return cached, nil
		}
	}

	business, err := config.Businesses.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if config.Cache != nil {
		_ = config.Cache.Set(ctx, business)
	}

	return business, nil
}

// GetAuthorization returns the authorization stored by the Auth
// middleware.
func GetAuthorization(c *gin.Context) (*auth.Authorization, bool) {
	v, exists := c.Get(AuthContextKey)
	if !exists {
		return nil, false
	}
	authz, ok := v.(*auth.Authorization)
	return authz, ok
}

// MockAuth resolves the caller from plain headers instead of a token:
// X-Business names the tenant, X-Issuer the kind (default business),
// X-User-ID the acting user. Development and tests only.
func MockAuth(businesses ports.BusinessRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.GetHeader("X-Business")
		if name == "" {
			abortUnauthorized(c, "X-Business header is required")
			return
		}

		business, err := businesses.FindByName(c.Request.Context(), name)
		if err != nil {
			abortUnauthorized(c, "unknown business")
			return
		}

		issuer := entities.IssuerBusiness
		if kind := c.GetHeader("X-Issuer"); kind != "" {
			issuer = entities.Issuer(kind)
			if !issuer.IsValid() {
				abortUnauthorized(c, "unknown issuer kind")
				return
			}
		}

		var userID uuid.UUID
		if raw := c.GetHeader("X-User-ID"); raw != "" {
			userID, err = uuid.Parse(raw)
			if err != nil {
				abortUnauthorized(c, "malformed X-User-ID header")
				return
			}
		}

		c.Set(AuthContextKey, &auth.Authorization{
			Issuer:   issuer,
			UserID:   userID,
			Business: business,
		})

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, common.ErrorEnvelope{
		StatusCode: http.StatusUnauthorized,
		Error:      domainerrors.CodeAuthorization,
		Message:    message,
	})
}
