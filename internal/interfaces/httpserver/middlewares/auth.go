package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/daosail/daosail-server/internal/domain"
	"github.com/daosail/daosail-server/internal/domain/profile"
	"github.com/daosail/daosail-server/internal/domain/roles"
	"github.com/daosail/daosail-server/internal/domain/user"
	authvalidator "github.com/daosail/daosail-server/internal/infrastructure/auth"
	"github.com/daosail/daosail-server/internal/interfaces/httpserver/responses"
)

const (
	principalContextKey = "principal"
	guestIDHeader       = "X-Guest-ID"
	guestIDMaxLen       = 128
)

// UserProvisioner upserts the member record on first sight of a token subject.
type UserProvisioner interface {
	EnsureUser(ctx context.Context, identity user.Identity) (*user.User, error)
}

// TierResolver reads the member profile to resolve the caller's role tier.
type TierResolver interface {
	Get(ctx context.Context, userID string) (*profile.Profile, error)
}

// AuthMiddleware requires a valid bearer token and attaches the member principal.
func AuthMiddleware(validator *authvalidator.OIDCValidator, users UserProvisioner, tiers TierResolver, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok, err := memberPrincipal(c, validator, users, tiers, logger)
		if err != nil {
			logger.Warn().Err(err).Str("path", c.FullPath()).Msg("jwt validation failed")
			responses.HandleErrorWithStatus(c, http.StatusUnauthorized, err, "unauthorized")
			return
		}
		if !ok {
			responses.HandleErrorWithStatus(c, http.StatusUnauthorized, errors.New("authentication required"), "unauthorized")
			return
		}

		setPrincipal(c, principal)
		c.Next()
	}
}

// OptionalAuthMiddleware accepts a bearer token, a guest id header, or nothing.
// With a token the member principal is attached; with only a guest id the
// caller becomes a guest principal. A present but invalid token still fails.
func OptionalAuthMiddleware(validator *authvalidator.OIDCValidator, users UserProvisioner, tiers TierResolver, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok, err := memberPrincipal(c, validator, users, tiers, logger)
		if err != nil {
			logger.Warn().Err(err).Str("path", c.FullPath()).Msg("jwt validation failed")
			responses.HandleErrorWithStatus(c, http.StatusUnauthorized, err, "unauthorized")
			return
		}
		if ok {
			setPrincipal(c, principal)
			c.Next()
			return
		}

		if guestID := guestIDFrom(c); guestID != "" {
			setPrincipal(c, domain.Principal{
				AuthMethod: domain.AuthMethodGuest,
				GuestID:    guestID,
				RoleLabel:  roles.TierPublic.String(),
			})
		}
		c.Next()
	}
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(c *gin.Context) (domain.Principal, bool) {
	val, ok := c.Get(principalContextKey)
	if !ok {
		return domain.Principal{}, false
	}
	principal, ok := val.(domain.Principal)
	return principal, ok
}

func memberPrincipal(c *gin.Context, validator *authvalidator.OIDCValidator, users UserProvisioner, tiers TierResolver, logger zerolog.Logger) (domain.Principal, bool, error) {
	token, ok := bearerToken(c)
	if !ok {
		return domain.Principal{}, false, nil
	}

	claims, err := validator.Validate(c.Request.Context(), token)
	if err != nil {
		return domain.Principal{}, false, err
	}

	identity := user.Identity{
		Issuer:  claims.Issuer,
		Subject: claims.Subject,
	}
	if claims.Email != "" {
		identity.Email = &claims.Email
	}
	if claims.Name != "" {
		identity.Name = &claims.Name
	}

	member, err := users.EnsureUser(c.Request.Context(), identity)
	if err != nil {
		return domain.Principal{}, false, err
	}

	tier := roles.TierInterested
	if prof, err := tiers.Get(c.Request.Context(), member.ID); err == nil && prof != nil {
		tier = prof.Tier
	} else if err != nil {
		logger.Warn().Err(err).Str("user_id", member.ID).Msg("tier lookup failed, using base tier")
	}

	return domain.Principal{
		ID:         member.ID,
		AuthMethod: domain.AuthMethodJWT,
		Subject:    claims.Subject,
		Issuer:     claims.Issuer,
		Email:      claims.Email,
		Name:       claims.Name,
		RoleLabel:  tier.String(),
	}, true, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func guestIDFrom(c *gin.Context) string {
	guestID := strings.TrimSpace(c.GetHeader(guestIDHeader))
	if guestID == "" || len(guestID) > guestIDMaxLen {
		return ""
	}
	return guestID
}

func setPrincipal(c *gin.Context, principal domain.Principal) {
	c.Set(principalContextKey, principal)
	// expose commonly-used identity values for downstream handlers
	c.Set("user_id", principal.ID)
	c.Set("user_email", principal.Email)
	if principal.ID != "" {
		c.Writer.Header().Set("X-User-ID", principal.ID)
	}
	c.Writer.Header().Set("X-Auth-Method", string(principal.AuthMethod))
}
