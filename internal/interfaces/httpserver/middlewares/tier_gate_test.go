package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/daosail/daosail-server/internal/domain"
	"github.com/daosail/daosail-server/internal/domain/roles"
)

func tierGateRouter(min roles.Tier, principal *domain.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/gated", func(c *gin.Context) {
		if principal != nil {
			setPrincipal(c, *principal)
		}
		c.Next()
	}, RequireTier(min), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRequireTier(t *testing.T) {
	tests := []struct {
		name       string
		min        roles.Tier
		principal  *domain.Principal
		wantStatus int
	}{
		{
			name:       "no principal",
			min:        roles.TierSailor,
			principal:  nil,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "guest principal has no member id",
			min:        roles.TierInterested,
			principal:  &domain.Principal{AuthMethod: domain.AuthMethodGuest, GuestID: "g-1", RoleLabel: "public"},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "tier below minimum",
			min:        roles.TierPartner,
			principal:  &domain.Principal{ID: "u-1", AuthMethod: domain.AuthMethodJWT, RoleLabel: roles.TierSailor.String()},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "tier at minimum",
			min:        roles.TierSailor,
			principal:  &domain.Principal{ID: "u-1", AuthMethod: domain.AuthMethodJWT, RoleLabel: roles.TierSailor.String()},
			wantStatus: http.StatusOK,
		},
		{
			name:       "tier above minimum",
			min:        roles.TierPassenger,
			principal:  &domain.Principal{ID: "u-1", AuthMethod: domain.AuthMethodJWT, RoleLabel: roles.TierAdmin.String()},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown role label fails closed",
			min:        roles.TierInterested,
			principal:  &domain.Principal{ID: "u-1", AuthMethod: domain.AuthMethodJWT, RoleLabel: "капитан-загадка"},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tierGateRouter(tt.min, tt.principal)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/gated", nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	admin := &domain.Principal{ID: "u-1", AuthMethod: domain.AuthMethodJWT, RoleLabel: roles.TierAdmin.String()}
	partner := &domain.Principal{ID: "u-2", AuthMethod: domain.AuthMethodJWT, RoleLabel: roles.TierPartner.String()}

	w := httptest.NewRecorder()
	tierGateRouter(roles.TierAdmin, admin).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gated", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	tierGateRouter(roles.TierAdmin, partner).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gated", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
