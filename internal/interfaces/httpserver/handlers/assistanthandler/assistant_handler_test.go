package assistanthandler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daosail/daosail-server/internal/domain"
	"github.com/daosail/daosail-server/internal/domain/assistant"
	"github.com/daosail/daosail-server/internal/domain/roles"
)

type catalogResponse struct {
	Assistants []assistant.Info `json:"assistants"`
	Total      int              `json:"total"`
}

func listAssistants(t *testing.T, principal *domain.Principal) catalogResponse {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewAssistantHandler()
	r.GET("/assistants", func(c *gin.Context) {
		if principal != nil {
			c.Set("principal", *principal)
		}
		c.Next()
	}, handler.List)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assistants", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp catalogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func availability(resp catalogResponse) map[assistant.Type]bool {
	out := make(map[assistant.Type]bool, len(resp.Assistants))
	for _, info := range resp.Assistants {
		out[info.ID] = info.Available
	}
	return out
}

func TestListAnonymousCaller(t *testing.T) {
	resp := listAssistants(t, nil)

	assert.Equal(t, len(assistant.Catalog()), resp.Total)
	avail := availability(resp)
	assert.True(t, avail[assistant.TypeNavigator])
	assert.True(t, avail[assistant.TypeSteward])
	assert.False(t, avail[assistant.TypeAIGuide])
	assert.False(t, avail[assistant.TypePersonal])
}

func TestListGuestTreatedAsAnonymous(t *testing.T) {
	guest := &domain.Principal{AuthMethod: domain.AuthMethodGuest, GuestID: "g-1", RoleLabel: "public"}
	avail := availability(listAssistants(t, guest))

	assert.False(t, avail[assistant.TypePersonal])
	assert.False(t, avail[assistant.TypeAIGuide])
}

func TestListPassengerUnlocksPersonal(t *testing.T) {
	member := &domain.Principal{
		ID:         "u-1",
		AuthMethod: domain.AuthMethodJWT,
		RoleLabel:  roles.TierPassenger.String(),
	}
	avail := availability(listAssistants(t, member))

	assert.True(t, avail[assistant.TypePersonal])
	assert.False(t, avail[assistant.TypeAIGuide], "partner persona stays locked below partner tier")
}

func TestListPartnerUnlocksEverything(t *testing.T) {
	member := &domain.Principal{
		ID:         "u-1",
		AuthMethod: domain.AuthMethodJWT,
		RoleLabel:  roles.TierPartner.String(),
	}
	avail := availability(listAssistants(t, member))

	for id, ok := range avail {
		assert.True(t, ok, "expected %s to be available for partner", id)
	}
}
