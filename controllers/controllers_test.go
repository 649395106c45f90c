package controllers_test

import (
	testutils "Awardly/controllers/testing"
	"Awardly/logging"
	"Awardly/middleware"
	"Awardly/routes"
	"Awardly/services/blob"
	"Awardly/services/ceremony"
	"Awardly/services/identity"
	"Awardly/services/store"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type api struct {
	router   *gin.Engine
	provider *identity.JWTProvider
}

func setupRouter(t *testing.T, opts ...ceremony.Option) *api {
	t.Helper()
	logging.Log = logrus.New()
	logging.Log.SetOutput(io.Discard)
	gin.SetMode(gin.TestMode)

	provider := identity.NewJWTProvider("test-secret", "awardly-test")
	svc := ceremony.NewService(store.NewMemoryStore(), blob.NewMemoryStore("http://blobs.test"), opts...)

	r := gin.New()
	middleware.SetUpMiddleware(r, "test-session-key", false)
	routes.SetupRoutes(r, svc, provider)
	return &api{router: r, provider: provider}
}

func (a *api) bearer(t *testing.T, principal string) map[string]string {
	t.Helper()
	token, err := a.provider.Issue(principal, time.Hour)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func (a *api) do(method, path string, body interface{}, headers map[string]string, cookies ...*http.Cookie) (int, map[string]interface{}) {
	res := testutils.PerformRequest(a.router, method, path, body, headers, cookies...)
	var out map[string]interface{}
	_ = testutils.Decode(res, &out)
	return res.Code, out
}

func (a *api) createLobby(t *testing.T, host map[string]string) (string, string) {
	t.Helper()
	code, out := a.do(http.MethodPost, "/auth/lobbies", gin.H{"name": "Office awards"}, host)
	require.Equal(t, http.StatusCreated, code)
	return out["lobby_id"].(string), out["share_code"].(string)
}

func (a *api) create(t *testing.T, path string, body interface{}, host map[string]string) string {
	t.Helper()
	code, out := a.do(http.MethodPost, path, body, host)
	require.Equal(t, http.StatusCreated, code, "%v", out)
	return out["id"].(string)
}

func TestPing(t *testing.T) {
	a := setupRouter(t)
	code, out := a.do(http.MethodGet, "/ping", nil, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "pong", out["message"])
}

func TestLobbyLifecycleOverHTTP(t *testing.T) {
	a := setupRouter(t)
	host := a.bearer(t, "host@example.com")

	code, _ := a.do(http.MethodPost, "/auth/lobbies", gin.H{"name": "x"}, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = a.do(http.MethodPost, "/auth/lobbies", gin.H{"name": "  "}, host)
	assert.Equal(t, http.StatusBadRequest, code)

	lobbyID, shareCode := a.createLobby(t, host)
	assert.Len(t, shareCode, 6)

	code, out := a.do(http.MethodGet, "/join/"+shareCode, nil, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, lobbyID, out["id"])
	assert.Equal(t, false, out["voting_open"])

	code, _ = a.do(http.MethodGet, "/join/ZZZZZZ", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, out = a.do(http.MethodPost, "/auth/lobbies/"+lobbyID+"/voting/toggle", nil, host)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, out["voting_open"])

	other := a.bearer(t, "someone@example.com")
	code, _ = a.do(http.MethodPost, "/auth/lobbies/"+lobbyID+"/voting/toggle", nil, other)
	assert.Equal(t, http.StatusForbidden, code)

	res := testutils.PerformRequest(a.router, http.MethodGet, "/auth/lobbies", nil, host)
	require.Equal(t, http.StatusOK, res.Code)
	var lobbies []map[string]interface{}
	require.NoError(t, testutils.Decode(res, &lobbies))
	require.Len(t, lobbies, 1)

	code, _ = a.do(http.MethodDelete, "/auth/lobbies/"+lobbyID, nil, other)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = a.do(http.MethodDelete, "/auth/lobbies/"+lobbyID, nil, host)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = a.do(http.MethodGet, "/lobbies/"+lobbyID, nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestVotingOverHTTP(t *testing.T) {
	a := setupRouter(t)
	host := a.bearer(t, "host@example.com")
	lobbyID, shareCode := a.createLobby(t, host)

	ana := a.create(t, "/auth/lobbies/"+lobbyID+"/friends", gin.H{"name": "Ana"}, host)
	bob := a.create(t, "/auth/lobbies/"+lobbyID+"/friends", gin.H{"name": "Bob"}, host)
	award := a.create(t, "/auth/lobbies/"+lobbyID+"/awards", gin.H{"question": "Best cook"}, host)

	vote := gin.H{"award_id": award, "nominee_id": ana, "voter_identity": "cai"}
	code, _ := a.do(http.MethodPost, "/lobbies/"+lobbyID+"/votes", vote, nil)
	assert.Equal(t, http.StatusConflict, code, "voting closed")

	code, _ = a.do(http.MethodPost, "/auth/lobbies/"+lobbyID+"/voting/toggle", nil, host)
	require.Equal(t, http.StatusOK, code)

	code, out := a.do(http.MethodPost, "/lobbies/"+lobbyID+"/votes", vote, nil)
	require.Equal(t, http.StatusOK, code)
	first := out["vote_id"]

	vote["nominee_id"] = bob
	code, out = a.do(http.MethodPost, "/lobbies/"+lobbyID+"/votes", vote, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, first, out["vote_id"])

	code, _ = a.do(http.MethodPost, "/lobbies/"+lobbyID+"/votes", gin.H{"award_id": award}, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	// a voter who joined by share code votes without naming themselves
	res := testutils.PerformRequest(a.router, http.MethodPost, "/join/"+shareCode, gin.H{"voter_name": "Dee"}, nil)
	require.Equal(t, http.StatusOK, res.Code)
	code, _ = a.do(http.MethodPost, "/lobbies/"+lobbyID+"/votes",
		gin.H{"award_id": award, "nominee_id": bob}, nil, res.Result().Cookies()...)
	require.Equal(t, http.StatusOK, code)

	res = testutils.PerformRequest(a.router, http.MethodGet, "/lobbies/"+lobbyID+"/voters", nil, nil)
	var voters []string
	require.NoError(t, testutils.Decode(res, &voters))
	assert.Equal(t, []string{"Dee", "cai"}, voters)

	res = testutils.PerformRequest(a.router, http.MethodGet, "/lobbies/"+lobbyID+"/results", nil, nil)
	require.Equal(t, http.StatusOK, res.Code)
	var results []struct {
		Results []struct {
			Name  string `json:"name"`
			Votes int    `json:"votes"`
		} `json:"results"`
		Outcome struct {
			TopCount  int  `json:"top_count"`
			HasWinner bool `json:"has_winner"`
		} `json:"outcome"`
	}
	require.NoError(t, testutils.Decode(res, &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Bob", results[0].Results[0].Name)
	assert.Equal(t, 2, results[0].Results[0].Votes)
	assert.True(t, results[0].Outcome.HasWinner)

	code, out = a.do(http.MethodDelete, "/auth/lobbies/"+lobbyID+"/votes", nil, host)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), out["deleted"])
}

func TestRosterOverHTTP(t *testing.T) {
	a := setupRouter(t)
	host := a.bearer(t, "host@example.com")
	lobbyID, _ := a.createLobby(t, host)
	ana := a.create(t, "/auth/lobbies/"+lobbyID+"/friends", gin.H{"name": "Ana"}, host)

	code, out := a.do(http.MethodPost, "/auth/lobbies/"+lobbyID+"/awards/bulk",
		gin.H{"questions": []string{"Best cook", "best cook", " ", "Funniest"}}, host)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), out["added"])
	assert.Equal(t, float64(2), out["skipped"])

	res := testutils.PerformRequest(a.router, http.MethodGet, "/lobbies/"+lobbyID+"/awards", nil, nil)
	var awards []map[string]interface{}
	require.NoError(t, testutils.Decode(res, &awards))
	require.Len(t, awards, 2)
	award := awards[0]["id"].(string)

	code, _ = a.do(http.MethodPatch, "/auth/awards/"+award, gin.H{"question": "Best chef"}, host)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = a.do(http.MethodPut, "/auth/awards/"+award+"/nominees", gin.H{"nominee_ids": []string{ana}}, host)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = a.do(http.MethodPut, "/auth/awards/"+award+"/nominees", gin.H{"nominee_ids": []string{"nobody"}}, host)
	assert.Equal(t, http.StatusBadRequest, code)

	code, out = a.do(http.MethodPost, "/auth/uploads", nil, host)
	require.Equal(t, http.StatusOK, code)
	ref := out["image_ref"].(string)
	assert.NotEmpty(t, out["upload_url"])
	code, _ = a.do(http.MethodPut, "/auth/friends/"+ana+"/image", gin.H{"image_ref": ref}, host)
	assert.Equal(t, http.StatusNoContent, code)

	res = testutils.PerformRequest(a.router, http.MethodGet, "/lobbies/"+lobbyID+"/friends", nil, nil)
	var friends []map[string]interface{}
	require.NoError(t, testutils.Decode(res, &friends))
	require.Len(t, friends, 1)
	assert.Contains(t, friends[0]["image_url"], ref)

	code, _ = a.do(http.MethodDelete, "/auth/friends/"+ana, nil, host)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = a.do(http.MethodDelete, "/auth/awards/"+award, nil, host)
	assert.Equal(t, http.StatusNoContent, code)
	code, _ = a.do(http.MethodDelete, "/auth/awards/"+award, nil, host)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = a.do(http.MethodPost, "/public/lobbies/"+lobbyID+"/friends", gin.H{"name": "Walk-in"}, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestPublicFriendJoinOverHTTP(t *testing.T) {
	a := setupRouter(t, ceremony.WithPolicy(ceremony.Policy{PublicFriendJoin: true}))
	host := a.bearer(t, "host@example.com")
	lobbyID, _ := a.createLobby(t, host)

	code, _ := a.do(http.MethodPost, "/public/lobbies/"+lobbyID+"/friends", gin.H{"name": "Walk-in"}, nil)
	assert.Equal(t, http.StatusCreated, code)
	code, _ = a.do(http.MethodPost, "/public/uploads", nil, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestPresentationOverHTTP(t *testing.T) {
	a := setupRouter(t)
	host := a.bearer(t, "host@example.com")
	lobbyID, _ := a.createLobby(t, host)
	for i := 0; i < 3; i++ {
		a.create(t, "/auth/lobbies/"+lobbyID+"/awards", gin.H{"question": fmt.Sprintf("Award %d", i)}, host)
	}
	base := "/auth/lobbies/" + lobbyID + "/presentation"

	code, _ := a.do(http.MethodPost, base+"/slide", gin.H{"slide": 1}, host)
	assert.Equal(t, http.StatusBadRequest, code, "not started")

	code, _ = a.do(http.MethodPost, base+"/start", nil, host)
	require.Equal(t, http.StatusNoContent, code)

	code, _ = a.do(http.MethodPost, base+"/slide", gin.H{}, host)
	assert.Equal(t, http.StatusBadRequest, code, "slide is required")
	code, out := a.do(http.MethodPost, base+"/slide", gin.H{"slide": 6}, host)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(5), out["slide"])

	res := testutils.PerformRequest(a.router, http.MethodGet, "/lobbies/"+lobbyID+"/presentation", nil, nil)
	require.Equal(t, http.StatusOK, res.Code)
	var view map[string]interface{}
	require.NoError(t, testutils.Decode(res, &view))
	assert.Equal(t, "review", view["mode"])
	assert.Equal(t, float64(5), view["slide"])
	assert.Equal(t, true, view["finished"])

	cookies := res.Result().Cookies()
	code, out = a.do(http.MethodPost, "/lobbies/"+lobbyID+"/presentation/review", gin.H{"slide": 0}, nil, cookies...)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), out["slide"])

	code, out = a.do(http.MethodGet, "/lobbies/"+lobbyID+"/presentation?mode=review", nil, nil, cookies...)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), out["slide"])

	code, out = a.do(http.MethodGet, "/lobbies/"+lobbyID+"/presentation?mode=live", nil, nil, cookies...)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(5), out["slide"])
}
