package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newQueryRouter(t *testing.T) (*gin.Engine, *fakeContractRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	contractRepo := newFakeContractRepo()
	contractHandler := NewContractHandler(contractRepo, newFakeAnalysisRepo(), zap.NewNop())
	queryHandler := NewQueryHandler(contractRepo, zap.NewNop())

	router := gin.New()
	api := router.Group("/api", setUser(testUser))
	api.POST("/contracts", contractHandler.CreateContract)
	api.POST("/query", queryHandler.Query)
	api.GET("/query/suggestions", queryHandler.Suggestions)
	api.GET("/analytics", queryHandler.Analytics)

	return router, contractRepo
}

func TestQueryReturnsMatches(t *testing.T) {
	router, _ := newQueryRouter(t)

	createContract(t, router, "Service MSA", "payment due within thirty days", "")
	createContract(t, router, "Office lease", "rent and utilities", "")

	w := doJSON(t, router, http.MethodPost, "/api/query", gin.H{"query": "payment"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "payment", resp.Query)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Service MSA", resp.Results[0].Title)
}

func TestQueryRequiresQuery(t *testing.T) {
	router, _ := newQueryRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/query", gin.H{}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuggestionsCappedAtEight(t *testing.T) {
	router, _ := newQueryRouter(t)

	for _, title := range []string{"A", "B", "C", "D", "E"} {
		createContract(t, router, title, "content", "")
	}

	w := doJSON(t, router, http.MethodGet, "/api/query/suggestions", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Suggestions, 8)
	// The canned suggestions always come first.
	assert.Equal(t, "Show me all contracts expiring this month", resp.Suggestions[0])
}

func TestSuggestionsWithoutContracts(t *testing.T) {
	router, _ := newQueryRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/query/suggestions", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Suggestions, 5)
}

func TestAnalytics(t *testing.T) {
	router, _ := newQueryRouter(t)

	createContract(t, router, "A", "x", "draft")
	createContract(t, router, "B", "x", "uploaded")
	createContract(t, router, "C", "x", "uploaded")
	createContract(t, router, "D", "x", "draft")

	w := doJSON(t, router, http.MethodGet, "/api/analytics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		TotalContracts  int            `json:"total_contracts"`
		StatusBreakdown map[string]int `json:"status_breakdown"`
		RiskAnalysis    struct {
			HighRisk   int `json:"high_risk"`
			MediumRisk int `json:"medium_risk"`
			LowRisk    int `json:"low_risk"`
		} `json:"risk_analysis"`
		RecentActivity int `json:"recent_activity"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 4, resp.TotalContracts)
	assert.Equal(t, map[string]int{"draft": 2, "uploaded": 2}, resp.StatusBreakdown)
	assert.Equal(t, 1, resp.RiskAnalysis.HighRisk)
	assert.Equal(t, 2, resp.RiskAnalysis.MediumRisk)
	assert.Equal(t, 1, resp.RiskAnalysis.LowRisk)
	assert.Equal(t, 2, resp.RecentActivity)
	// Risk buckets always add up to the total.
	assert.Equal(t, resp.TotalContracts, resp.RiskAnalysis.HighRisk+resp.RiskAnalysis.MediumRisk+resp.RiskAnalysis.LowRisk)
}
