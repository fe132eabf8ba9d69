package handler

import (
	"fmt"
	"net/http"
	"sort"

	"backend/internal/analysis"
	"backend/internal/middleware"
	"backend/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type QueryHandler interface {
	Query(c *gin.Context)
	Suggestions(c *gin.Context)
	Analytics(c *gin.Context)
}

type queryHandler struct {
	contractRepo repository.ContractRepository
	logger       *zap.Logger
}

func NewQueryHandler(contractRepo repository.ContractRepository, logger *zap.Logger) QueryHandler {
	return &queryHandler{contractRepo: contractRepo, logger: logger}
}

// canned suggestions shown before the user's own contracts contribute any.
var baseSuggestions = []string{
	"Show me all contracts expiring this month",
	"Find contracts with payment terms",
	"Show high-risk contracts",
	"Find contracts with termination clauses",
	"Show all draft contracts",
}

const maxSuggestions = 8

// Query handles POST /api/query: substring search re-ranked by cosine
// similarity of the mock embeddings. Not semantic search, but stable and
// good enough for the prototype.
func (h *queryHandler) Query(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Limit <= 0 {
		req.Limit = 10
	}

	contracts, err := h.contractRepo.SearchContracts(user.ID, req.Query, req.Limit)
	if err != nil {
		h.logger.Error("Failed to query contracts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to query contracts"})
		return
	}

	queryEmbedding := analysis.SemanticEmbedding(req.Query)
	similarity := make(map[string]float64, len(contracts))
	for _, contract := range contracts {
		contractEmbedding := analysis.SemanticEmbedding(contract.Title + " " + contract.Content)
		similarity[contract.ID] = analysis.CosineSimilarity(queryEmbedding, contractEmbedding)
	}
	sort.SliceStable(contracts, func(i, j int) bool {
		return similarity[contracts[i].ID] > similarity[contracts[j].ID]
	})

	c.JSON(http.StatusOK, SearchResponse{
		Results: contracts,
		Total:   len(contracts),
		Query:   req.Query,
	})
}

// Suggestions handles GET /api/query/suggestions
func (h *queryHandler) Suggestions(c *gin.Context) {
	user := middleware.CurrentUser(c)

	contracts, err := h.contractRepo.SearchContracts(user.ID, "", 5)
	if err != nil {
		h.logger.Error("Failed to load contracts for suggestions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load suggestions"})
		return
	}

	suggestions := append([]string{}, baseSuggestions...)
	for _, contract := range contracts {
		suggestions = append(suggestions, fmt.Sprintf("Find contracts similar to %s", contract.Title))
	}
	if len(suggestions) > maxSuggestions {
		suggestions = suggestions[:maxSuggestions]
	}

	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

// Analytics handles GET /api/analytics. The risk split is a fixed mock:
// a quarter high, half medium, the remainder low.
func (h *queryHandler) Analytics(c *gin.Context) {
	user := middleware.CurrentUser(c)

	contracts, _, err := h.contractRepo.ListContracts(user.ID, repository.ListOptions{Page: 1, PerPage: 1000})
	if err != nil {
		h.logger.Error("Failed to load contracts for analytics", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load analytics"})
		return
	}

	total := len(contracts)
	statusCounts := map[string]int{}
	recentActivity := 0
	for _, contract := range contracts {
		statusCounts[contract.Status]++
		if contract.Status == "uploaded" {
			recentActivity++
		}
	}

	highRisk := total / 4
	mediumRisk := total / 2
	c.JSON(http.StatusOK, gin.H{
		"total_contracts":  total,
		"status_breakdown": statusCounts,
		"risk_analysis": gin.H{
			"high_risk":   highRisk,
			"medium_risk": mediumRisk,
			"low_risk":    total - highRisk - mediumRisk,
		},
		"recent_activity": recentActivity,
	})
}
