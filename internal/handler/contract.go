package handler

import (
	"errors"
	"net/http"
	"strconv"

	"backend/internal/analysis"
	"backend/internal/middleware"
	"backend/internal/models"
	"backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ContractHandler interface {
	ListContracts(c *gin.Context)
	CreateContract(c *gin.Context)
	GetContract(c *gin.Context)
	UpdateContract(c *gin.Context)
	DeleteContract(c *gin.Context)
	GetAnalysis(c *gin.Context)
	SearchContracts(c *gin.Context)
}

type contractHandler struct {
	contractRepo repository.ContractRepository
	analysisRepo repository.AnalysisRepository
	logger       *zap.Logger
}

func NewContractHandler(contractRepo repository.ContractRepository, analysisRepo repository.AnalysisRepository, logger *zap.Logger) ContractHandler {
	return &contractHandler{
		contractRepo: contractRepo,
		analysisRepo: analysisRepo,
		logger:       logger,
	}
}

type CreateContractRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
	Status  string `json:"status"`
}

type UpdateContractRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Status  *string `json:"status"`
}

type SearchRequest struct {
	Query string `json:"query" binding:"required"`
	Limit int    `json:"limit"`
}

type SearchResponse struct {
	Results []*models.Contract `json:"results"`
	Total   int                `json:"total"`
	Query   string             `json:"query"`
}

// ListContracts handles GET /api/contracts
// Query parameters:
// - page, per_page: pagination (defaults 1 and 10, per_page capped at 100)
// - search: substring match on title/content (optional)
// - status: filter by status (optional)
// - sort_by, sort_order: created_at|updated_at|title, asc|desc
func (h *contractHandler) ListContracts(c *gin.Context) {
	user := middleware.CurrentUser(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	opts := repository.ListOptions{
		Page:      page,
		PerPage:   perPage,
		Search:    c.Query("search"),
		Status:    c.Query("status"),
		SortBy:    c.DefaultQuery("sort_by", "created_at"),
		SortOrder: c.DefaultQuery("sort_order", "desc"),
	}

	contracts, total, err := h.contractRepo.ListContracts(user.ID, opts)
	if err != nil {
		h.logger.Error("Failed to list contracts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve contracts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contracts": contracts,
		"total":     total,
		"page":      page,
		"per_page":  perPage,
	})
}

// CreateContract handles POST /api/contracts
func (h *contractHandler) CreateContract(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Status == "" {
		req.Status = models.ContractStatusDraft
	}

	contract := &models.Contract{
		ID:      uuid.NewString(),
		UserID:  user.ID,
		Title:   req.Title,
		Content: req.Content,
		Status:  req.Status,
	}
	if err := h.contractRepo.CreateContract(contract); err != nil {
		h.logger.Error("Failed to create contract", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contract"})
		return
	}

	c.JSON(http.StatusOK, contract)
}

// GetContract handles GET /api/contracts/:id and includes the stored
// analysis when one exists.
func (h *contractHandler) GetContract(c *gin.Context) {
	user := middleware.CurrentUser(c)

	contract, err := h.contractRepo.GetContractByID(c.Param("id"), user.ID)
	if err != nil {
		h.respondContractError(c, err)
		return
	}

	storedAnalysis, err := h.analysisRepo.GetAnalysisByContractID(contract.ID)
	if err != nil {
		h.logger.Error("Failed to get contract analysis", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve contract"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contract": contract,
		"analysis": storedAnalysis,
	})
}

// UpdateContract handles PUT /api/contracts/:id with partial semantics:
// absent fields keep their current value.
func (h *contractHandler) UpdateContract(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req UpdateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contract, err := h.contractRepo.GetContractByID(c.Param("id"), user.ID)
	if err != nil {
		h.respondContractError(c, err)
		return
	}

	if req.Title != nil {
		contract.Title = *req.Title
	}
	if req.Content != nil {
		contract.Content = *req.Content
	}
	if req.Status != nil {
		contract.Status = *req.Status
	}

	if err := h.contractRepo.UpdateContract(contract); err != nil {
		h.respondContractError(c, err)
		return
	}

	c.JSON(http.StatusOK, contract)
}

// DeleteContract handles DELETE /api/contracts/:id
func (h *contractHandler) DeleteContract(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if err := h.contractRepo.DeleteContract(c.Param("id"), user.ID); err != nil {
		h.respondContractError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contract deleted successfully"})
}

// GetAnalysis handles GET /api/contracts/:id/analysis. When no stored
// analysis exists a canned one is returned.
func (h *contractHandler) GetAnalysis(c *gin.Context) {
	user := middleware.CurrentUser(c)

	contract, err := h.contractRepo.GetContractByID(c.Param("id"), user.ID)
	if err != nil {
		h.respondContractError(c, err)
		return
	}

	storedAnalysis, err := h.analysisRepo.GetAnalysisByContractID(contract.ID)
	if err != nil {
		h.logger.Error("Failed to get contract analysis", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve analysis"})
		return
	}

	if storedAnalysis == nil {
		mock := analysis.MockAnalysis()
		c.JSON(http.StatusOK, gin.H{
			"summary":     mock.Summary,
			"key_terms":   mock.KeyTerms,
			"risks":       mock.Risks,
			"obligations": mock.Obligations,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":     storedAnalysis.Summary,
		"key_terms":   storedAnalysis.KeyTerms,
		"risks":       storedAnalysis.Risks,
		"obligations": storedAnalysis.Obligations,
	})
}

// SearchContracts handles POST /api/contracts/search
func (h *contractHandler) SearchContracts(c *gin.Context) {
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
		h.logger.Error("Failed to search contracts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search contracts"})
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		Results: contracts,
		Total:   len(contracts),
		Query:   req.Query,
	})
}

func (h *contractHandler) respondContractError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrContractNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		return
	}
	h.logger.Error("Contract operation failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
