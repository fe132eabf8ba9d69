package handler

import (
	"sort"
	"strings"
	"sync"
	"time"

	"backend/internal/models"
	"backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// setUser mimics RequireAuth for handlers under test, using the same
// context key.
func setUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("currentUser", user)
		c.Next()
	}
}

type fakeContractRepo struct {
	mu        sync.Mutex
	contracts map[string]*models.Contract
}

func newFakeContractRepo() *fakeContractRepo {
	return &fakeContractRepo{contracts: make(map[string]*models.Contract)}
}

func (r *fakeContractRepo) CreateContract(contract *models.Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	contract.CreatedAt = time.Now()
	contract.UpdatedAt = contract.CreatedAt
	stored := *contract
	r.contracts[contract.ID] = &stored
	return nil
}

func (r *fakeContractRepo) GetContractByID(id, userID string) (*models.Contract, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	contract, ok := r.contracts[id]
	if !ok || contract.UserID != userID {
		return nil, repository.ErrContractNotFound
	}
	copied := *contract
	return &copied, nil
}

func (r *fakeContractRepo) ListContracts(userID string, opts repository.ListOptions) ([]*models.Contract, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := []*models.Contract{}
	for _, contract := range r.contracts {
		if contract.UserID != userID {
			continue
		}
		if opts.Status != "" && contract.Status != opts.Status {
			continue
		}
		if opts.Search != "" && !contains(contract, opts.Search) {
			continue
		}
		copied := *contract
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := len(matched)
	start := (opts.Page - 1) * opts.PerPage
	if start > total {
		start = total
	}
	end := start + opts.PerPage
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *fakeContractRepo) UpdateContract(contract *models.Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.contracts[contract.ID]
	if !ok || existing.UserID != contract.UserID {
		return repository.ErrContractNotFound
	}
	contract.UpdatedAt = time.Now()
	stored := *contract
	r.contracts[contract.ID] = &stored
	return nil
}

func (r *fakeContractRepo) DeleteContract(id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	contract, ok := r.contracts[id]
	if !ok || contract.UserID != userID {
		return repository.ErrContractNotFound
	}
	delete(r.contracts, id)
	return nil
}

func (r *fakeContractRepo) SearchContracts(userID, query string, limit int) ([]*models.Contract, error) {
	contracts, _, err := r.ListContracts(userID, repository.ListOptions{Page: 1, PerPage: limit, Search: query})
	return contracts, err
}

func contains(contract *models.Contract, search string) bool {
	needle := strings.ToLower(search)
	return strings.Contains(strings.ToLower(contract.Title), needle) ||
		strings.Contains(strings.ToLower(contract.Content), needle)
}

type fakeAnalysisRepo struct {
	mu       sync.Mutex
	analyses map[string]*models.ContractAnalysis // keyed by contract ID
}

func newFakeAnalysisRepo() *fakeAnalysisRepo {
	return &fakeAnalysisRepo{analyses: make(map[string]*models.ContractAnalysis)}
}

func (r *fakeAnalysisRepo) CreateAnalysis(analysis *models.ContractAnalysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	analysis.CreatedAt = time.Now()
	analysis.UpdatedAt = analysis.CreatedAt
	stored := *analysis
	r.analyses[analysis.ContractID] = &stored
	return nil
}

func (r *fakeAnalysisRepo) GetAnalysisByContractID(contractID string) (*models.ContractAnalysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	analysis, ok := r.analyses[contractID]
	if !ok {
		return nil, nil
	}
	copied := *analysis
	return &copied, nil
}
