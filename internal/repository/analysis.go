package repository

import (
	"database/sql"
	"errors"

	"backend/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type AnalysisRepository interface {
	CreateAnalysis(analysis *models.ContractAnalysis) error
	GetAnalysisByContractID(contractID string) (*models.ContractAnalysis, error)
}

type analysisRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewAnalysisRepository(db *sqlx.DB, logger *zap.Logger) AnalysisRepository {
	return &analysisRepository{db: db, logger: logger}
}

func (r *analysisRepository) CreateAnalysis(analysis *models.ContractAnalysis) error {
	query := `INSERT INTO contract_analyses (id, contract_id, summary, key_terms, risks, obligations, embedding)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`
	return r.db.QueryRowx(query, analysis.ID, analysis.ContractID, analysis.Summary,
		analysis.KeyTerms, analysis.Risks, analysis.Obligations, analysis.Embedding).
		Scan(&analysis.CreatedAt, &analysis.UpdatedAt)
}

func (r *analysisRepository) GetAnalysisByContractID(contractID string) (*models.ContractAnalysis, error) {
	var analysis models.ContractAnalysis
	query := `SELECT id, contract_id, summary, key_terms, risks, obligations, embedding, created_at, updated_at
	          FROM contract_analyses WHERE contract_id = $1`
	err := r.db.Get(&analysis, query, contractID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No analysis stored yet
		}
		return nil, err
	}
	return &analysis, nil
}
