package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"backend/internal/models"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

var ErrContractNotFound = errors.New("contract not found")

// ListOptions controls pagination, filtering and ordering of contract lists.
type ListOptions struct {
	Page      int
	PerPage   int
	Search    string
	Status    string
	SortBy    string
	SortOrder string
}

// sortColumns whitelists user-supplied sort keys. Anything else falls back
// to created_at.
var sortColumns = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "title",
}

type ContractRepository interface {
	CreateContract(contract *models.Contract) error
	GetContractByID(id, userID string) (*models.Contract, error)
	ListContracts(userID string, opts ListOptions) ([]*models.Contract, int, error)
	UpdateContract(contract *models.Contract) error
	DeleteContract(id, userID string) error
	SearchContracts(userID, query string, limit int) ([]*models.Contract, error)
}

type contractRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewContractRepository(db *sqlx.DB, logger *zap.Logger) ContractRepository {
	return &contractRepository{db: db, logger: logger}
}

func (r *contractRepository) CreateContract(contract *models.Contract) error {
	query := `INSERT INTO contracts (id, user_id, title, content, status, file_path, file_size, mime_type)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at, updated_at`
	return r.db.QueryRowx(query, contract.ID, contract.UserID, contract.Title, contract.Content,
		contract.Status, contract.FilePath, contract.FileSize, contract.MimeType).
		Scan(&contract.CreatedAt, &contract.UpdatedAt)
}

// GetContractByID is scoped to the owner; a contract belonging to another
// user is indistinguishable from a missing one.
func (r *contractRepository) GetContractByID(id, userID string) (*models.Contract, error) {
	var contract models.Contract
	query := `SELECT id, user_id, title, content, status, file_path, file_size, mime_type, created_at, updated_at
	          FROM contracts WHERE id = $1 AND user_id = $2`
	err := r.db.Get(&contract, query, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContractNotFound
		}
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) ListContracts(userID string, opts ListOptions) ([]*models.Contract, int, error) {
	where := `WHERE user_id = $1`
	args := []interface{}{userID}

	if opts.Search != "" {
		args = append(args, "%"+opts.Search+"%")
		where += fmt.Sprintf(` AND (title ILIKE $%d OR content ILIKE $%d)`, len(args), len(args))
	}
	if opts.Status != "" {
		args = append(args, opts.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}

	var total int
	if err := r.db.Get(&total, `SELECT COUNT(*) FROM contracts `+where, args...); err != nil {
		return nil, 0, err
	}

	sortBy, ok := sortColumns[opts.SortBy]
	if !ok {
		sortBy = "created_at"
	}
	sortOrder := "DESC"
	if opts.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	args = append(args, opts.PerPage, (opts.Page-1)*opts.PerPage)
	query := fmt.Sprintf(`SELECT id, user_id, title, content, status, file_path, file_size, mime_type, created_at, updated_at
	          FROM contracts %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		where, sortBy, sortOrder, len(args)-1, len(args))

	contracts := []*models.Contract{}
	if err := r.db.Select(&contracts, query, args...); err != nil {
		return nil, 0, err
	}
	return contracts, total, nil
}

func (r *contractRepository) UpdateContract(contract *models.Contract) error {
	query := `UPDATE contracts SET title = $1, content = $2, status = $3, updated_at = NOW()
	          WHERE id = $4 AND user_id = $5 RETURNING updated_at`
	err := r.db.QueryRowx(query, contract.Title, contract.Content, contract.Status,
		contract.ID, contract.UserID).Scan(&contract.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrContractNotFound
	}
	return err
}

func (r *contractRepository) DeleteContract(id, userID string) error {
	res, err := r.db.Exec(`DELETE FROM contracts WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrContractNotFound
	}
	return nil
}

func (r *contractRepository) SearchContracts(userID, query string, limit int) ([]*models.Contract, error) {
	contracts := []*models.Contract{}
	q := `SELECT id, user_id, title, content, status, file_path, file_size, mime_type, created_at, updated_at
	      FROM contracts WHERE user_id = $1 AND (title ILIKE $2 OR content ILIKE $2)
	      ORDER BY created_at DESC LIMIT $3`
	err := r.db.Select(&contracts, q, userID, "%"+query+"%", limit)
	if err != nil {
		return nil, err
	}
	return contracts, nil
}
