package models

import (
	"time"

	"github.com/lib/pq"
)

// Contract statuses used by the API.
const (
	ContractStatusDraft    = "draft"
	ContractStatusUploaded = "uploaded"
)

type Contract struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	Status    string    `db:"status" json:"status"`
	FilePath  *string   `db:"file_path" json:"file_path,omitempty"`
	FileSize  *int64    `db:"file_size" json:"file_size,omitempty"`
	MimeType  *string   `db:"mime_type" json:"mime_type,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ContractAnalysis is the stored (mock) AI analysis of a contract.
type ContractAnalysis struct {
	ID          string         `db:"id" json:"id"`
	ContractID  string         `db:"contract_id" json:"contract_id"`
	Summary     string         `db:"summary" json:"summary"`
	KeyTerms    pq.StringArray `db:"key_terms" json:"key_terms"`
	Risks       pq.StringArray `db:"risks" json:"risks"`
	Obligations pq.StringArray `db:"obligations" json:"obligations"`
	Embedding   *string        `db:"embedding" json:"embedding,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}
