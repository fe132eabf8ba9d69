package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"backend/internal/analysis"
	"backend/internal/middleware"
	"backend/internal/models"
	"backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// allowedMimeTypes lists the upload content types the prototype accepts.
var allowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"text/plain":         true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

type UploadHandler interface {
	Upload(c *gin.Context)
	Status(c *gin.Context)
}

type uploadHandler struct {
	contractRepo repository.ContractRepository
	analysisRepo repository.AnalysisRepository
	uploadDir    string
	logger       *zap.Logger
}

func NewUploadHandler(contractRepo repository.ContractRepository, analysisRepo repository.AnalysisRepository, uploadDir string, logger *zap.Logger) UploadHandler {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		logger.Warn("Failed to create upload directory", zap.String("dir", uploadDir), zap.Error(err))
	}
	return &uploadHandler{
		contractRepo: contractRepo,
		analysisRepo: analysisRepo,
		uploadDir:    uploadDir,
		logger:       logger,
	}
}

type UploadResponse struct {
	Message    string `json:"message"`
	ContractID string `json:"contract_id"`
	Filename   string `json:"filename"`
	FileSize   int64  `json:"file_size"`
}

// Upload handles POST /api/upload. The file is stored under a generated
// name, a contract record is created from it and a mock analysis (including
// a deterministic embedding) is attached.
func (h *uploadHandler) Upload(c *gin.Context) {
	user := middleware.CurrentUser(c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if !allowedMimeTypes[mimeType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File type not supported. Please upload PDF, DOC, DOCX, or TXT files."})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	extension := strings.ToLower(filepath.Ext(fileHeader.Filename))
	storedName := uuid.NewString() + extension
	storedPath := filepath.Join(h.uploadDir, storedName)
	if err := os.WriteFile(storedPath, content, 0o644); err != nil {
		h.logger.Error("Failed to store uploaded file", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	// Simplified text extraction: plain text keeps its content, binary
	// formats get a placeholder until real parsing exists.
	textContent := fmt.Sprintf("Content extracted from %s", fileHeader.Filename)
	if mimeType == "text/plain" {
		textContent = string(content)
	}

	title := c.PostForm("title")
	if title == "" {
		title = fileHeader.Filename
	}

	fileSize := int64(len(content))
	contract := &models.Contract{
		ID:       uuid.NewString(),
		UserID:   user.ID,
		Title:    title,
		Content:  textContent,
		Status:   models.ContractStatusUploaded,
		FilePath: &storedPath,
		FileSize: &fileSize,
		MimeType: &mimeType,
	}
	if err := h.contractRepo.CreateContract(contract); err != nil {
		// Don't leave the file behind when the record never existed.
		if removeErr := os.Remove(storedPath); removeErr != nil {
			h.logger.Warn("Failed to remove orphaned upload", zap.Error(removeErr))
		}
		h.logger.Error("Failed to create contract from upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
		return
	}

	h.attachMockAnalysis(contract, fileHeader.Filename, extension, content)

	c.JSON(http.StatusOK, UploadResponse{
		Message:    "File uploaded successfully",
		ContractID: contract.ID,
		Filename:   fileHeader.Filename,
		FileSize:   fileSize,
	})
}

// attachMockAnalysis parses the document with the mock parser and stores a
// canned analysis plus a deterministic embedding. Failures only log; the
// upload itself already succeeded.
func (h *uploadHandler) attachMockAnalysis(contract *models.Contract, filename, extension string, content []byte) {
	parsed := analysis.ParseDocument(content, filename, extension)

	var text strings.Builder
	for _, chunk := range parsed.Chunks {
		text.WriteString(chunk.Text)
		text.WriteString(" ")
	}
	embedding := analysis.SemanticEmbedding(text.String())
	embeddingJSON, err := json.Marshal(embedding)
	if err != nil {
		h.logger.Warn("Failed to encode embedding", zap.Error(err))
		return
	}
	embeddingStr := string(embeddingJSON)

	mock := analysis.MockAnalysis()
	record := &models.ContractAnalysis{
		ID:          uuid.NewString(),
		ContractID:  contract.ID,
		Summary:     mock.Summary,
		KeyTerms:    mock.KeyTerms,
		Risks:       mock.Risks,
		Obligations: mock.Obligations,
		Embedding:   &embeddingStr,
	}
	if err := h.analysisRepo.CreateAnalysis(record); err != nil {
		h.logger.Warn("Failed to store mock analysis", zap.String("contract_id", contract.ID), zap.Error(err))
	}
}

// Status handles GET /api/upload/status/:id
func (h *uploadHandler) Status(c *gin.Context) {
	user := middleware.CurrentUser(c)

	contract, err := h.contractRepo.GetContractByID(c.Param("id"), user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrContractNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
			return
		}
		h.logger.Error("Failed to get upload status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contract_id": contract.ID,
		"status":      contract.Status,
		"title":       contract.Title,
		"file_size":   contract.FileSize,
		"mime_type":   contract.MimeType,
		"uploaded_at": contract.CreatedAt,
	})
}
