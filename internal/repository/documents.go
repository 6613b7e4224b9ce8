package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lexalyze/legal-docs-api/internal/models"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *models.Document) error
	GetByID(ctx context.Context, id string) (*models.Document, error)
	ListByUser(ctx context.Context, userID string) ([]models.Document, error)
	UpdateContent(ctx context.Context, id, content string) error
	SaveAnalysis(ctx context.Context, id, summary string, analysis map[string]interface{}, keyPoints []string, highlights []models.Highlight) error
	SaveAnalysisError(ctx context.Context, id, message string) error
	UpdateHighlights(ctx context.Context, id string, highlights []models.Highlight) error
	Delete(ctx context.Context, id string) error
}

type documentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) DocumentRepository {
	return &documentRepository{db: db}
}

const documentColumns = `id, user_id, filename, original_name, content_type, file_size, s3_key,
	content, summary, analysis, key_points, highlights, created_at, updated_at`

func (r *documentRepository) Create(ctx context.Context, doc *models.Document) error {
	analysisJSON, keyPointsJSON, highlightsJSON, err := marshalDerived(doc.Analysis, doc.KeyPoints, doc.Highlights)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		doc.ID,
		doc.UserID,
		doc.Filename,
		doc.OriginalName,
		doc.ContentType,
		doc.FileSize,
		doc.S3Key,
		doc.Content,
		doc.Summary,
		analysisJSON,
		keyPointsJSON,
		highlightsJSON,
		doc.CreatedAt,
		doc.UpdatedAt,
	)

	return err
}

func (r *documentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id = ?`

	doc, err := scanDocument(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return doc, nil
}

func (r *documentRepository) ListByUser(ctx context.Context, userID string) ([]models.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE user_id = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []models.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}

	return docs, rows.Err()
}

func (r *documentRepository) UpdateContent(ctx context.Context, id, content string) error {
	query := `UPDATE documents SET content = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, content, time.Now(), id)
	return err
}

func (r *documentRepository) SaveAnalysis(ctx context.Context, id, summary string, analysis map[string]interface{}, keyPoints []string, highlights []models.Highlight) error {
	analysisJSON, keyPointsJSON, highlightsJSON, err := marshalDerived(analysis, keyPoints, highlights)
	if err != nil {
		return err
	}

	query := `
		UPDATE documents
		SET summary = ?, analysis = ?, key_points = ?, highlights = ?, updated_at = ?
		WHERE id = ?
	`

	_, err = r.db.ExecContext(ctx, query, summary, analysisJSON, keyPointsJSON, highlightsJSON, time.Now(), id)
	return err
}

// SaveAnalysisError records a failed analysis pass. The summary keeps its
// previous value so a document that was never analyzed stays in the
// processing state from the client's perspective, with the error attached.
func (r *documentRepository) SaveAnalysisError(ctx context.Context, id, message string) error {
	analysisJSON, err := json.Marshal(map[string]interface{}{"error": message})
	if err != nil {
		return err
	}

	query := `UPDATE documents SET analysis = ?, updated_at = ? WHERE id = ?`
	_, err = r.db.ExecContext(ctx, query, string(analysisJSON), time.Now(), id)
	return err
}

func (r *documentRepository) UpdateHighlights(ctx context.Context, id string, highlights []models.Highlight) error {
	highlightsJSON, err := json.Marshal(highlights)
	if err != nil {
		return err
	}

	query := `UPDATE documents SET highlights = ?, updated_at = ? WHERE id = ?`
	_, err = r.db.ExecContext(ctx, query, string(highlightsJSON), time.Now(), id)
	return err
}

func (r *documentRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDocument(row rowScanner) (*models.Document, error) {
	var doc models.Document
	var analysisJSON, keyPointsJSON, highlightsJSON string

	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.Filename,
		&doc.OriginalName,
		&doc.ContentType,
		&doc.FileSize,
		&doc.S3Key,
		&doc.Content,
		&doc.Summary,
		&analysisJSON,
		&keyPointsJSON,
		&highlightsJSON,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(analysisJSON), &doc.Analysis); err != nil {
		return nil, fmt.Errorf("failed to decode analysis for document %s: %w", doc.ID, err)
	}
	if err := json.Unmarshal([]byte(keyPointsJSON), &doc.KeyPoints); err != nil {
		return nil, fmt.Errorf("failed to decode key points for document %s: %w", doc.ID, err)
	}
	if err := json.Unmarshal([]byte(highlightsJSON), &doc.Highlights); err != nil {
		return nil, fmt.Errorf("failed to decode highlights for document %s: %w", doc.ID, err)
	}

	return &doc, nil
}

func marshalDerived(analysis map[string]interface{}, keyPoints []string, highlights []models.Highlight) (string, string, string, error) {
	if analysis == nil {
		analysis = map[string]interface{}{}
	}
	if keyPoints == nil {
		keyPoints = []string{}
	}
	if highlights == nil {
		highlights = []models.Highlight{}
	}

	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return "", "", "", err
	}
	keyPointsJSON, err := json.Marshal(keyPoints)
	if err != nil {
		return "", "", "", err
	}
	highlightsJSON, err := json.Marshal(highlights)
	if err != nil {
		return "", "", "", err
	}

	return string(analysisJSON), string(keyPointsJSON), string(highlightsJSON), nil
}
