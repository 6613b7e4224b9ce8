package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lexalyze/legal-docs-api/internal/db"
	"github.com/lexalyze/legal-docs-api/internal/models"
)

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	// A second pool connection would see a fresh empty :memory: database.
	database.SetMaxOpenConns(1)
	database.SetMaxIdleConns(1)

	if err := db.RunMigrations(database); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { database.Close() })
	return database
}

func seedUser(t *testing.T, database *sqlx.DB, id string) {
	t.Helper()

	users := NewUserRepository(database)
	err := users.Create(context.Background(), &models.User{
		ID:           id,
		Name:         "Test User",
		Email:        id + "@example.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
	})
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
}

func sampleDocument(id, userID string, createdAt time.Time) *models.Document {
	return &models.Document{
		ID:           id,
		UserID:       userID,
		Filename:     "doc_1",
		OriginalName: "contract.pdf",
		ContentType:  "application/pdf",
		FileSize:     1024,
		S3Key:        "documents/" + id + "/contract.pdf",
		Content:      "extracted text",
		Summary:      "",
		Analysis:     map[string]interface{}{},
		KeyPoints:    []string{},
		Highlights:   []models.Highlight{},
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

func TestCreateAndGet(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1")
	repo := NewDocumentRepository(database)
	ctx := context.Background()

	doc := sampleDocument("d1", "u1", time.Now())
	doc.Highlights = []models.Highlight{{Title: "Fee clause", Severity: "high", Snippet: "a fee of", Note: ""}}

	if err := repo.Create(ctx, doc); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	got, err := repo.GetByID(ctx, "d1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got == nil {
		t.Fatal("GetByID returned nil for existing document")
	}

	if got.UserID != "u1" || got.OriginalName != "contract.pdf" || got.Content != "extracted text" {
		t.Errorf("roundtrip mismatch: %+v", got)
	}
	if len(got.Highlights) != 1 || got.Highlights[0].Title != "Fee clause" {
		t.Errorf("highlights did not roundtrip: %+v", got.Highlights)
	}
	if got.Status() != models.StatusProcessing {
		t.Errorf("fresh document status = %q, want processing", got.Status())
	}
}

func TestGetByIDMissing(t *testing.T) {
	database := testDB(t)
	repo := NewDocumentRepository(database)

	got, err := repo.GetByID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing document, got %+v", got)
	}
}

func TestListByUserScopedAndOrdered(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1")
	seedUser(t, database, "u2")
	repo := NewDocumentRepository(database)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, spec := range []struct {
		id, user string
		offset   time.Duration
	}{
		{"old", "u1", 0},
		{"new", "u1", 10 * time.Minute},
		{"foreign", "u2", 5 * time.Minute},
	} {
		doc := sampleDocument(spec.id, spec.user, base.Add(spec.offset))
		if err := repo.Create(ctx, doc); err != nil {
			t.Fatalf("Create %d returned error: %v", i, err)
		}
	}

	docs, err := repo.ListByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByUser returned error: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	if docs[0].ID != "new" || docs[1].ID != "old" {
		t.Errorf("want newest first, got %s then %s", docs[0].ID, docs[1].ID)
	}
}

func TestSaveAnalysis(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1")
	repo := NewDocumentRepository(database)
	ctx := context.Background()

	if err := repo.Create(ctx, sampleDocument("d1", "u1", time.Now())); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	analysis := map[string]interface{}{"documentType": "contract"}
	highlights := []models.Highlight{{Title: "Termination", Severity: "medium"}}
	err := repo.SaveAnalysis(ctx, "d1", "A summary.", analysis, []string{"point one"}, highlights)
	if err != nil {
		t.Fatalf("SaveAnalysis returned error: %v", err)
	}

	got, err := repo.GetByID(ctx, "d1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}

	if got.Summary != "A summary." {
		t.Errorf("summary = %q", got.Summary)
	}
	if got.Analysis["documentType"] != "contract" {
		t.Errorf("analysis = %+v", got.Analysis)
	}
	if len(got.KeyPoints) != 1 || got.KeyPoints[0] != "point one" {
		t.Errorf("key points = %+v", got.KeyPoints)
	}
	if got.Status() != models.StatusReady {
		t.Errorf("status = %q, want ready", got.Status())
	}
}

func TestSaveAnalysisErrorKeepsSummary(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1")
	repo := NewDocumentRepository(database)
	ctx := context.Background()

	if err := repo.Create(ctx, sampleDocument("d1", "u1", time.Now())); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := repo.SaveAnalysis(ctx, "d1", "old summary", map[string]interface{}{}, nil, nil); err != nil {
		t.Fatalf("SaveAnalysis returned error: %v", err)
	}

	if err := repo.SaveAnalysisError(ctx, "d1", "model unavailable"); err != nil {
		t.Fatalf("SaveAnalysisError returned error: %v", err)
	}

	got, err := repo.GetByID(ctx, "d1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}

	if got.Analysis["error"] != "model unavailable" {
		t.Errorf("analysis = %+v", got.Analysis)
	}
	if got.Summary != "old summary" {
		t.Errorf("summary should survive a failed pass, got %q", got.Summary)
	}
	if got.Status() != models.StatusError {
		t.Errorf("status = %q, want error", got.Status())
	}
}

func TestUpdateHighlights(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1")
	repo := NewDocumentRepository(database)
	ctx := context.Background()

	if err := repo.Create(ctx, sampleDocument("d1", "u1", time.Now())); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	highlights := []models.Highlight{{Title: "H", Severity: "low", Note: "remember this"}}
	if err := repo.UpdateHighlights(ctx, "d1", highlights); err != nil {
		t.Fatalf("UpdateHighlights returned error: %v", err)
	}

	got, err := repo.GetByID(ctx, "d1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if len(got.Highlights) != 1 || got.Highlights[0].Note != "remember this" {
		t.Errorf("highlights = %+v", got.Highlights)
	}
}

func TestDelete(t *testing.T) {
	database := testDB(t)
	seedUser(t, database, "u1")
	repo := NewDocumentRepository(database)
	ctx := context.Background()

	if err := repo.Create(ctx, sampleDocument("d1", "u1", time.Now())); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if err := repo.Delete(ctx, "d1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	got, err := repo.GetByID(ctx, "d1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got != nil {
		t.Errorf("document should be gone, got %+v", got)
	}
}
