// Package processor runs the document analysis pipeline: fetch the
// record, fan out the three model calls, normalize highlights, and write
// the result back through a ResultSink.
//
// There is no per-document lock. Two passes over the same id can race
// and the later write wins wholesale; results are never merged.
package processor

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/lexalyze/legal-docs-api/internal/analyzer"
	"github.com/lexalyze/legal-docs-api/internal/extractor"
	"github.com/lexalyze/legal-docs-api/internal/metrics"
	"github.com/lexalyze/legal-docs-api/internal/models"
	"github.com/lexalyze/legal-docs-api/internal/repository"
	"github.com/lexalyze/legal-docs-api/internal/storage"
	"github.com/lexalyze/legal-docs-api/internal/utils"
)

// ErrDocumentGone means the record disappeared between being scheduled
// for processing and the pipeline fetching it.
var ErrDocumentGone = errors.New("document no longer exists")

// AnalysisResult is the joined output of one successful pipeline pass.
type AnalysisResult struct {
	Summary    string
	Analysis   map[string]interface{}
	KeyPoints  []string
	Highlights []models.Highlight
}

// ResultSink receives the outcome of a pipeline pass. The fire-and-forget
// path never propagates errors to its caller; routing every outcome
// through the sink keeps that behavior explicit and testable.
type ResultSink interface {
	AnalysisSucceeded(ctx context.Context, id string, result *AnalysisResult) error
	AnalysisFailed(ctx context.Context, id string, cause error) error
}

type Processor struct {
	repo     repository.DocumentRepository
	storage  storage.Storage
	analyzer analyzer.Analyzer
	sink     ResultSink
	logger   *utils.Logger
}

func New(repo repository.DocumentRepository, store storage.Storage, llm analyzer.Analyzer, sink ResultSink, logger *utils.Logger) *Processor {
	return &Processor{
		repo:     repo,
		storage:  store,
		analyzer: llm,
		sink:     sink,
		logger:   logger,
	}
}

// Process runs the pipeline detached from the caller. Failures are
// recorded on the document and logged; nothing comes back. Clients poll
// the document until its summary is populated or an analysis error shows.
func (p *Processor) Process(id string) {
	go func() {
		ctx := context.Background()
		if err := p.run(ctx, id, false); err != nil {
			p.logger.Error("Background processing failed", "id", id, "error", err)
		}
	}()
}

// Reanalyze runs the pipeline synchronously and returns the updated
// record. Unlike the upload path it first re-fetches the original blob
// and re-extracts the text, so extraction improvements since upload are
// picked up; if re-extraction fails the stored text is used instead.
func (p *Processor) Reanalyze(ctx context.Context, id string) (*models.Document, error) {
	if err := p.run(ctx, id, true); err != nil {
		return nil, err
	}

	doc, err := p.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload document after analysis: %w", err)
	}
	if doc == nil {
		return nil, ErrDocumentGone
	}

	return doc, nil
}

func (p *Processor) run(ctx context.Context, id string, refreshText bool) error {
	doc, err := p.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}
	if doc == nil {
		return ErrDocumentGone
	}

	text := doc.Content
	if refreshText {
		text = p.refreshContent(ctx, doc)
	}

	result, err := p.analyze(ctx, text)
	if err != nil {
		metrics.ObserveProcessed("failure")
		if sinkErr := p.sink.AnalysisFailed(ctx, id, err); sinkErr != nil {
			p.logger.Error("Failed to record analysis error", "id", id, "error", sinkErr)
		}
		return err
	}

	if err := p.sink.AnalysisSucceeded(ctx, id, result); err != nil {
		metrics.ObserveProcessed("failure")
		return fmt.Errorf("failed to save analysis results: %w", err)
	}

	metrics.ObserveProcessed("success")
	p.logger.Info("Document processed",
		"id", id,
		"summary_length", len(result.Summary),
		"key_points", len(result.KeyPoints),
		"highlights", len(result.Highlights))

	return nil
}

// analyze fans the three model calls out concurrently and joins on all of
// them. There is no partial success: one failed call fails the pass.
func (p *Processor) analyze(ctx context.Context, text string) (*AnalysisResult, error) {
	var (
		summary   string
		analysis  map[string]interface{}
		keyPoints []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, err = p.analyzer.Summarize(gctx, text)
		return err
	})
	g.Go(func() error {
		var err error
		analysis, err = p.analyzer.Analyze(gctx, text)
		return err
	})
	g.Go(func() error {
		var err error
		keyPoints, err = p.analyzer.ExtractKeyPoints(gctx, text)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &AnalysisResult{
		Summary:    summary,
		Analysis:   analysis,
		KeyPoints:  keyPoints,
		Highlights: analyzer.NormalizeHighlights(analysis),
	}, nil
}

// refreshContent re-downloads the blob and re-extracts its text. Any
// failure falls back to the text stored at upload time.
func (p *Processor) refreshContent(ctx context.Context, doc *models.Document) string {
	data, err := p.storage.Download(ctx, doc.S3Key)
	if err != nil {
		p.logger.Warn("Could not re-fetch original file, using stored text", "id", doc.ID, "error", err)
		return doc.Content
	}

	text, err := extractor.Extract(data, doc.ContentType, doc.OriginalName)
	if err != nil {
		p.logger.Warn("Re-extraction failed, using stored text", "id", doc.ID, "error", err)
		return doc.Content
	}

	if text != doc.Content {
		if err := p.repo.UpdateContent(ctx, doc.ID, text); err != nil {
			p.logger.Warn("Failed to persist refreshed text", "id", doc.ID, "error", err)
		}
	}

	return text
}
