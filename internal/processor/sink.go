package processor

import (
	"context"

	"github.com/lexalyze/legal-docs-api/internal/repository"
)

// repositorySink writes pipeline outcomes to the document store. On
// failure the analysis field is replaced with {"error": message} and the
// summary keeps its previous value, so a first-run failure leaves the
// document looking stuck in processing with the error attached.
type repositorySink struct {
	repo repository.DocumentRepository
}

func NewRepositorySink(repo repository.DocumentRepository) ResultSink {
	return &repositorySink{repo: repo}
}

func (s *repositorySink) AnalysisSucceeded(ctx context.Context, id string, result *AnalysisResult) error {
	return s.repo.SaveAnalysis(ctx, id, result.Summary, result.Analysis, result.KeyPoints, result.Highlights)
}

func (s *repositorySink) AnalysisFailed(ctx context.Context, id string, cause error) error {
	return s.repo.SaveAnalysisError(ctx, id, cause.Error())
}
