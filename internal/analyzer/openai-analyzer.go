// Package analyzer wraps the language-model provider behind three typed
// operations used by the processing pipeline: prose summary, structured
// JSON analysis, and key-point extraction.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/lexalyze/legal-docs-api/internal/utils"
)

// Prompts stay inside the first ~12k characters of the document to
// respect the model's context window.
const maxPromptChars = 12000

var (
	// ErrAnalysisFailure wraps transport and provider errors. No retries
	// happen here; a failed call fails the whole processing pass.
	ErrAnalysisFailure = errors.New("analysis request failed")

	// ErrMalformedAnalysis means the structured-analysis response could
	// not be parsed as JSON even after stripping markdown fences.
	ErrMalformedAnalysis = errors.New("analysis response is not valid JSON")
)

type Analyzer interface {
	Summarize(ctx context.Context, text string) (string, error)
	Analyze(ctx context.Context, text string) (map[string]interface{}, error)
	ExtractKeyPoints(ctx context.Context, text string) ([]string, error)
}

type openAIAnalyzer struct {
	apiKey  string
	model   string
	baseURL string
	logger  *utils.Logger
	client  *http.Client
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

func NewOpenAIAnalyzer(apiKey, model string, logger *utils.Logger) Analyzer {
	return &openAIAnalyzer{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.openai.com/v1",
		logger:  logger,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

const systemPrompt = "You are a legal document analysis expert. Provide clear, accurate analysis of legal documents."

func (a *openAIAnalyzer) Summarize(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(`Please provide a comprehensive summary of the following legal document.
Focus on key legal points, important clauses, obligations, rights, and any critical information.
Make it clear and concise but thorough enough for legal professionals.

Document content:
%s`, truncate(text))

	return a.chatCompletion(ctx, prompt, 2000, false)
}

func (a *openAIAnalyzer) Analyze(ctx context.Context, text string) (map[string]interface{}, error) {
	prompt := fmt.Sprintf(`Analyze the following legal document and provide:
1. Document type (contract, agreement, policy, etc.)
2. Key parties involved
3. Main obligations and rights
4. Important dates and deadlines
5. Financial terms (if any)
6. Termination clauses
7. Risk factors or important warnings
8. Compliance requirements
9. A "highlights" array of the most important clauses, each with "title", "severity" (low, medium, or high) and "snippet" (a short verbatim quote from the document)

Format your response as a structured JSON object.

Document content:
%s`, truncate(text))

	content, err := a.chatCompletion(ctx, prompt, 2500, true)
	if err != nil {
		return nil, err
	}

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		// Some models wrap the object in a markdown code block anyway.
		content = extractJSON(content)
		if err := json.Unmarshal([]byte(content), &result); err != nil {
			a.logger.Error("Failed to parse structured analysis", "content_length", len(content))
			return nil, fmt.Errorf("%w: %v", ErrMalformedAnalysis, err)
		}
	}

	return result, nil
}

var keyPointMarker = regexp.MustCompile(`\d+[.)]`)

func (a *openAIAnalyzer) ExtractKeyPoints(ctx context.Context, text string) ([]string, error) {
	prompt := fmt.Sprintf(`Extract the 10 most important key points from the following legal document.
Present them as a numbered list, each point being concise but informative.

Document content:
%s`, truncate(text))

	content, err := a.chatCompletion(ctx, prompt, 1500, false)
	if err != nil {
		return nil, err
	}

	return SplitKeyPoints(content), nil
}

// SplitKeyPoints turns a numbered-list reply into at most 10 trimmed,
// non-empty points. Models that return fewer than 10 are fine.
func SplitKeyPoints(content string) []string {
	parts := keyPointMarker.Split(content, -1)

	points := make([]string, 0, 10)
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		points = append(points, part)
		if len(points) == 10 {
			break
		}
	}

	return points
}

func (a *openAIAnalyzer) chatCompletion(ctx context.Context, prompt string, maxTokens int, jsonMode bool) (string, error) {
	reqBody := chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.3,
		MaxTokens:   maxTokens,
	}
	if jsonMode {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAnalysisFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading response: %v", ErrAnalysisFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("OpenAI API error", "status", resp.StatusCode, "body", string(body))
		return "", fmt.Errorf("%w: API returned status %d", ErrAnalysisFailure, resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("%w: unmarshal response: %v", ErrAnalysisFailure, err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrAnalysisFailure, chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", ErrAnalysisFailure)
	}

	return chatResp.Choices[0].Message.Content, nil
}

func truncate(text string) string {
	if len(text) > maxPromptChars {
		return text[:maxPromptChars]
	}
	return text
}

// extractJSON strips a surrounding markdown code fence, if present.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	if i := strings.Index(content, "\n"); i >= 0 {
		content = content[i+1:]
	}
	if j := strings.LastIndex(content, "```"); j >= 0 {
		content = content[:j]
	}

	return strings.TrimSpace(content)
}
