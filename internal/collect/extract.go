package collect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/hamed0406/maintwindow/internal/domain"
	"github.com/hamed0406/maintwindow/internal/snapshot"
)

// ErrNoAPIKey is returned when the extractor has no credentials.
var ErrNoAPIKey = errors.New("collect: missing api key")

// ErrBadReply means the model answer was not a list of records.
var ErrBadReply = errors.New("collect: unusable model reply")

// Extractor turns a Document into raw snapshot records.
type Extractor interface {
	Extract(ctx context.Context, doc Document) ([]domain.Record, error)
}

// OpenAIExtractor asks a chat-completions model (the Gemini OpenAI-compatible
// endpoint by default) to read the document.
type OpenAIExtractor struct {
	client openai.Client

	Model       string
	Prompt      string
	Temperature float64
	MaxTokens   int64
	Timeout     time.Duration
	Now         func() time.Time
}

func NewOpenAIExtractor(baseURL, apiKey, model string) (*OpenAIExtractor, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	)
	return &OpenAIExtractor{
		client:      client,
		Model:       model,
		Prompt:      defaultPrompt,
		Temperature: 0.6,
		MaxTokens:   8000,
		Timeout:     10 * time.Second,
		Now:         time.Now,
	}, nil
}

func (e *OpenAIExtractor) systemPrompt() string {
	now := time.Now()
	if e.Now != nil {
		now = e.Now()
	}
	return strings.ReplaceAll(e.Prompt, currentDatePlaceholder, now.Format(time.RFC3339))
}

func (e *OpenAIExtractor) Extract(ctx context.Context, doc Document) ([]domain.Record, error) {
	resp, err := e.client.Chat.Completions.New(
		ctx,
		openai.ChatCompletionNewParams{
			Model:       shared.ChatModel(e.Model),
			Temperature: openai.Float(e.Temperature),
			MaxTokens:   openai.Int(e.MaxTokens),
			N:           openai.Int(1),
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(e.systemPrompt()),
				openai.UserMessage("```" + doc.Format + "\n" + doc.Body + "\n```"),
			},
			ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
				OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
			},
		},
		option.WithRequestTimeout(e.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices", ErrBadReply)
	}
	return parseReply(resp.Choices[0].Message.Content)
}

// parseReply accepts a JSON array of objects, optionally fenced, or an object
// whose single array member holds them. JSON mode often forces the latter.
func parseReply(content string) ([]domain.Record, error) {
	content = stripFence(content)
	if content == "" {
		return nil, fmt.Errorf("%w: empty", ErrBadReply)
	}
	if strings.HasPrefix(content, "[") {
		recs, err := snapshot.Decode(strings.NewReader(content))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadReply, err)
		}
		return recs, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &wrapper); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadReply, err)
	}
	if len(wrapper) == 0 {
		return []domain.Record{}, nil
	}
	var found []json.RawMessage
	for _, raw := range wrapper {
		if t := strings.TrimSpace(string(raw)); strings.HasPrefix(t, "[") {
			found = append(found, raw)
		}
	}
	if len(found) != 1 {
		return nil, fmt.Errorf("%w: expected one array member, found %d", ErrBadReply, len(found))
	}
	recs, err := snapshot.Decode(strings.NewReader(string(found[0])))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadReply, err)
	}
	return recs, nil
}

func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
