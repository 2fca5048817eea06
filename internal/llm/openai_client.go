// ABOUTME: OpenAI-backed analyzer for chunk structure detection
// ABOUTME: Wraps chat completions with retries and defensive response parsing
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/harper/bookstruct/internal/config"
	"github.com/harper/bookstruct/internal/models"
	"github.com/harper/bookstruct/internal/structurer"
	"github.com/harper/bookstruct/internal/util"
)

const systemPrompt = `You are a book structure analyst. You receive one chunk of a plain-text book and identify where chapters and sections begin, reading for meaning rather than looking for fixed markers.

Return ONLY a JSON array. Each element describes one structural unit, in source order:
[
  {
    "level": 1,
    "title": "estimated title, empty string if this text continues a unit cut at the chunk boundary",
    "summary": "one-sentence synopsis of the unit's content",
    "keywords": ["up to five keywords"],
    "start": 0
  }
]

Rules:
- "level" is 1 for chapters, 2 for sections, deeper integers for finer nesting.
- "start" is the character offset within the chunk where the unit begins. The first element must have start 0.
- Prefer boundaries at natural paragraph or sentence ends; never begin a unit on a connective that depends on the previous sentence.
- If the chunk opens mid-unit (the previous chunk context ends mid-thought), make the first element untitled with an empty "title".
- Cover the entire chunk: the last unit runs to the end of the chunk.
No text outside the JSON array.`

// Client implements structurer.Analyzer against the OpenAI chat API.
type Client struct {
	client     *openai.Client
	model      string
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

// NewClient builds an analyzer client from configuration. The API key
// is required; everything else has defaults.
func NewClient(cfg *config.Config) (*Client, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	return &Client{
		client:     openai.NewClient(cfg.OpenAIKey),
		model:      cfg.ChatModel,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}, nil
}

// Analyze asks the model for the structural fragments of one chunk.
// Transport failures after all retries wrap structurer.ErrInference;
// output that never parses into the fragment schema wraps
// structurer.ErrMalformedResponse.
func (c *Client) Analyze(ctx context.Context, chunk models.Chunk, actx structurer.AnalysisContext) ([]models.Fragment, error) {
	if chunk.Text == "" {
		return nil, fmt.Errorf("chunk %d is empty", chunk.Index)
	}

	userPrompt := buildUserPrompt(chunk, actx)

	var lastErr error
	malformed := false

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", structurer.ErrInference, ctx.Err())
			case <-time.After(util.Backoff(c.retryDelay, attempt)):
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: userPrompt},
			},
			Temperature: 0.2,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			malformed = false
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = fmt.Errorf("attempt %d: no completion choices returned", attempt+1)
			malformed = false
			continue
		}

		frags, err := ParseFragments(resp.Choices[0].Message.Content, chunk)
		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			malformed = true
			continue
		}
		return frags, nil
	}

	if malformed {
		return nil, fmt.Errorf("%w: %v", structurer.ErrMalformedResponse, lastErr)
	}
	return nil, fmt.Errorf("%w: %v", structurer.ErrInference, lastErr)
}

func buildUserPrompt(chunk models.Chunk, actx structurer.AnalysisContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Chunk %d of %d.\n\n", chunk.Index+1, actx.TotalChunks)

	if len(actx.RecentTitles) > 0 {
		b.WriteString("Units detected so far:\n")
		for _, t := range actx.RecentTitles {
			fmt.Fprintf(&b, "- %s\n", t)
		}
		b.WriteString("\n")
	}
	if actx.SeamTail != "" {
		fmt.Fprintf(&b, "End of the previous chunk (context only, not part of this chunk):\n...%s\n\n", actx.SeamTail)
	}

	fmt.Fprintf(&b, "Chunk content:\n%s", chunk.Text)
	return b.String()
}

// fragmentResponse is the wire schema one element of the model's JSON
// array must satisfy.
type fragmentResponse struct {
	Level    int      `json:"level"`
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Keywords []string `json:"keywords"`
	Start    int      `json:"start"`
}

// ParseFragments parses a model response into fragments covering the
// chunk. The response is effectively untyped text, so parsing is
// defensive: code fences are stripped, offsets are validated against
// the chunk, and any deviation is an error the caller degrades from.
func ParseFragments(response string, chunk models.Chunk) ([]models.Fragment, error) {
	raw, err := extractJSONArray(response)
	if err != nil {
		return nil, err
	}

	var entries []fragmentResponse
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("parsing fragment array: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("fragment array is empty")
	}

	runes := []rune(chunk.Text)
	n := len(runes)

	// The first unit owns the chunk head even if the model says
	// otherwise; anything before a nonzero first offset would have no
	// home.
	entries[0].Start = 0

	frags := make([]models.Fragment, len(entries))
	for i, e := range entries {
		if e.Level < 1 {
			return nil, fmt.Errorf("fragment %d has level %d", i, e.Level)
		}
		if e.Start < 0 || e.Start > n {
			return nil, fmt.Errorf("fragment %d start %d outside chunk of %d runes", i, e.Start, n)
		}
		if i > 0 && e.Start < entries[i-1].Start {
			return nil, fmt.Errorf("fragment %d start %d before previous start %d", i, e.Start, entries[i-1].Start)
		}

		end := n
		if i+1 < len(entries) {
			end = entries[i+1].Start
		}
		if end < e.Start || end > n {
			return nil, fmt.Errorf("fragment %d has invalid span [%d, %d)", i, e.Start, end)
		}

		frags[i] = models.Fragment{
			Title:      strings.TrimSpace(e.Title),
			Summary:    strings.TrimSpace(e.Summary),
			Keywords:   e.Keywords,
			Level:      e.Level,
			Content:    string(runes[e.Start:end]),
			ChunkIndex: chunk.Index,
		}
	}

	// Drop zero-width fragments produced by duplicate offsets.
	out := frags[:0]
	for _, f := range frags {
		if f.Content != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("all fragments are empty")
	}
	return out, nil
}

// extractJSONArray pulls the first JSON array out of a response that
// may be wrapped in code fences or prose.
func extractJSONArray(s string) (string, error) {
	s = strings.TrimSpace(s)
	if after, ok := strings.CutPrefix(s, "```json"); ok {
		s = after
	} else if after, ok := strings.CutPrefix(s, "```"); ok {
		s = after
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON array in response")
	}
	return s[start : end+1], nil
}
