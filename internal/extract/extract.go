package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"nwaevents/internal/config"
	"nwaevents/internal/models/domain"
	"nwaevents/internal/models/dto"
	"nwaevents/internal/utils/logger/sl"

	openrouter "github.com/revrost/go-openrouter"
)

const (
	// retryCount bounds repeated completion attempts on transient errors.
	retryCount int = 3
	// retryDuration is the pause between attempts.
	retryDuration time.Duration = 5 * time.Second
)

// Completer is the narrow model boundary: one prompt in, one text reply out.
// Tests substitute a scripted responder.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Extractor turns an arbitrary fetched web page into a best-effort
// structured event. It performs no store interaction and no deduplication;
// the caller owns provenance and always routes the result to moderation.
type Extractor struct {
	logger       *slog.Logger
	completer    Completer
	promptBudget int
}

func New(logger *slog.Logger, completer Completer, promptBudget int) *Extractor {
	return &Extractor{
		logger:       logger,
		completer:    completer,
		promptBudget: promptBudget,
	}
}

// Extract asks the model for a structured event from the page content.
// Fails with domain.ErrExtractionFailed when the reply holds no decodable
// JSON object.
func (e *Extractor) Extract(ctx context.Context, url string, html string) (domain.ParsedEvent, error) {
	op := "extract.Extract()"
	log := e.logger.With(slog.String("op", op), slog.String("url", url))

	prompt := buildPrompt(url, html, e.promptBudget)

	text, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		return domain.ParsedEvent{}, fmt.Errorf("%s: %w", op, err)
	}

	jsonText, ok := locateJSON(text)
	if !ok {
		log.Error("no JSON object in model reply")
		return domain.ParsedEvent{}, fmt.Errorf("%s: %w", op, domain.ErrExtractionFailed)
	}

	var schema dto.ParsedEventSchema
	if err := json.Unmarshal([]byte(jsonText), &schema); err != nil {
		log.Error("cannot decode model reply", sl.Err(err))
		return domain.ParsedEvent{}, fmt.Errorf("%s: %w", op, domain.ErrExtractionFailed)
	}

	log.Info("extraction completed", slog.String("title", schema.Title))

	return schema.ToDomain(), nil
}

// buildPrompt mirrors the field contract the admin UI expects. The page
// content is truncated to the configured budget to respect model input
// limits.
func buildPrompt(url, html string, budget int) string {
	if len(html) > budget {
		html = html[:budget]
	}

	return fmt.Sprintf(`Extract structured event information from this webpage content. The URL is: %s

Return a JSON object with these exact fields:
- title (string, required)
- description (string or null — a brief summary, max 500 chars)
- start_date (ISO 8601 datetime string or null)
- end_date (ISO 8601 datetime string or null)
- location_name (string or null — venue name)
- location_address (string or null — full address)
- is_online (boolean)
- online_url (string or null — link to join if online)
- categories (array of strings from: networking, product, startup, tech, career, community, education, other)
- image_url (string or null — event banner/cover image URL)
- organizer_name (string, required — who is hosting)
- organizer_title (string or null — their job title)
- organizer_company (string or null — their company)

If you can't determine a field, use null. For categories, pick the most relevant 1-2.
For organizer info, look for host names, presenter bios, "organized by", etc.

Return ONLY valid JSON, no markdown formatting, no explanation.

Webpage content:
%s`, url, html)
}

// locateJSON finds the first balanced JSON object in the reply. Models wrap
// their output in markdown fences or commentary; the scan is string- and
// escape-aware so braces inside values do not break the balance.
func locateJSON(response string) (string, bool) {
	response = strings.TrimSpace(response)

	if after, ok := strings.CutPrefix(response, "```json"); ok {
		response = after
	} else if after, ok := strings.CutPrefix(response, "```"); ok {
		response = after
	}

	startIdx := strings.Index(response, "{")
	if startIdx == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := startIdx; i < len(response); i++ {
		c := response[i]

		if escaped {
			escaped = false
			continue
		}

		if c == '\\' && inString {
			escaped = true
			continue
		}

		if c == '"' {
			inString = !inString
			continue
		}

		if inString {
			continue
		}

		if c == '{' {
			depth++
		} else if c == '}' {
			depth--
			if depth == 0 {
				return response[startIdx : i+1], true
			}
		}
	}

	return "", false
}

// Client wraps the openrouter chat API behind the Completer boundary.
type Client struct {
	logger *slog.Logger
	cfg    config.AIConfig
	client *openrouter.Client
}

func NewClient(logger *slog.Logger, cfg config.AIConfig) *Client {
	op := "extract.NewClient()"
	log := logger.With(slog.String("op", op))

	log.Info("creating openrouter client", slog.String("model", cfg.ModelName))

	return &Client{
		logger: logger,
		cfg:    cfg,
		client: openrouter.NewClient(cfg.AIApiToken),
	}
}

// Complete sends one chat completion, retrying rate-limit and dropped
// connection errors.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	op := "extract.Client.Complete()"
	log := c.logger.With(slog.String("op", op))

	var resp openrouter.ChatCompletionResponse
	var err error

	for retry := range retryCount {
		resp, err = c.client.CreateChatCompletion(
			ctx,
			openrouter.ChatCompletionRequest{
				Model: c.cfg.ModelName,
				Messages: []openrouter.ChatCompletionMessage{
					openrouter.UserMessage(prompt),
				},
			},
		)
		if err != nil && (isRateLimitError(err) || isEOFError(err)) {
			log.Error("AI completion error", sl.Err(err), slog.Int("retry", retry))
			time.Sleep(retryDuration)
			continue
		}
		break
	}

	if err != nil {
		return "", fmt.Errorf("AI completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty AI response")
	}

	return resp.Choices[0].Message.Content.Text, nil
}

// isRateLimitError matches HTTP 429 by error text; the client does not
// expose status codes.
func isRateLimitError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "429")
}

func isEOFError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "EOF")
}
