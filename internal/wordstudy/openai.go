package wordstudy

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/scripturelens/scripturelens/internal/errors"
)

// openAI talks to the OpenAI chat completions API, and to any compatible
// endpoint when used as the custom provider.
type openAI struct {
	name     string
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

func newOpenAI(name, endpoint, apiKey, model string, client *http.Client) *openAI {
	return &openAI{
		name:     name,
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		model:    model,
		client:   client,
	}
}

func (p *openAI) Name() string { return p.name }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *openAI) Generate(ctx context.Context, req Request) (string, error) {
	req = req.withDefaults()

	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(chatRequest{
		Model:       p.model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", errors.InternalError("cannot encode chat request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.endpoint+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errors.InternalError("cannot build chat request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", errors.New(errors.ErrCodeWordStudyFailed, "chat request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.New(errors.ErrCodeWordStudyFailed, "cannot read chat response", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", errors.New(errors.ErrCodeWordStudyFailed, "bad chat response", err).
			WithDetail("status", resp.Status)
	}
	if parsed.Error != nil {
		return "", errors.New(errors.ErrCodeWordStudyFailed, parsed.Error.Message, nil).
			WithDetail("status", resp.Status)
	}
	if resp.StatusCode != http.StatusOK || len(parsed.Choices) == 0 {
		return "", errors.New(errors.ErrCodeWordStudyFailed, "empty chat response", nil).
			WithDetail("status", resp.Status)
	}
	return parsed.Choices[0].Message.Content, nil
}
