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

// ollama talks to a local Ollama server.
type ollama struct {
	endpoint string
	model    string
	client   *http.Client
}

func (p *ollama) Name() string { return string(KindOllama) }

type ollamaRequest struct {
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	System  string `json:"system,omitempty"`
	Stream  bool   `json:"stream"`
	Options struct {
		NumPredict  int     `json:"num_predict"`
		Temperature float64 `json:"temperature"`
	} `json:"options"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

func (p *ollama) Generate(ctx context.Context, req Request) (string, error) {
	req = req.withDefaults()

	payload := ollamaRequest{
		Model:  p.model,
		Prompt: req.Prompt,
		System: req.System,
		Stream: false,
	}
	payload.Options.NumPredict = req.MaxTokens
	payload.Options.Temperature = req.Temperature

	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.InternalError("cannot encode generate request", err)
	}

	url := strings.TrimRight(p.endpoint, "/") + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", errors.InternalError("cannot build generate request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", errors.New(errors.ErrCodeWordStudyFailed, "ollama unreachable at "+p.endpoint, err).
			WithSuggestion("start ollama or adjust word_study.endpoint")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.New(errors.ErrCodeWordStudyFailed, "cannot read generate response", err)
	}

	var parsed ollamaResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", errors.New(errors.ErrCodeWordStudyFailed, "bad generate response", err).
			WithDetail("status", resp.Status)
	}
	if parsed.Error != "" {
		return "", errors.New(errors.ErrCodeWordStudyFailed, parsed.Error, nil)
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.New(errors.ErrCodeWordStudyFailed, "generate failed", nil).
			WithDetail("status", resp.Status)
	}
	return parsed.Response, nil
}
