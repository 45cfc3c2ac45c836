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

// gemini talks to the Google Generative Language REST API.
type gemini struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

func (p *gemini) Name() string { return string(KindGemini) }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  struct {
		MaxOutputTokens int     `json:"maxOutputTokens"`
		Temperature     float64 `json:"temperature"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *gemini) Generate(ctx context.Context, req Request) (string, error) {
	req = req.withDefaults()

	payload := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: req.Prompt}}},
		},
	}
	if req.System != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}
	payload.GenerationConfig.MaxOutputTokens = req.MaxTokens
	payload.GenerationConfig.Temperature = req.Temperature

	body, err := json.Marshal(payload)
	if err != nil {
		return "", errors.InternalError("cannot encode generate request", err)
	}

	url := strings.TrimRight(p.endpoint, "/") + "/models/" + p.model + ":generateContent?key=" + p.apiKey
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", errors.InternalError("cannot build generate request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", errors.New(errors.ErrCodeWordStudyFailed, "generate request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", errors.New(errors.ErrCodeWordStudyFailed, "cannot read generate response", err)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", errors.New(errors.ErrCodeWordStudyFailed, "bad generate response", err).
			WithDetail("status", resp.Status)
	}
	if parsed.Error != nil {
		return "", errors.New(errors.ErrCodeWordStudyFailed, parsed.Error.Message, nil).
			WithDetail("status", resp.Status)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New(errors.ErrCodeWordStudyFailed, "empty generate response", nil).
			WithDetail("status", resp.Status)
	}

	var sb strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}
