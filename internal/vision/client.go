package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"
)

// Config holds vision model configuration parameters.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
}

// Client implements Analyzer against an OpenAI-compatible vision endpoint.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	maxTokens   int
}

// NewClient constructs a Client if the supplied configuration is valid.
func NewClient(cfg Config) (*Client, error) {
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.Model == "" {
		cfg.Model = "gpt-4.1-mini"
	}
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrDisabled
	}
	temp := cfg.Temperature
	if temp <= 0 {
		temp = 0.1
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 800
	}
	return &Client{
		httpClient:  &http.Client{Timeout: 45 * time.Second},
		apiKey:      strings.TrimSpace(cfg.APIKey),
		model:       cfg.Model,
		baseURL:     cfg.BaseURL,
		temperature: temp,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Enabled reports whether the client can make outbound calls.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

const systemPrompt = "You are a returns fraud inspector for an e-commerce store. " +
	"Examine the attached product photo and reply with a strict JSON object containing keys " +
	"has_damage (boolean), severity (one of minor, moderate, severe), damage_description (string), " +
	"is_synthetic (boolean), synthetic_confidence (0-100), suspicious_flags (array of short human-readable strings), " +
	"trust_score (0-100), and recommendation (string). " +
	"synthetic_confidence is how likely the image is AI-generated or heavily manipulated. " +
	"trust_score reflects overall confidence that the photo is a genuine, unedited picture of a damaged item. " +
	"Emit nothing outside the JSON object."

// Analyze sends the base64 image for damage and authenticity assessment.
func (c *Client) Analyze(ctx context.Context, imageBase64 string) (Assessment, error) {
	if c == nil || !c.Enabled() {
		return Assessment{}, ErrDisabled
	}
	if strings.TrimSpace(imageBase64) == "" {
		return Assessment{}, errors.New("image payload is empty")
	}

	payload := map[string]any{
		"model":       c.model,
		"temperature": c.temperature,
		"max_tokens":  c.maxTokens,
		"messages": []map[string]any{
			{"role": "system", "content": systemPrompt},
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": "Assess this return photo."},
					{"type": "image_url", "image_url": map[string]string{"url": imageURL(imageBase64)}},
				},
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Assessment{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return Assessment{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Assessment{}, fmt.Errorf("vision request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return Assessment{}, fmt.Errorf("vision status %d: %v", resp.StatusCode, apiErr)
	}

	var decoded chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Assessment{}, fmt.Errorf("decode response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return Assessment{}, errors.New("vision empty response")
	}

	content := normalizeJSONBlock(decoded.Choices[0].Message.Content)
	if content == "" {
		return Assessment{}, errors.New("vision empty assessment")
	}

	var assessment Assessment
	if err := json.Unmarshal([]byte(content), &assessment); err != nil {
		return Assessment{}, fmt.Errorf("parse assessment: %w", err)
	}
	sanitizeAssessment(&assessment)
	return assessment, nil
}

func imageURL(imageBase64 string) string {
	if strings.HasPrefix(imageBase64, "data:") {
		return imageBase64
	}
	return "data:image/jpeg;base64," + imageBase64
}

func normalizeJSONBlock(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.IndexRune(trimmed, '\n'); idx >= 0 {
			trimmed = trimmed[idx+1:]
		}
		if strings.HasSuffix(trimmed, "```") {
			trimmed = trimmed[:len(trimmed)-3]
		}
	}
	trimmed = strings.TrimSpace(trimmed)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start >= 0 && end >= start {
		return strings.TrimSpace(trimmed[start : end+1])
	}
	return trimmed
}

func sanitizeAssessment(a *Assessment) {
	if a == nil {
		return
	}
	a.SyntheticConfidence = clampFloat(a.SyntheticConfidence, 0, 100)
	a.TrustScore = clampFloat(a.TrustScore, 0, 100)
	switch strings.ToLower(strings.TrimSpace(a.Severity)) {
	case "minor", "moderate", "severe":
		a.Severity = strings.ToLower(strings.TrimSpace(a.Severity))
	default:
		a.Severity = ""
	}
	flags := a.SuspiciousFlags[:0]
	for _, flag := range a.SuspiciousFlags {
		if trimmed := strings.TrimSpace(flag); trimmed != "" {
			flags = append(flags, trimmed)
		}
	}
	a.SuspiciousFlags = flags
}

func clampFloat(value, min, max float64) float64 {
	if math.IsNaN(value) {
		return min
	}
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}
