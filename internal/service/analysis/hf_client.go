package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Hosted inference models used for pitch analysis.
const (
	modelSentiment = "distilbert-base-uncased-finetuned-sst-2-english"
	modelToxicity  = "unitary/toxic-bert"
	modelZeroShot  = "facebook/bart-large-mnli"
)

// HFClient calls the Hugging Face hosted inference API. One client serves
// the sentiment, toxicity, and zero-shot endpoints; the model is chosen per
// call.
type HFClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	model      string
}

// NewHFClient builds a client for the given model. baseURL has no trailing
// slash.
func NewHFClient(baseURL, apiKey, model string, timeout time.Duration) *HFClient {
	return &HFClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewSentimentClient returns a classifier backed by a sentiment model.
func NewSentimentClient(baseURL, apiKey string, timeout time.Duration) *HFClient {
	return NewHFClient(baseURL, apiKey, modelSentiment, timeout)
}

// NewToxicityClient returns a classifier backed by a toxicity model.
func NewToxicityClient(baseURL, apiKey string, timeout time.Duration) *HFClient {
	return NewHFClient(baseURL, apiKey, modelToxicity, timeout)
}

// NewZeroShotClient returns a zero-shot classifier.
func NewZeroShotClient(baseURL, apiKey string, timeout time.Duration) *HFClient {
	return NewHFClient(baseURL, apiKey, modelZeroShot, timeout)
}

type hfClassifyRequest struct {
	Inputs string `json:"inputs"`
}

type hfZeroShotRequest struct {
	Inputs     string `json:"inputs"`
	Parameters struct {
		CandidateLabels []string `json:"candidate_labels"`
	} `json:"parameters"`
}

type hfZeroShotResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// Classify scores the text against the model's own label set.
func (c *HFClient) Classify(ctx context.Context, text string) ([]LabelScore, error) {
	body, err := c.post(ctx, hfClassifyRequest{Inputs: text})
	if err != nil {
		return nil, err
	}

	// The API nests label scores one level deep for single-input requests.
	var nested [][]LabelScore
	if err := json.Unmarshal(body, &nested); err != nil || len(nested) == 0 {
		var flat []LabelScore
		if err := json.Unmarshal(body, &flat); err != nil {
			return nil, fmt.Errorf("decode classification response: %w", err)
		}
		return flat, nil
	}
	return nested[0], nil
}

// ClassifyLabels scores the text against the supplied candidate labels.
func (c *HFClient) ClassifyLabels(ctx context.Context, text string, labels []string) ([]LabelScore, error) {
	req := hfZeroShotRequest{Inputs: text}
	req.Parameters.CandidateLabels = labels

	body, err := c.post(ctx, req)
	if err != nil {
		return nil, err
	}

	var resp hfZeroShotResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode zero-shot response: %w", err)
	}
	if len(resp.Labels) != len(resp.Scores) {
		return nil, fmt.Errorf("zero-shot response has %d labels but %d scores", len(resp.Labels), len(resp.Scores))
	}

	scores := make([]LabelScore, len(resp.Labels))
	for i, label := range resp.Labels {
		scores[i] = LabelScore{Label: label, Score: resp.Scores[i]}
	}
	return scores, nil
}

func (c *HFClient) post(ctx context.Context, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal inference request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("create inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call inference API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read inference response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}
