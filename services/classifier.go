package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrClassifierUnavailable tags every transport-level failure of the
// classifier sidecar. Callers branch on it and continue in degraded
// mode: the classifier is an optimization, never a dependency.
var ErrClassifierUnavailable = errors.New("classifier service unavailable")

type ClassifierClient struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

func NewClassifierClient(baseURL string, timeout time.Duration) *ClassifierClient {
	return &ClassifierClient{
		baseURL: baseURL,
		timeout: timeout,
		http:    &http.Client{},
	}
}

type ClassifyDraft struct {
	CitizenID      *uint     `json:"citizenId"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Coordinates    []float64 `json:"coordinates"` // [lng, lat]
	Category       string    `json:"category"`
	CustomCategory *string   `json:"customCategory,omitempty"`
	Priority       string    `json:"priority"`
}

type HistoryAddition struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type ClassifyResult struct {
	Rejected       bool              `json:"-"`
	Status         string            `json:"status"`
	Category       string            `json:"category"`
	Priority       string            `json:"priority"`
	Department     string            `json:"department"`
	CustomCategory string            `json:"customCategory"`
	History        []HistoryAddition `json:"history"`
}

// Classify posts the draft to the sidecar with a bounded timeout.
// Timeout, connection failure and non-2xx all come back wrapped in
// ErrClassifierUnavailable; only a transported "rejected" status is a
// real decision (spam gate).
func (c *ClassifierClient) Classify(ctx context.Context, draft *ClassifyDraft) (*ClassifyResult, error) {
	if c.baseURL == "" {
		return nil, ErrClassifierUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(draft)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/process_report", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrClassifierUnavailable, res.StatusCode)
	}

	var out ClassifyResult
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	out.Rejected = out.Status == "rejected"
	return &out, nil
}
