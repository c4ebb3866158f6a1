// Package backend submits game completion reports to the stats collector
// over HTTP, authenticated with a short-lived signed token.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	jwt "github.com/form3tech-oss/jwt-go"

	"bigtwo/internal/ports"
)

const (
	requestTimeout = 10 * time.Second
	tokenLifetime  = 90 * time.Second
)

// ReporterConfig configures the HTTP stats reporter. FallbackURL is tried
// when the primary endpoint fails; it may be empty.
type ReporterConfig struct {
	PrimaryURL  string
	FallbackURL string
	Issuer      string
	SigningKey  string
}

// Reporter implements ports.StatsReporter against an HTTP collector.
type Reporter struct {
	cfg    ReporterConfig
	client *http.Client
}

func NewReporter(cfg ReporterConfig) *Reporter {
	return &Reporter{
		cfg:    cfg,
		client: &http.Client{Timeout: requestTimeout},
	}
}

// Submit posts the report to the primary endpoint and falls back to the
// secondary on any failure. Each attempt carries a freshly signed token.
func (r *Reporter) Submit(ctx context.Context, report ports.GameReport) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode game report: %w", err)
	}

	primaryErr := r.post(ctx, r.cfg.PrimaryURL, body, report.RoomID)
	if primaryErr == nil {
		return nil
	}
	if r.cfg.FallbackURL == "" {
		return primaryErr
	}
	if fallbackErr := r.post(ctx, r.cfg.FallbackURL, body, report.RoomID); fallbackErr != nil {
		return fmt.Errorf("primary: %v; fallback: %w", primaryErr, fallbackErr)
	}
	return nil
}

func (r *Reporter) post(ctx context.Context, url string, body []byte, roomID string) error {
	token, err := r.signToken(roomID)
	if err != nil {
		return fmt.Errorf("sign report token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build report request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("post report to %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("report to %s rejected with status %d: %s", url, resp.StatusCode, snippet)
	}
	return nil
}

func (r *Reporter) signToken(roomID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":     r.cfg.Issuer,
		"sub":     "game-report",
		"room_id": roomID,
		"iat":     now.Unix(),
		"exp":     now.Add(tokenLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(r.cfg.SigningKey))
}
