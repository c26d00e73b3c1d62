package server

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// WaitForHealthy polls baseURL's /health endpoint until it answers 200 OK or
// ctx is done. baseURL looks like "http://localhost:8080".
func WaitForHealthy(ctx context.Context, baseURL string) error {
	healthURL := baseURL + "/health"
	client := &http.Client{Timeout: time.Second}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	var lastErr error
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
			err = fmt.Errorf("health check returned %s", resp.Status)
		}
		lastErr = err

		select {
		case <-ctx.Done():
			return fmt.Errorf("server at %s not healthy: %w (last error: %v)", baseURL, ctx.Err(), lastErr)
		case <-ticker.C:
		}
	}
}
