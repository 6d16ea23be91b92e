// Package webhook posts run notifications to an HTTP endpoint.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/Rushan4218/restrowtl/internal/config"
	"github.com/Rushan4218/restrowtl/internal/httputil"
)

// Send posts body to the configured URL as text/plain. Custom headers are
// applied after the default Content-Type, so callers can override it.
// Header values are expanded with os.ExpandEnv to support $VAR secrets.
func Send(ctx context.Context, cfg config.Webhook, body string) error {
	if cfg.URL == "" {
		return errors.New("webhook: no url configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.URL, strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: new request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	for k, v := range cfg.Headers {
		req.Header.Set(k, os.ExpandEnv(v))
	}

	resp, err := httputil.Client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: post: %w", err)
	}
	defer resp.Body.Close()

	return httputil.CheckStatus(resp, "webhook")
}
