package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Rushan4218/restrowtl/internal/config"
	"github.com/Rushan4218/restrowtl/internal/eventlog"
	"github.com/Rushan4218/restrowtl/internal/mqtt"
	"github.com/Rushan4218/restrowtl/internal/tmpl"
	"github.com/Rushan4218/restrowtl/internal/webhook"
)

// publisher delivers one expanded message.
type publisher struct {
	name string
	send func(ctx context.Context, msg string) error
}

// VarsFor returns the template values describing run.
func VarsFor(run eventlog.Run) tmpl.Vars {
	return tmpl.Vars{
		Count:    len(run.Assets),
		Dir:      run.OutputDir,
		Duration: run.Duration.Round(time.Millisecond).String(),
	}
}

func publishers(cfg config.Notify) []publisher {
	var ps []publisher
	if cfg.MQTT.Broker != "" {
		m := cfg.MQTT
		ps = append(ps, publisher{"mqtt", func(_ context.Context, msg string) error {
			return mqtt.Publish(m, msg)
		}})
	}
	if cfg.Webhook.URL != "" {
		w := cfg.Webhook
		ps = append(ps, publisher{"webhook", func(ctx context.Context, msg string) error {
			return webhook.Send(ctx, w, msg)
		}})
	}
	return ps
}

// Notify expands the configured message with vars and sends it to every
// configured publisher in parallel. Publishers with empty settings are
// skipped. All failures are returned joined.
func Notify(ctx context.Context, cfg config.Notify, vars tmpl.Vars) error {
	ps := publishers(cfg)
	if len(ps) == 0 {
		return nil
	}
	msg := tmpl.Expand(cfg.Message, vars)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var errs []error

	for _, p := range ps {
		wg.Add(1)
		go func(p publisher) {
			defer wg.Done()
			if err := p.send(ctx, msg); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", p.name, err))
				mu.Unlock()
			}
		}(p)
	}
	wg.Wait()

	return errors.Join(errs...)
}
