// Package cooldown throttles completion notifications so rapid
// regenerations (watch mode, scripted loops) do not flood the broker.
// State is a JSON map of key to last-sent RFC3339 timestamp.
package cooldown

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/Rushan4218/restrowtl/internal/logging"
	"github.com/Rushan4218/restrowtl/internal/paths"
)

// pruneAfter drops entries older than this on every write.
const pruneAfter = 24 * time.Hour

// Active reports whether key was recorded less than seconds ago. A
// missing or unreadable state file counts as not active (fail-open), as
// does seconds <= 0.
func Active(key string, seconds int) bool {
	return active(paths.CooldownPath(), key, seconds, time.Now())
}

// Record stores the current time for key. Failures are logged, never
// returned.
func Record(ctx context.Context, key string) {
	if err := record(paths.CooldownPath(), key, time.Now()); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("cooldown: record failed")
	}
}

func load(path string) map[string]string {
	state := make(map[string]string)
	if data, err := os.ReadFile(path); err == nil {
		_ = json.Unmarshal(data, &state) // corrupt state is overwritten
	}
	return state
}

func active(path, key string, seconds int, now time.Time) bool {
	if seconds <= 0 {
		return false
	}
	ts, ok := load(path)[key]
	if !ok {
		return false
	}
	last, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return false
	}
	return now.Sub(last) < time.Duration(seconds)*time.Second
}

func record(path, key string, now time.Time) error {
	state := load(path)
	for k, v := range state {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil || now.Sub(t) > pruneAfter {
			delete(state, k)
		}
	}
	state[key] = now.Format(time.RFC3339)

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return paths.AtomicWrite(path, data)
}
