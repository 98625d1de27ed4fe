package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"task-viewer/internal/repository"
)

// Channel is the notification channel written by the row triggers.
const Channel = "task_viewer_changes"

const listenerPingInterval = 90 * time.Second

type notification struct {
	Table  string `json:"table"`
	Op     string `json:"op"`
	UserID string `json:"user_id"`
	Writer string `json:"writer"`
}

var tableResources = map[string]repository.Resource{
	"tasks":       repository.ResourceTasks,
	"disciplines": repository.ResourceDisciplines,
}

var opKinds = map[string]repository.ChangeKind{
	"insert": repository.ChangeInsert,
	"update": repository.ChangeUpdate,
	"delete": repository.ChangeDelete,
}

// parseNotification decodes a trigger payload into a Change and the id of
// the Store that wrote it.
func parseNotification(payload string) (repository.Change, string, error) {
	var n notification
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		return repository.Change{}, "", fmt.Errorf("decode notification: %w", err)
	}
	resource, ok := tableResources[n.Table]
	if !ok {
		return repository.Change{}, "", fmt.Errorf("notification for unknown table %q", n.Table)
	}
	kind, ok := opKinds[n.Op]
	if !ok {
		kind = repository.ChangeUnknown
	}
	return repository.Change{Resource: resource, Kind: kind, Owner: n.UserID}, n.Writer, nil
}

// Watch listens on Channel and reports writes made by other Stores. After a
// reconnect it reports an unknown change on both resources, since
// notifications sent while disconnected are lost.
func (s *Store) Watch(ctx context.Context, fn func(repository.Change)) error {
	listener := pq.NewListener(s.opts.DSN, s.opts.MinReconnect, s.opts.MaxReconnect,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				slog.Warn("change listener event", "event", ev, "error", err)
			}
		})
	defer listener.Close()

	if err := listener.Listen(Channel); err != nil {
		return fmt.Errorf("listen on %s: %w", Channel, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			if n == nil {
				fn(repository.Change{Resource: repository.ResourceTasks, Kind: repository.ChangeUnknown})
				fn(repository.Change{Resource: repository.ResourceDisciplines, Kind: repository.ChangeUnknown})
				continue
			}
			change, writer, err := parseNotification(n.Extra)
			if err != nil {
				slog.Debug("ignoring notification", "channel", n.Channel, "error", err)
				continue
			}
			if writer == s.writer {
				continue
			}
			fn(change)
		case <-time.After(listenerPingInterval):
			go func() {
				if err := listener.Ping(); err != nil {
					slog.Debug("change listener ping failed", "error", err)
				}
			}()
		}
	}
}
