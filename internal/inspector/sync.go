package inspector

import (
	"log/slog"

	"github.com/dshills/scenepanel/internal/scene"
)

// SyncEngine projects model state into the UI. It is the only code path
// that writes model values into widgets.
type SyncEngine struct {
	logger *slog.Logger
}

// NewSyncEngine creates a sync engine. A nil logger discards output, as
// does the zero SyncEngine.
func NewSyncEngine(logger *slog.Logger) SyncEngine {
	return SyncEngine{logger: logger}
}

// SyncAll syncs every section against n. A nil n hides every section.
func (e SyncEngine) SyncAll(n scene.Node, sections []*Section, ui UI) {
	visible := 0
	for _, s := range sections {
		s.Sync(n, ui)
		if s.IsApplicable(n) {
			visible++
		}
	}
	orDiscard(e.logger).Debug("synced", "sections", len(sections), "visible", visible)
}
