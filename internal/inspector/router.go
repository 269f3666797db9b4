package inspector

import (
	"fmt"
	"log/slog"

	"github.com/dshills/scenepanel/internal/command"
	"github.com/dshills/scenepanel/internal/scene"
)

// EditRouter turns user edits into commands for the sink. It never writes
// to the UI; the next sync reflects whatever the sink applied.
type EditRouter struct {
	logger *slog.Logger
}

// NewEditRouter creates a router. A nil logger discards output.
func NewEditRouter(logger *slog.Logger) EditRouter {
	return EditRouter{logger: logger}
}

// Route asks each section in order for a command and returns the first.
// Programmatic notifications are ignored.
func (r EditRouter) Route(note ChangeNotification, n scene.Node, h scene.Handle, sections []*Section) (command.Command, bool) {
	if note.Direction != FromWidget {
		return nil, false
	}
	for _, s := range sections {
		if cmd, ok := s.Route(note, n, h); ok {
			return cmd, true
		}
	}
	return nil, false
}

// OnNotification routes a notification and sends the resulting command, if
// any. A send failure means the session has ended and is returned wrapped in
// ErrSessionEnded.
func (r EditRouter) OnNotification(note ChangeNotification, n scene.Node, h scene.Handle, sections []*Section, sink CommandSink) error {
	cmd, ok := r.Route(note, n, h, sections)
	if !ok {
		orDiscard(r.logger).Debug("notification skipped", "widget", note.Widget, "direction", note.Direction)
		return nil
	}
	if err := sink.Send(cmd); err != nil {
		return fmt.Errorf("%w: sending %q: %w", ErrSessionEnded, cmd.Description(), err)
	}
	orDiscard(r.logger).Debug("command sent", "command", cmd.Description(), "target", h)
	return nil
}
