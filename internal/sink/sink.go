// Package sink is the single place scene mutations happen.
//
// Producers hold a Sender, an explicit handle onto the sink's queue, and can
// only propose changes through it. The owner of the scene graph drains the
// queue, applies each message through the undo history, and re-syncs its
// views when something changed.
package sink

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/dshills/scenepanel/internal/command"
	"github.com/dshills/scenepanel/internal/history"
	"github.com/dshills/scenepanel/internal/scene"
)

// DefaultQueueSize is the queue capacity when none is configured.
const DefaultQueueSize = 256

// Message is a request to the sink.
type Message interface {
	message()
}

// Do asks the sink to execute a command and record it.
type Do struct {
	Command command.Command
}

// Undo asks the sink to reverse the last recorded command.
type Undo struct{}

// Redo asks the sink to re-apply the last undone command.
type Redo struct{}

func (Do) message()   {}
func (Undo) message() {}
func (Redo) message() {}

// Sender posts messages to a Sink. The zero Sender is closed.
type Sender struct {
	ch   chan<- Message
	done <-chan struct{}
}

// Send proposes a command.
func (s Sender) Send(cmd command.Command) error {
	return s.post(Do{Command: cmd})
}

// Undo requests an undo.
func (s Sender) Undo() error { return s.post(Undo{}) }

// Redo requests a redo.
func (s Sender) Redo() error { return s.post(Redo{}) }

func (s Sender) post(m Message) error {
	if s.ch == nil {
		return ErrClosed
	}
	select {
	case <-s.done:
		return ErrClosed
	default:
	}
	select {
	case s.ch <- m:
		return nil
	case <-s.done:
		return ErrClosed
	default:
		return ErrQueueFull
	}
}

// Result summarizes one Drain.
type Result struct {
	Executed int
	Undone   int
	Redone   int
}

// Changed reports whether the scene may have been modified.
func (r Result) Changed() bool {
	return r.Executed+r.Undone+r.Redone > 0
}

// Sink owns a message queue and the history commands are applied through.
type Sink struct {
	queue     chan Message
	done      chan struct{}
	closeOnce sync.Once

	history  *history.History
	logger   *slog.Logger
	observer func(Applied)
}

// Applied describes one message that changed the scene. Command is the
// command executed, undone or redone.
type Applied struct {
	Message Message
	Command command.Command
}

// Option configures a Sink.
type Option func(*Sink)

// WithQueueSize sets the queue capacity.
func WithQueueSize(n int) Option {
	return func(s *Sink) {
		if n > 0 {
			s.queue = make(chan Message, n)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Sink) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithObserver registers fn to be called after each message that changed
// the scene, on the goroutine that drains.
func WithObserver(fn func(Applied)) Option {
	return func(s *Sink) {
		s.observer = fn
	}
}

// New creates a sink applying commands through hist.
func New(hist *history.History, opts ...Option) *Sink {
	s := &Sink{
		queue:   make(chan Message, DefaultQueueSize),
		done:    make(chan struct{}),
		history: hist,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sender returns a handle for posting messages.
func (s *Sink) Sender() Sender {
	return Sender{ch: s.queue, done: s.done}
}

// History returns the sink's history.
func (s *Sink) History() *history.History {
	return s.history
}

// Close ends the session. Every later send fails with ErrClosed; messages
// already queued can still be drained.
func (s *Sink) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Drain applies every queued message without blocking. Failed messages are
// logged and reported together; the rest are still applied.
func (s *Sink) Drain(g *scene.Graph) (Result, error) {
	var (
		res  Result
		errs []error
	)
	for {
		select {
		case m := <-s.queue:
			if err := s.apply(g, m, &res); err != nil {
				errs = append(errs, err)
			}
		default:
			return res, errors.Join(errs...)
		}
	}
}

func (s *Sink) apply(g *scene.Graph, m Message, res *Result) error {
	switch msg := m.(type) {
	case Do:
		if err := s.history.Execute(msg.Command, g); err != nil {
			s.logger.Error("command failed", "command", msg.Command.Description(), "error", err)
			return fmt.Errorf("executing %q: %w", msg.Command.Description(), err)
		}
		s.logger.Debug("command executed", "command", msg.Command.Description(), "target", msg.Command.Target())
		res.Executed++
		s.observe(m, msg.Command)
	case Undo:
		cmd, err := s.history.Undo(g)
		if errors.Is(err, history.ErrNothingToUndo) {
			s.logger.Debug("nothing to undo")
			return nil
		}
		if err != nil {
			s.logger.Error("undo failed", "error", err)
			return fmt.Errorf("undo: %w", err)
		}
		s.logger.Debug("command undone", "command", cmd.Description())
		res.Undone++
		s.observe(m, cmd)
	case Redo:
		cmd, err := s.history.Redo(g)
		if errors.Is(err, history.ErrNothingToRedo) {
			s.logger.Debug("nothing to redo")
			return nil
		}
		if err != nil {
			s.logger.Error("redo failed", "error", err)
			return fmt.Errorf("redo: %w", err)
		}
		s.logger.Debug("command redone", "command", cmd.Description())
		res.Redone++
		s.observe(m, cmd)
	default:
		panic(fmt.Sprintf("sink: unhandled message %T", m))
	}
	return nil
}

func (s *Sink) observe(m Message, cmd command.Command) {
	if s.observer != nil {
		s.observer(Applied{Message: m, Command: cmd})
	}
}
