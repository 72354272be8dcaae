// Package session keeps the outline of one document current as its text
// changes. A single goroutine owns all state; text edits and finished
// bibliography lookups reach it through one queue.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/yaklabco/texoutline/internal/logging"
	"github.com/yaklabco/texoutline/pkg/analysis"
	"github.com/yaklabco/texoutline/pkg/bibfile"
	"github.com/yaklabco/texoutline/pkg/diff"
	"github.com/yaklabco/texoutline/pkg/document"
	"github.com/yaklabco/texoutline/pkg/texast"
)

// DefaultQueueSize is the number of events that can wait for the loop.
const DefaultQueueSize = 16

// ErrClosed is returned by Submit after Run has returned.
var ErrClosed = errors.New("session closed")

// EventKind identifies an event.
type EventKind uint8

const (
	// EventTextInitialized replaces the text and forgets the previous revision.
	EventTextInitialized EventKind = iota + 1
	// EventTextChanged replaces the text and diffs against the previous revision.
	EventTextChanged
	// eventBibResolved carries a finished bibliography lookup.
	eventBibResolved
)

func (k EventKind) String() string {
	switch k {
	case EventTextInitialized:
		return "text-initialized"
	case EventTextChanged:
		return "text-changed"
	case eventBibResolved:
		return "bib-resolved"
	default:
		return "unknown"
	}
}

// Event is one unit of work for the loop.
type Event struct {
	Kind EventKind
	Text string

	bib bibResult
}

// TextInitialized returns an event that loads text as a new document.
func TextInitialized(text string) Event {
	return Event{Kind: EventTextInitialized, Text: text}
}

// TextChanged returns an event that replaces the document text.
func TextChanged(text string) Event {
	return Event{Kind: EventTextChanged, Text: text}
}

type bibResult struct {
	name    string
	entries []texast.BibEntry
	err     error
}

// Resolver loads the bibliography named name relative to baseDir.
type Resolver func(ctx context.Context, baseDir, name string) ([]texast.BibEntry, error)

// Options configures a Session.
type Options struct {
	// Path names the document. It selects the dialect and labels errors.
	Path string

	// BaseDir is where bibliography names are resolved. Empty disables
	// resolution.
	BaseDir string

	// Analyzer parses the text. Nil uses analysis defaults.
	Analyzer *analysis.Analyzer

	// Resolver loads bibliographies. Nil uses bibfile.Resolve.
	Resolver Resolver

	// QueueSize overrides DefaultQueueSize.
	QueueSize int
}

// Session is the event loop for one document. Create it with New, start
// Run in its own goroutine and read Updates until it is closed.
type Session struct {
	opts    Options
	events  chan Event
	updates chan Update
	done    chan struct{}

	// Owned by Run.
	current *analysis.Result
	bibName string
}

// New creates a Session.
func New(opts Options) *Session {
	if opts.Analyzer == nil {
		opts.Analyzer = analysis.New(analysis.Options{})
	}
	if opts.Resolver == nil {
		opts.Resolver = bibfile.Resolve
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	return &Session{
		opts:    opts,
		events:  make(chan Event, opts.QueueSize),
		updates: make(chan Update, opts.QueueSize),
		done:    make(chan struct{}),
	}
}

// Updates returns the channel of results. It is closed when Run returns.
func (s *Session) Updates() <-chan Update {
	return s.updates
}

// Submit queues an event. It blocks while the queue is full.
func (s *Session) Submit(ctx context.Context, ev Event) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}

	select {
	case s.events <- ev:
		return nil
	case <-s.done:
		return ErrClosed
	case <-ctx.Done():
		return fmt.Errorf("submit %s: %w", ev.Kind, ctx.Err())
	}
}

// Run processes events until ctx is canceled. It must be called once.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.updates)
	defer close(s.done)

	logger := logging.FromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-s.events:
			logger.Debug("session event", logging.FieldEvent, ev.Kind.String(), logging.FieldPath, s.opts.Path)
			update, ok := s.handle(ctx, ev)
			if !ok {
				continue
			}
			select {
			case s.updates <- update:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (s *Session) handle(ctx context.Context, ev Event) (Update, bool) {
	switch ev.Kind {
	case EventTextInitialized, EventTextChanged:
		return s.text(ctx, ev), true
	case eventBibResolved:
		return s.bibliography(ctx, ev.bib)
	default:
		return Update{}, false
	}
}

// text parses a new revision. On failure the previous document stays
// current. Initialization starts from scratch, so the bibliography is
// resolved again even when its name did not change.
func (s *Session) text(ctx context.Context, ev Event) Update {
	if ev.Kind == EventTextInitialized {
		s.current = nil
		s.bibName = ""
	}

	res, err := s.opts.Analyzer.Parse(ctx, s.opts.Path, ev.Text)
	if err != nil {
		logging.FromContext(ctx).Debug("parse failed", logging.FieldPath, s.opts.Path, logging.FieldError, err)
		update := Update{Kind: UpdateOutline, Err: err}
		if s.current != nil {
			update.Document = s.current.Document
		}
		return update
	}

	var previous analysis.Snapshot
	var previousDoc *document.Document
	if s.current != nil {
		previous = s.current.Info
		previousDoc = s.current.Document
	}

	update := Update{
		Kind:       UpdateOutline,
		Document:   res.Document,
		Sections:   diff.CompareAxis(previous, res.Info, texast.AxisSections),
		References: diff.CompareAxis(previous, res.Info, texast.AxisReferences),
	}
	update.Unchanged = previousDoc != nil && len(update.Sections) == 0 &&
		len(update.References) == 0 && previousDoc.Equal(res.Document)

	s.current = res
	s.track(ctx, BibliographyName(res.Document))
	return update
}

// track starts resolving name when it differs from the tracked name.
func (s *Session) track(ctx context.Context, name string) {
	if name == s.bibName {
		return
	}
	s.bibName = name
	if name == "" || s.opts.BaseDir == "" {
		return
	}

	logging.FromContext(ctx).Debug("resolving bibliography", logging.FieldBibliography, name)
	go s.resolve(ctx, name)
}

func (s *Session) resolve(ctx context.Context, name string) {
	entries, err := s.opts.Resolver(ctx, s.opts.BaseDir, name)
	ev := Event{Kind: eventBibResolved, bib: bibResult{name: name, entries: entries, err: err}}

	select {
	case s.events <- ev:
	case <-s.done:
	case <-ctx.Done():
	}
}

// bibliography publishes a lookup result unless the document has since
// stopped naming that file.
func (s *Session) bibliography(ctx context.Context, res bibResult) (Update, bool) {
	if res.name != s.bibName {
		logging.FromContext(ctx).Debug("dropping stale bibliography", logging.FieldBibliography, res.name)
		return Update{}, false
	}
	logging.FromContext(ctx).Debug("bibliography resolved",
		logging.FieldBibliography, res.name, logging.FieldEntries, len(res.entries))

	return Update{
		Kind:         UpdateBibliography,
		Bibliography: res.name,
		Entries:      res.entries,
		Err:          res.err,
	}, true
}

// BibliographyName returns the file of the first bibliography object, or
// "" when the document names none.
func BibliographyName(doc *document.Document) string {
	for obj := range doc.Objects() {
		if obj.Kind == document.ObjectBibliography && obj.File != "" {
			return obj.File
		}
	}
	return ""
}
