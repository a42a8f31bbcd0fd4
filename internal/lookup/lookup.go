// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package lookup turns free-text address input into geocoding suggestions. Keystrokes are debounced,
// superseded requests are cancelled and only the most recently issued request may change the
// suggestion list.
package lookup

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/wneessen/rentalhub/internal/geocode"
	"github.com/wneessen/rentalhub/internal/logger"
)

// DefaultDebounce is the quiet period after the last keystroke before a lookup is issued.
const DefaultDebounce = time.Millisecond * 300

var (
	// ErrClosed is returned by Select after the lookup has been closed.
	ErrClosed = errors.New("address lookup is closed")
	// ErrNoSuggestion is returned by Select for an index outside the current suggestion list.
	ErrNoSuggestion = errors.New("no suggestion at the given index")
)

// SelectFunc receives the normalized address of a selected suggestion.
type SelectFunc func(geocode.Address)

// Lookup is an address input bound to a geocoding Searcher. It is safe for concurrent use.
type Lookup struct {
	searcher geocode.Searcher
	logger   *logger.Logger
	onSelect SelectFunc
	debounce time.Duration
	required bool

	// ctx is the parent of every request context, it is cancelled by Close
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	updated chan struct{}

	mu          sync.Mutex
	closed      bool
	value       string
	suggestions []geocode.Suggestion
	loading     bool
	timer       *time.Timer
	timerSeq    uint64
	inflight    context.CancelFunc
	requestSeq  uint64
}

// Option configures optional Lookup settings.
type Option func(*Lookup)

// WithDebounce sets the quiet period after the last keystroke.
func WithDebounce(interval time.Duration) Option {
	return func(l *Lookup) {
		if interval >= 0 {
			l.debounce = interval
		}
	}
}

// WithDefaultValue pre-fills the visible input text.
func WithDefaultValue(value string) Option {
	return func(l *Lookup) {
		l.value = value
	}
}

// WithRequired marks the input as required. The flag is for presentation only.
func WithRequired(required bool) Option {
	return func(l *Lookup) {
		l.required = required
	}
}

// New returns a Lookup that queries searcher and hands selections to onSelect.
func New(searcher geocode.Searcher, log *logger.Logger, onSelect SelectFunc, opts ...Option) *Lookup {
	ctx, cancel := context.WithCancel(context.Background())
	l := &Lookup{
		searcher: searcher,
		logger:   log,
		onSelect: onSelect,
		debounce: DefaultDebounce,
		ctx:      ctx,
		cancel:   cancel,
		updated:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Input sets the visible text and schedules a lookup once typing pauses for the debounce interval.
// Every call restarts the interval.
func (l *Lookup) Input(query string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}

	l.value = query
	if l.timer != nil {
		l.timer.Stop()
	}
	l.timerSeq++
	seq := l.timerSeq
	l.timer = time.AfterFunc(l.debounce, func() {
		l.fire(seq, query)
	})
}

// Select picks the suggestion at index: the visible text becomes its label, the suggestion list is
// cleared and the select callback receives the normalized address.
func (l *Lookup) Select(index int) (geocode.Address, error) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return geocode.Address{}, ErrClosed
	}
	if index < 0 || index >= len(l.suggestions) {
		l.mu.Unlock()
		return geocode.Address{}, ErrNoSuggestion
	}

	// The query is finished, nothing pending may repopulate the list
	l.stopPending()
	suggestion := l.suggestions[index]
	l.value = suggestion.Label
	l.suggestions = nil
	l.loading = false
	l.notify()
	l.mu.Unlock()

	address := suggestion.Resolve()
	if l.onSelect != nil {
		l.onSelect(address)
	}
	return address, nil
}

// Close stops the pending debounce timer and aborts the in-flight request. No state changes or
// notifications happen afterwards. Close waits for the request goroutine to return and is safe
// to call more than once.
func (l *Lookup) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.stopPending()
	l.closed = true
	close(l.updated)
	l.mu.Unlock()

	l.cancel()
	l.wg.Wait()
}

// Value returns the visible input text.
func (l *Lookup) Value() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value
}

// Suggestions returns a copy of the current suggestion list in service order.
func (l *Lookup) Suggestions() []geocode.Suggestion {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.suggestions)
}

// Loading reports whether a request is in flight.
func (l *Lookup) Loading() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loading
}

// Required reports whether the input was marked as required.
func (l *Lookup) Required() bool {
	return l.required
}

// Updated returns a channel that receives a value whenever the suggestion list or the loading state
// changed. Notifications coalesce, a receiver should read the current state after each signal. The
// channel is closed by Close.
func (l *Lookup) Updated() <-chan struct{} {
	return l.updated
}

// fire runs when the debounce timer for the given sequence expires.
func (l *Lookup) fire(seq uint64, query string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || seq != l.timerSeq {
		return
	}
	l.timer = nil

	// Any request still in flight is superseded by this one, or by the cleared list
	if l.inflight != nil {
		l.inflight()
		l.inflight = nil
	}
	l.requestSeq++

	if strings.TrimSpace(query) == "" {
		l.loading = false
		l.suggestions = nil
		l.notify()
		return
	}

	ctx, cancel := context.WithCancel(l.ctx)
	l.inflight = cancel
	l.loading = true
	l.notify()

	l.wg.Add(1)
	go l.search(ctx, cancel, l.requestSeq, query)
}

func (l *Lookup) search(ctx context.Context, cancel context.CancelFunc, seq uint64, query string) {
	defer l.wg.Done()
	defer cancel()

	suggestions, err := l.searcher.Search(ctx, query)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || seq != l.requestSeq {
		return
	}
	l.inflight = nil
	l.loading = false

	switch {
	case err == nil:
		l.suggestions = suggestions
	case errors.Is(err, context.Canceled):
		// The request was superseded or torn down, the current list stays as it is
	default:
		l.logger.Error("failed to fetch address suggestions", logger.Err(err),
			slog.String("provider", l.searcher.Name()))
		l.suggestions = nil
	}
	l.notify()
}

// stopPending stops the debounce timer and cancels the in-flight request. The caller must hold the lock.
func (l *Lookup) stopPending() {
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	l.timerSeq++
	if l.inflight != nil {
		l.inflight()
		l.inflight = nil
	}
	l.requestSeq++
}

// notify signals a state change without blocking. The caller must hold the lock.
func (l *Lookup) notify() {
	if l.closed {
		return
	}
	select {
	case l.updated <- struct{}{}:
	default:
	}
}
