package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/veranemoloko/tinyshare/internal/domain"
	errpkg "github.com/veranemoloko/tinyshare/internal/errors"
)

// State is a step of the worker task.
type State string

const (
	StateStart         State = "start"
	StateValidating    State = "validating"
	StateInvalid       State = "invalid"
	StateAlreadyShort  State = "already_short"
	StateCheckNetwork  State = "check_network"
	StateNoNetwork     State = "no_network"
	StateShortening    State = "shortening"
	StateShortened     State = "shortened"
	StateShortenFailed State = "shorten_failed"
	StateFailed        State = "failed"
	StateDone          State = "done"
)

// URLValidator decides whether a URL can be shortened.
type URLValidator interface {
	IsValidURL(candidate string) bool
}

// Reachability reports whether the network can be used.
type Reachability interface {
	Available(ctx context.Context) bool
}

// Shortener turns a long URL into a short one.
type Shortener interface {
	Shorten(ctx context.Context, longURL string) (string, error)
}

// Poster receives the outcomes of a task, in order.
type Poster interface {
	Post(o domain.Outcome) bool
}

// ShareWorker holds the collaborators shared by all tasks.
type ShareWorker struct {
	validator       URLValidator
	network         Reachability
	shortener       Shortener
	servicePrefixes []string
	logger          *slog.Logger
}

// NewShareWorker creates a ShareWorker. servicePrefixes identify URLs that
// the shortening service already produced.
func NewShareWorker(v URLValidator, n Reachability, s Shortener, servicePrefixes []string, logger *slog.Logger) *ShareWorker {
	return &ShareWorker{
		validator:       v,
		network:         n,
		shortener:       s,
		servicePrefixes: servicePrefixes,
		logger:          logger,
	}
}

// NewTask creates the single-use task for one activation.
func (w *ShareWorker) NewTask(req domain.Request) *Task {
	return &Task{
		worker: w,
		req:    req,
		logger: w.logger,
	}
}

// Task runs the shortening flow for one request, exactly once.
type Task struct {
	worker  *ShareWorker
	req     domain.Request
	logger  *slog.Logger
	started atomic.Bool
}

// WithLogger scopes the task's log lines, e.g. with an activation ID.
func (t *Task) WithLogger(logger *slog.Logger) *Task {
	t.logger = logger
	return t
}

// Run walks the task from START to DONE, posting outcomes to out, and returns
// the branch it ended in. It does not return until the network call, if any,
// has finished; ctx only bounds that call.
func (t *Task) Run(ctx context.Context, out Poster) (final State, err error) {
	if !t.started.CompareAndSwap(false, true) {
		return StateDone, errpkg.ErrTaskAlreadyRun
	}

	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("worker task panicked", "panic", r, "state", final)
			out.Post(domain.Failure{Description: fmt.Sprint(r)})
			final = StateFailed
		}
		t.logger.Debug("worker task done", "state", final)
	}()

	t.transition(StateStart)
	final = t.run(ctx, out)
	return final, nil
}

func (t *Task) run(ctx context.Context, out Poster) State {
	url := t.req.OriginalURL

	t.transition(StateValidating)
	if !t.worker.validator.IsValidURL(url) {
		t.logger.Info("invalid url", "url", url)
		out.Post(domain.StatusText{Text: domain.TextInvalidURL, Terminal: true})
		return StateInvalid
	}

	if t.alreadyShort(url) {
		t.logger.Info("url already shortened", "url", url)
		out.Post(domain.Shortened{URL: url, CopyRequested: false})
		return StateAlreadyShort
	}

	t.transition(StateCheckNetwork)
	if !t.worker.network.Available(ctx) {
		out.Post(domain.StatusText{Text: domain.TextNetworkNotAvailable, Terminal: true})
		return StateNoNetwork
	}

	t.transition(StateShortening)
	out.Post(domain.StatusText{Text: domain.TextConnecting, Terminal: false})

	short, err := t.shorten(ctx, url)
	if err != nil {
		// The original link is still worth sharing.
		t.logger.Warn("shortening failed, sharing original url",
			"url", url,
			"error", err,
		)
		out.Post(domain.Shortened{URL: url, CopyRequested: false})
		return StateShortenFailed
	}

	t.logger.Info("url shortened", "url", url, "short_url", short)
	out.Post(domain.Shortened{URL: short, CopyRequested: true})
	return StateShortened
}

// shorten calls the shortener, turning a panic into an error.
func (t *Task) shorten(ctx context.Context, url string) (short string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("shortener panicked: %v", r)
		}
	}()
	return t.worker.shortener.Shorten(ctx, url)
}

func (t *Task) alreadyShort(url string) bool {
	for _, prefix := range t.worker.servicePrefixes {
		if prefix != "" && strings.HasPrefix(url, prefix) {
			return true
		}
	}
	return false
}

func (t *Task) transition(to State) {
	t.logger.Debug("worker task state", "state", to)
}
