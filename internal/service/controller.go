package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/veranemoloko/tinyshare/internal/domain"
	errpkg "github.com/veranemoloko/tinyshare/internal/errors"
	"github.com/veranemoloko/tinyshare/internal/metrics"
)

// Sharer hands a URL to whatever the host uses for sharing.
type Sharer interface {
	Share(ctx context.Context, req domain.ShareRequest) error
}

// Clipboard places text on the system clipboard.
type Clipboard interface {
	Copy(text string) error
}

// Notifier shows short transient texts. Update replaces the text of a
// notice previously returned by Show.
type Notifier interface {
	Show(text string) domain.NoticeID
	Update(id domain.NoticeID, text string)
}

// Inbox is the controller side of the result channel.
type Inbox interface {
	Next(ctx context.Context) (domain.Message, error)
	Close()
}

// Host groups the collaborators the controller drives.
type Host struct {
	Sharer    Sharer
	Clipboard Clipboard
	Notifier  Notifier
}

// Controller handles the messages of one activation. It is not safe for
// concurrent use: all state belongs to the goroutine calling Run.
type Controller struct {
	host   Host
	extras map[string]string
	logger *slog.Logger

	pendingCopy   bool
	pendingFinish bool
	notice        domain.NoticeID
	hasNotice     bool

	report domain.Report
}

// NewController creates a controller for the activation serving req.
func NewController(host Host, req domain.Request, logger *slog.Logger) *Controller {
	return &Controller{
		host:   host,
		extras: req.Extras,
		logger: logger,
	}
}

// Finished reports whether the activation has ended.
func (c *Controller) Finished() bool {
	return c.pendingFinish
}

// Run handles messages from inbox until the activation ends or ctx is done,
// then closes the inbox so anything still coming is dropped.
func (c *Controller) Run(ctx context.Context, inbox Inbox) domain.Report {
	defer inbox.Close()

	for !c.pendingFinish {
		msg, err := inbox.Next(ctx)
		if err != nil {
			c.logger.Warn("controller stopped before the activation ended", "error", err)
			c.report.Err = err
			return c.report
		}
		c.Handle(ctx, msg)
	}

	if c.report.Err == nil && !c.report.Shared() {
		c.report.Err = errpkg.ErrNotShared
	}
	return c.report
}

// Handle dispatches one message. Messages arriving after the activation has
// ended are ignored.
func (c *Controller) Handle(ctx context.Context, msg domain.Message) {
	if c.pendingFinish {
		c.logger.Debug("message after finish ignored", "seq", msg.Seq, "kind", msg.Kind)
		return
	}

	if msg.Outcome == nil || domain.KindOf(msg.Outcome) != msg.Kind {
		c.logger.Error("malformed message", "seq", msg.Seq, "kind", msg.Kind)
		c.fail(fmt.Sprintf("%v: %s", errpkg.ErrUnexpectedKind, msg.Kind))
		return
	}

	metrics.OutcomesTotal.WithLabelValues(string(msg.Outcome.Kind())).Inc()
	c.logger.Debug("handling message", "seq", msg.Seq, "kind", msg.Kind)

	switch o := msg.Outcome.(type) {
	case domain.Shortened:
		c.share(ctx, o, o.URL, o.CopyRequested)
	case domain.Passthrough:
		c.share(ctx, o, o.URL, false)
	case domain.StatusText:
		c.show(o.Text)
		if o.Terminal {
			c.finish(o)
		}
	case domain.Failure:
		c.fail(o.Description)
	}
}

func (c *Controller) share(ctx context.Context, o domain.Outcome, url string, copyRequested bool) {
	c.pendingCopy = copyRequested

	err := c.host.Sharer.Share(ctx, domain.ShareRequest{
		URL:    url,
		Title:  domain.ShareTitle(url),
		Extras: c.extras,
	})
	if err != nil {
		metrics.ShareFailures.Inc()
		c.logger.Error("share failed", "url", url, "error", err)
		c.pendingCopy = false
		c.report.Err = err
		c.fail(err.Error())
		return
	}

	c.logger.Info("url shared", "url", url)
	c.report.SharedURL = url

	if c.pendingCopy {
		c.pendingCopy = false
		if err := c.host.Clipboard.Copy(url); err != nil {
			c.logger.Warn("clipboard write failed", "error", err)
			c.show(domain.ErrorText(err.Error()))
		} else {
			c.report.Copied = true
			c.show(domain.CopiedText(url))
		}
	}

	c.finish(o)
}

func (c *Controller) fail(description string) {
	c.show(domain.ErrorText(description))
	c.finish(domain.Failure{Description: description})
}

func (c *Controller) show(text string) {
	if !c.hasNotice {
		c.notice = c.host.Notifier.Show(text)
		c.hasNotice = true
		return
	}
	c.host.Notifier.Update(c.notice, text)
}

func (c *Controller) finish(final domain.Outcome) {
	c.pendingFinish = true
	c.report.Final = final
}
