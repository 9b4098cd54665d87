package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	cfgpkg "github.com/veranemoloko/tinyshare/internal/config"
	"github.com/veranemoloko/tinyshare/internal/domain"
	errpkg "github.com/veranemoloko/tinyshare/internal/errors"
	"github.com/veranemoloko/tinyshare/internal/host"
	"github.com/veranemoloko/tinyshare/internal/metrics"
	"github.com/veranemoloko/tinyshare/internal/network"
	svc "github.com/veranemoloko/tinyshare/internal/service"
	"github.com/veranemoloko/tinyshare/internal/shortener"
	"github.com/veranemoloko/tinyshare/internal/validation"
	"github.com/veranemoloko/tinyshare/internal/worker"
)

func runShare(cmd *cobra.Command, args []string) error {
	cfg, err := cfgpkg.Load(envFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := cfgpkg.SetupLogger(cfg)
	logger.Debug("configuration loaded", "env", cfg.Environment, "endpoint", cfg.Endpoint)

	notifier := newNotifier(cmd.ErrOrStderr())
	defer notifier.Close()

	activator, err := newActivator(cfg, cmd.OutOrStdout(), notifier, logger)
	if err != nil {
		return err
	}

	var rawURL string
	if len(args) > 0 {
		rawURL = args[0]
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	report := activator.Activate(ctx, domain.NewRequest(rawURL, extras, cfg.DefaultURL))

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Error("metrics export failed", "path", cfg.MetricsFile, "error", err)
		}
	}

	if !report.Shared() {
		if report.Err != nil && !errors.Is(report.Err, errpkg.ErrNotShared) {
			return fmt.Errorf("%w: %v", errpkg.ErrNotShared, report.Err)
		}
		return errpkg.ErrNotShared
	}
	return nil
}

func newActivator(cfg *cfgpkg.Config, stdout io.Writer, notifier svc.Notifier, logger *slog.Logger) (*svc.Activator, error) {
	client, err := shortener.NewClient(cfg.Endpoint, cfg.HTTPTimeout, logger)
	if err != nil {
		return nil, err
	}

	probe := network.NewProbe(cfg.Probes(), cfg.ProbeTimeout, logger)
	w := worker.NewShareWorker(validation.NewURLValidator(), probe, client, cfg.ServicePrefixes, logger)

	return svc.NewActivator(w, svc.Host{
		Sharer:    newSharer(cfg.ShareCommand, stdout, logger),
		Clipboard: newClipboard(cfg.Clipboard),
		Notifier:  notifier,
	}, logger), nil
}

func newSharer(command string, stdout io.Writer, logger *slog.Logger) svc.Sharer {
	switch strings.TrimSpace(command) {
	case "":
		return host.NewStdoutSharer(stdout)
	case cfgpkg.ShareAuto:
		return host.NewCommandSharer(nil, logger)
	default:
		return host.NewCommandSharer(strings.Fields(command), logger)
	}
}

func newClipboard(enabled bool) svc.Clipboard {
	if !enabled {
		return host.NopClipboard{}
	}
	return host.SystemClipboard{}
}

func newNotifier(w io.Writer) *host.TerminalNotifier {
	if f, ok := w.(*os.File); ok {
		return host.NewTerminalNotifier(f)
	}
	return host.NewNotifier(w, false)
}
