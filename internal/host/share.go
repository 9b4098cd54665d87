package host

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"unicode"

	"github.com/veranemoloko/tinyshare/internal/domain"
	errpkg "github.com/veranemoloko/tinyshare/internal/errors"
)

// Operating system constants
const (
	OSDarwin  = "darwin"
	OSWindows = "windows"
)

// Opener commands
const (
	OpenCommand    = "open"
	XDGOpenCommand = "xdg-open"
	CmdCommand     = "cmd"
	StartCommand   = "start"
	WindowsCmdFlag = "/c"
)

// Placeholders substituted in share command arguments.
const (
	PlaceholderURL   = "{url}"
	PlaceholderTitle = "{title}"
)

// Environment exported to share commands.
const (
	EnvURL         = "TINYSHARE_URL"
	EnvTitle       = "TINYSHARE_TITLE"
	EnvExtraPrefix = "TINYSHARE_EXTRA_"
)

// StdoutSharer prints the shared URL on its writer.
type StdoutSharer struct {
	w io.Writer
}

// NewStdoutSharer creates a sharer writing to w.
func NewStdoutSharer(w io.Writer) *StdoutSharer {
	return &StdoutSharer{w: w}
}

// Share writes the URL followed by a newline.
func (s *StdoutSharer) Share(ctx context.Context, req domain.ShareRequest) error {
	_, err := fmt.Fprintln(s.w, req.URL)
	return err
}

// PlatformOpener returns the command that opens a URL with the default
// application of goos.
func PlatformOpener(goos string) []string {
	switch goos {
	case OSDarwin:
		return []string{OpenCommand}
	case OSWindows:
		return []string{CmdCommand, WindowsCmdFlag, StartCommand, ""}
	default:
		return []string{XDGOpenCommand}
	}
}

// CommandSharer hands the URL to an external command.
type CommandSharer struct {
	name   string
	args   []string
	logger *slog.Logger
}

// NewCommandSharer creates a sharer running argv. An empty argv selects the
// platform opener.
func NewCommandSharer(argv []string, logger *slog.Logger) *CommandSharer {
	if len(argv) == 0 {
		argv = PlatformOpener(runtime.GOOS)
	}
	return &CommandSharer{
		name:   argv[0],
		args:   argv[1:],
		logger: logger,
	}
}

// Share runs the command once for req. It returns ErrNoShareTarget when the
// executable cannot be found.
func (s *CommandSharer) Share(ctx context.Context, req domain.ShareRequest) error {
	path, err := exec.LookPath(s.name)
	if err != nil {
		return fmt.Errorf("%w: %s", errpkg.ErrNoShareTarget, s.name)
	}

	args := s.buildArgs(req)
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Env = append(os.Environ(), shareEnv(req)...)

	s.logger.Debug("running share command", "command", path, "args", args)

	if out, err := cmd.CombinedOutput(); err != nil {
		s.logger.Warn("share command failed",
			"command", path,
			"output", strings.TrimSpace(string(out)),
			"error", err,
		)
		return fmt.Errorf("share command %s failed: %w", s.name, err)
	}
	return nil
}

func (s *CommandSharer) buildArgs(req domain.ShareRequest) []string {
	args := make([]string, 0, len(s.args)+1)
	substituted := false

	for _, a := range s.args {
		if strings.Contains(a, PlaceholderURL) || strings.Contains(a, PlaceholderTitle) {
			substituted = true
			a = strings.ReplaceAll(a, PlaceholderURL, req.URL)
			a = strings.ReplaceAll(a, PlaceholderTitle, req.Title)
		}
		args = append(args, a)
	}

	if !substituted {
		args = append(args, req.URL)
	}
	return args
}

func shareEnv(req domain.ShareRequest) []string {
	env := []string{
		EnvURL + "=" + req.URL,
		EnvTitle + "=" + req.Title,
	}
	for k, v := range req.Extras {
		env = append(env, EnvExtraPrefix+envKey(k)+"="+v)
	}
	return env
}

// envKey upper-cases k and replaces anything outside [A-Z0-9_] with '_'.
func envKey(k string) string {
	return strings.Map(func(r rune) rune {
		r = unicode.ToUpper(r)
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			return r
		}
		return '_'
	}, k)
}
