// tinyshare shortens a URL with TinyURL and shares the result.
//
// The short URL goes to the share target (stdout by default) and, when it was
// freshly shortened, to the clipboard. Progress notices go to stderr.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	errpkg "github.com/veranemoloko/tinyshare/internal/errors"
)

var version = "dev"

var (
	extras  map[string]string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "tinyshare [url]",
	Short: "Shorten a URL with TinyURL and share it",
	Long: `tinyshare shortens a URL with TinyURL, shares the short URL and copies
it to the clipboard. Without an argument the configured default URL is used.

  tinyshare https://example.com/a/long/path
  tinyshare https://example.com --extra subject="Look at this"
  TS_SHARE_COMMAND=auto tinyshare https://example.com`,
	Version:       version,
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runShare,
}

func init() {
	rootCmd.Flags().StringToStringVar(&extras, "extra", nil, "extra key=value forwarded to the share target (repeatable)")
	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "optional dotenv file with TS_* settings")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		// The notice already told the user why nothing was shared.
		if !errors.Is(err, errpkg.ErrNotShared) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}
