package domain

import "fmt"

// User-facing texts shown through the notice collaborator.
const (
	TextConnecting          = "Connecting..."
	TextInvalidURL          = "Invalid URL"
	TextNetworkNotAvailable = "Network is not available"
	TextCopied              = "Copied to clipboard"
	TextShareTitle          = "Share %s"
)

// CopiedText is the confirmation shown after a clipboard write.
func CopiedText(url string) string {
	return TextCopied + " : " + url
}

// ErrorText formats a failure description for display.
func ErrorText(description string) string {
	return "error : " + description
}

// ShareTitle is the title passed along with a shared URL.
func ShareTitle(url string) string {
	return fmt.Sprintf(TextShareTitle, url)
}
