package domain

// OutcomeKind names the variant of an Outcome.
type OutcomeKind string

const (
	OutcomeShortened   OutcomeKind = "shortened"
	OutcomePassthrough OutcomeKind = "passthrough"
	OutcomeStatus      OutcomeKind = "status"
	OutcomeFailure     OutcomeKind = "failure"
)

// Outcome is the result of a worker step handed to the controller.
// The set of variants is closed: Shortened, Passthrough, StatusText and Failure.
type Outcome interface {
	Kind() OutcomeKind
	// IsTerminal reports whether the activation must end after the outcome is handled.
	IsTerminal() bool

	outcome()
}

// Shortened carries a URL ready to share. CopyRequested marks a freshly
// shortened URL that should also go to the clipboard.
type Shortened struct {
	URL           string `json:"url"`
	CopyRequested bool   `json:"copy_requested"`
}

// Passthrough carries the original URL to share as is, without a copy.
type Passthrough struct {
	URL string `json:"url"`
}

// StatusText is informational text for display.
type StatusText struct {
	Text     string `json:"text"`
	Terminal bool   `json:"terminal"`
}

// Failure is a hard error. It always ends the activation.
type Failure struct {
	Description string `json:"description"`
}

func (Shortened) Kind() OutcomeKind   { return OutcomeShortened }
func (Passthrough) Kind() OutcomeKind { return OutcomePassthrough }
func (StatusText) Kind() OutcomeKind  { return OutcomeStatus }
func (Failure) Kind() OutcomeKind     { return OutcomeFailure }

func (Shortened) IsTerminal() bool    { return true }
func (Passthrough) IsTerminal() bool  { return true }
func (s StatusText) IsTerminal() bool { return s.Terminal }
func (Failure) IsTerminal() bool      { return true }

func (Shortened) outcome()   {}
func (Passthrough) outcome() {}
func (StatusText) outcome()  {}
func (Failure) outcome()     {}
