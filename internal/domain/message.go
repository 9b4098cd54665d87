package domain

import "fmt"

// MessageKind tells the controller how to dispatch a message.
type MessageKind int

const (
	KindURL   MessageKind = 1
	KindError MessageKind = 2
	KindText  MessageKind = 3
)

func (k MessageKind) String() string {
	switch k {
	case KindURL:
		return "url"
	case KindError:
		return "error"
	case KindText:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Message wraps an Outcome for transit from the worker to the controller.
// Seq is assigned by the mailbox in post order, starting at 1.
type Message struct {
	Seq     uint64
	Kind    MessageKind
	Outcome Outcome
}

// NewMessage wraps the outcome and derives its kind.
func NewMessage(o Outcome) Message {
	return Message{Kind: KindOf(o), Outcome: o}
}

// KindOf maps an outcome variant to the message kind it travels as.
func KindOf(o Outcome) MessageKind {
	switch o.(type) {
	case Shortened, Passthrough:
		return KindURL
	case Failure:
		return KindError
	default:
		return KindText
	}
}
