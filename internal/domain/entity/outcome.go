package entity

import "time"

type OutcomeKind string

const (
	OutcomeSuccess         OutcomeKind = "success"
	OutcomeNoValidResponse OutcomeKind = "no_valid_response"
	OutcomeError           OutcomeKind = "error"
	OutcomeRejected        OutcomeKind = "rejected"
)

const (
	MessageEmptyQuery      = "Please enter a query."
	MessageNoValidResponse = "No valid response was generated."
	MessageTimeout         = "timeout"
	MessageCanceled        = "canceled"
)

// Outcome is the classified result of one query submission.
type Outcome struct {
	Kind     OutcomeKind
	Text     string
	Message  string
	Attempts int
	Elapsed  time.Duration
}

func Success(text string, attempts int) Outcome {
	return Outcome{Kind: OutcomeSuccess, Text: text, Attempts: attempts}
}

func NoValidResponse(attempts int) Outcome {
	return Outcome{Kind: OutcomeNoValidResponse, Message: MessageNoValidResponse, Attempts: attempts}
}

func Failure(message string, attempts int) Outcome {
	return Outcome{Kind: OutcomeError, Message: message, Attempts: attempts}
}

func Rejected() Outcome {
	return Outcome{Kind: OutcomeRejected, Message: MessageEmptyQuery}
}

func (o Outcome) IsSuccess() bool {
	return o.Kind == OutcomeSuccess
}

// UserMessage is the notice shown to the user for non-success outcomes.
func (o Outcome) UserMessage() string {
	switch o.Kind {
	case OutcomeSuccess:
		return ""
	case OutcomeError:
		return "An error occurred: " + o.Message
	default:
		return o.Message
	}
}
