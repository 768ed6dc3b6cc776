package jobs

import (
	"errors"
	"fmt"
)

var (
	// ErrNoKeywords indicates the request has an empty keyword set
	ErrNoKeywords = errors.New("at least one keyword is required")

	// ErrNegativeReactions indicates a negative minimum-reactions option
	ErrNegativeReactions = errors.New("minimum reactions cannot be negative")
)

// CommentBoundsError indicates MaxComments is outside [MinComments, MaxComments]
type CommentBoundsError struct {
	Value int
}

func (e *CommentBoundsError) Error() string {
	return fmt.Sprintf("max comments must be between %d and %d, got %d",
		MinComments, MaxComments, e.Value)
}

// ToneError indicates an unrecognized message tone
type ToneError struct {
	Tone string
}

func (e *ToneError) Error() string {
	return fmt.Sprintf("unknown message tone %q", e.Tone)
}

// Validate checks a candidate request. It performs no I/O and never
// reaches the transport; a nil return means the request may be sent.
// Keyword deduplication is the caller's responsibility (see KeywordSet).
func Validate(req Request) error {
	if len(req.Keywords) == 0 {
		return ErrNoKeywords
	}
	if req.MaxComments < MinComments || req.MaxComments > MaxComments {
		return &CommentBoundsError{Value: req.MaxComments}
	}
	if req.Options.MinReactions < 0 {
		return ErrNegativeReactions
	}
	if req.Options.MessageTone != "" && !ValidTone(req.Options.MessageTone) {
		return &ToneError{Tone: req.Options.MessageTone}
	}
	return nil
}
