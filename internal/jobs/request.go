// Package jobs builds and validates comment-job requests before they
// reach the transport. Validation is pure: no I/O, no retained state.
package jobs

import "github.com/commentify/commentify/internal/api"

// MaxComments is the upper bound on comments per job
const MaxComments = 20

// MinComments is the lower bound on comments per job
const MinComments = 1

// Tones lists the accepted message tones
var Tones = []string{"professional", "casual", "enthusiastic", "thoughtful", "friendly"}

// DefaultTone is used when a request does not specify one
const DefaultTone = "professional"

// ValidTone reports whether tone is one of the accepted values
func ValidTone(tone string) bool {
	for _, t := range Tones {
		if t == tone {
			return true
		}
	}
	return false
}

// Request is a candidate comment job prior to submission
type Request struct {
	Keywords    []string
	MaxComments int
	Options     api.JobOptions
}

// KeywordSet accumulates target keywords, deduplicating on add.
// Deduplication here is the caller-side precondition the validator
// relies on: Validate does not deduplicate.
type KeywordSet struct {
	keywords []string
	seen     map[string]struct{}
}

// NewKeywordSet creates an empty keyword set
func NewKeywordSet() *KeywordSet {
	return &KeywordSet{seen: make(map[string]struct{})}
}

// Add appends kw unless it is blank or already present (case-sensitive,
// exact match). Returns true if the keyword was added.
func (k *KeywordSet) Add(kw string) bool {
	if kw == "" {
		return false
	}
	if _, dup := k.seen[kw]; dup {
		return false
	}
	k.seen[kw] = struct{}{}
	k.keywords = append(k.keywords, kw)
	return true
}

// Remove deletes kw from the set. Returns true if it was present.
func (k *KeywordSet) Remove(kw string) bool {
	if _, ok := k.seen[kw]; !ok {
		return false
	}
	delete(k.seen, kw)
	for i, existing := range k.keywords {
		if existing == kw {
			k.keywords = append(k.keywords[:i], k.keywords[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of keywords in the set
func (k *KeywordSet) Len() int {
	return len(k.keywords)
}

// Keywords returns the keywords in insertion order
func (k *KeywordSet) Keywords() []string {
	out := make([]string, len(k.keywords))
	copy(out, k.keywords)
	return out
}
