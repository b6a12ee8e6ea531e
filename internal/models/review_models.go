package models

import (
	"encoding/json"
	"errors"
	"unicode/utf8"

	"github.com/spacesedan/reviewsentiment/internal/sentiment"
)

var ErrInvalidUTF8 = errors.New("review is not valid UTF-8")

// ReviewRequest is the body of POST /analyze. A missing, null or
// non-string review decodes to the empty string. Invalid UTF-8 in the
// review is rejected rather than replaced, so it can be echoed unchanged.
type ReviewRequest struct {
	Review string `json:"review"`
}

func (r *ReviewRequest) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	r.Review = ""
	raw, ok := fields["review"]
	if !ok {
		return nil
	}
	if !utf8.Valid(raw) {
		return ErrInvalidUTF8
	}

	var review string
	if err := json.Unmarshal(raw, &review); err != nil {
		return nil
	}
	r.Review = review
	return nil
}

type ReviewAnalysis struct {
	Review    string          `json:"review"`
	Sentiment sentiment.Label `json:"sentiment"`
	Score     float64         `json:"score"`
}
