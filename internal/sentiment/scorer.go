package sentiment

import "context"

// Scorer returns the polarity of a piece of text. The sign carries the
// direction and 0 means neutral. Implementations must be safe for
// concurrent use.
type Scorer interface {
	Polarity(ctx context.Context, text string) (float64, error)
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(ctx context.Context, text string) (float64, error)

func (f ScorerFunc) Polarity(ctx context.Context, text string) (float64, error) {
	return f(ctx, text)
}
