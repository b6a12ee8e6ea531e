package sentiment

type Label string

const (
	LabelPositive Label = "Positive"
	LabelNegative Label = "Negative"
	LabelNeutral  Label = "Neutral"
)

// Classify maps a polarity to its label by sign alone. Zero is Neutral,
// and so is NaN since it compares false both ways.
func Classify(polarity float64) Label {
	switch {
	case polarity > 0:
		return LabelPositive
	case polarity < 0:
		return LabelNegative
	default:
		return LabelNeutral
	}
}
