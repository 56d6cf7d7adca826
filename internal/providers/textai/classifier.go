// Package textai defines the injected AI-text detection capability used by
// the scoring pipeline. The engine never talks to a model directly; it
// receives a probability from whichever Classifier is wired in.
package textai

import "context"

// Classifier estimates the probability that a text was machine-generated.
type Classifier interface {
	DetectGenerated(ctx context.Context, text string) (float64, error)
}

// Disabled is the default classifier: it never flags anything. It mirrors
// running the pipeline without a model configured.
type Disabled struct{}

func NewDisabled() *Disabled {
	return &Disabled{}
}

func (d *Disabled) DetectGenerated(ctx context.Context, text string) (float64, error) {
	return 0, nil
}

var _ Classifier = (*Disabled)(nil)
