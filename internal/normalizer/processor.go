// Package normalizer turns raw scraped records into validated canonical candidates.
package normalizer

import (
	"time"

	"eventpipe/internal/models"
)

// Result pairs a candidate with the validator's verdict for it.
type Result struct {
	Candidate *models.Candidate
	Outcome   Outcome
	// ParseError carries a normalization failure (unparseable start
	// date) for logging; the rejection itself is in Outcome.
	ParseError error
}

// Admitted reports whether the candidate continues downstream.
func (r Result) Admitted() bool {
	return r.Outcome.Decision != DecisionReject
}

// Processor composes normalization and validation for one record.
// It is stateless per record and safe for concurrent use.
type Processor struct {
	transformer *Transformer
	validator   *Validator
}

// NewProcessor creates a processor.
func NewProcessor(loc *time.Location, defaultCity, defaultState string, pastTolerance time.Duration) *Processor {
	return &Processor{
		transformer: NewTransformer(loc, defaultCity, defaultState),
		validator:   NewValidator(pastTolerance),
	}
}

// Process normalizes and validates one raw candidate. Normalization
// failures are not terminal here: the damaged candidate is still put
// through validation so it surfaces as a reject with a reason instead
// of disappearing.
func (p *Processor) Process(raw models.RawCandidate) Result {
	candidate, err := p.transformer.Transform(raw)
	outcome := p.validator.Validate(candidate)

	return Result{
		Candidate:  candidate,
		Outcome:    outcome,
		ParseError: err,
	}
}
