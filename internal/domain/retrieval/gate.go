// Package retrieval defines the contract with the automated answering
// collaborator. The engine only consumes its verdict; ranking and answer
// synthesis live behind the Gate.
package retrieval

import (
	"context"
	"errors"
)

// ErrTimeout reports a gate call that exceeded its deadline. Callers treat
// it as a no-match verdict so the user still gets a ticket acknowledgment.
var ErrTimeout = errors.New("retrieval gate timed out")

// Verdict is the gate's judgment on a question. Confident carries the
// threshold comparison already applied by the gate client.
type Verdict struct {
	Confident  bool
	AnswerText string
	Confidence float64
}

type Gate interface {
	Answer(ctx context.Context, questionText string) (*Verdict, error)
}
