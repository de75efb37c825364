// Package rationale defines the optional text-generation oracle used to
// attach human-readable justifications to already-final decisions. It is
// never consulted on the numeric decision path.
package rationale

// Oracle produces a display-only explanation for a finalized decision.
type Oracle interface {
	Explain(decision any) string
}

// Nop returns an empty explanation.
type Nop struct{}

func (Nop) Explain(any) string { return "" }
