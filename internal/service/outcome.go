package service

// Outcome classifies the result of a best-effort step. It makes the
// ignore policy explicit: a NonCritical failure is logged and the
// operation continues. This replaces blanket catch-and-ignore so every
// swallowed error is an auditable decision.
type Outcome struct {
	err error
}

func OK() Outcome {
	return Outcome{}
}

// NonCritical marks a failure the operation survives.
func NonCritical(err error) Outcome {
	return Outcome{err: err}
}

func (o Outcome) Succeeded() bool {
	return o.err == nil
}

// Err returns the underlying error, nil on success.
func (o Outcome) Err() error {
	return o.err
}
