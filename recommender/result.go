package recommender

// Outcome tags how a stage that calls the oracle finished.
type Outcome int

const (
	// OutcomeOK means the oracle answered and the reply decoded.
	OutcomeOK Outcome = iota
	// OutcomeDecodeFallback means the oracle answered but the reply could
	// not be decoded; the value is the stage default.
	OutcomeDecodeFallback
	// OutcomeTransportError means the oracle call itself failed or timed out.
	OutcomeTransportError
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeDecodeFallback:
		return "decode_fallback"
	case OutcomeTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// Result is the value produced by an oracle-backed stage. Value is always
// usable; Err is set for the two non-OK outcomes.
type Result[T any] struct {
	Value   T
	Outcome Outcome
	Err     error
}

func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v, Outcome: OutcomeOK}
}

func Fallback[T any](v T, err error) Result[T] {
	return Result[T]{Value: v, Outcome: OutcomeDecodeFallback, Err: err}
}

func Failed[T any](v T, err error) Result[T] {
	return Result[T]{Value: v, Outcome: OutcomeTransportError, Err: err}
}
