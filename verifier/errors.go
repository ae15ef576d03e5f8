package verifier

// Kind is a stable category for programmatic error handling.
//
// Every kind is terminal for the bundle that produced it: nothing is
// retried and nothing is partially accepted. Callers should branch on Kind
// (and Index) via errors.As rather than matching error strings.
type Kind string

const (
	// KindMalformedAttestation: the attested message bytes failed
	// structural parsing.
	KindMalformedAttestation Kind = "MalformedAttestation"
	// KindWrongEmitterChain: the message origin does not match the
	// caller's expected emitter chain.
	KindWrongEmitterChain Kind = "WrongEmitterChain"
	// KindUnsupportedPayloadVariant: the message payload is not the
	// supported commitment variant.
	KindUnsupportedPayloadVariant Kind = "UnsupportedPayloadVariant"
	// KindInvalidProof: an update's inclusion proof does not recompute
	// the committed root. Index identifies the update.
	KindInvalidProof Kind = "InvalidProof"
	// KindUnknownMessageType: a proven leaf carries an unrecognized
	// message discriminator. Index identifies the update.
	KindUnknownMessageType Kind = "UnknownMessageType"
	// KindMalformedMessage: a proven leaf failed to decode. Index
	// identifies the update.
	KindMalformedMessage Kind = "MalformedMessage"
)

// Error is the pipeline's structured error type.
//
// Index is the zero-based position of the offending update, or -1 when the
// failure is not tied to a specific update. Message is for humans; do not
// match on it.
type Error struct {
	Kind    Kind
	Index   int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind Kind, index int, msg string, cause error) error {
	return &Error{Kind: kind, Index: index, Message: msg, Cause: cause}
}
