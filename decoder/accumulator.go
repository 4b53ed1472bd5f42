package decoder

import "github.com/fwojciec/relay"

// Apply returns the accumulated text after frame f and whether it produced a
// snapshot. Token and plain-text frames append; text-field frames and agent
// traces with an extractable answer replace the text wholesale, since those
// formats resend the whole answer so far. Everything else leaves current
// untouched.
func Apply(current string, f relay.Frame) (string, bool) {
	switch f := f.(type) {
	case relay.FrameStringToken:
		return current + f.Value, true
	case relay.FrameFieldToken:
		return current + f.Value, true
	case relay.FramePlainText:
		return current + f.Value, true
	case relay.FrameFieldText:
		return f.Value, true
	case relay.FrameAgentFlow:
		if answer, ok := ExtractAnswer(f.Trace); ok {
			return answer, true
		}
		return current, false
	default:
		return current, false
	}
}

// Accumulator holds the running answer of one request.
type Accumulator struct {
	text string
}

// Apply folds f into the running text and reports whether a snapshot is due.
func (a *Accumulator) Apply(f relay.Frame) bool {
	next, changed := Apply(a.text, f)
	a.text = next
	return changed
}

// Snapshot returns an immutable view of the running text.
func (a *Accumulator) Snapshot() relay.Snapshot {
	return relay.Snapshot{Text: a.text}
}

// Text returns the running text.
func (a *Accumulator) Text() string {
	return a.text
}
