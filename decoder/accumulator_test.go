package decoder_test

import (
	"testing"

	"github.com/fwojciec/relay"
	"github.com/fwojciec/relay/decoder"
	"github.com/stretchr/testify/assert"
)

func TestApply(t *testing.T) {
	t.Parallel()

	answerTrace := relay.AgentFlowTrace{Nodes: []relay.AgentFlowNode{
		{Messages: []relay.AgentFlowMessage{{Content: "Human: q\nAssistant: extracted"}}},
	}}

	tests := []struct {
		name        string
		current     string
		frame       relay.Frame
		want        string
		wantChanged bool
	}{
		{"ignorable", "keep", relay.FrameIgnorable{}, "keep", false},
		{"system status", "keep", relay.FrameSystemStatus{}, "keep", false},
		{"string token appends", "Hel", relay.FrameStringToken{Value: "lo"}, "Hello", true},
		{"field token appends", "Hel", relay.FrameFieldToken{Value: "lo"}, "Hello", true},
		{"plain text appends", "Hel", relay.FramePlainText{Value: "lo"}, "Hello", true},
		{"field text replaces", "partial", relay.FrameFieldText{Value: "Full answer"}, "Full answer", true},
		{"field text may shrink", "a long answer", relay.FrameFieldText{Value: "short"}, "short", true},
		{"agent flow replaces", "tokens so far", relay.FrameAgentFlow{Trace: answerTrace}, "extracted", true},
		{"agent flow miss keeps text", "keep", relay.FrameAgentFlow{}, "keep", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, changed := decoder.Apply(tt.current, tt.frame)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantChanged, changed)
		})
	}
}

func TestAccumulator(t *testing.T) {
	t.Parallel()

	t.Run("starts empty", func(t *testing.T) {
		t.Parallel()
		var acc decoder.Accumulator
		assert.Equal(t, "", acc.Text())
		assert.Equal(t, relay.Snapshot{}, acc.Snapshot())
	})

	t.Run("token frames grow the text", func(t *testing.T) {
		t.Parallel()
		var acc decoder.Accumulator
		var snaps []string
		for _, line := range []string{`data: {"token":"Hel"}`, `data: {"token":"lo"}`} {
			if acc.Apply(decoder.Classify(line)) {
				snaps = append(snaps, acc.Snapshot().Text)
			}
		}
		assert.Equal(t, []string{"Hel", "Hello"}, snaps)
	})

	t.Run("text frame replaces prior text", func(t *testing.T) {
		t.Parallel()
		var acc decoder.Accumulator
		acc.Apply(relay.FramePlainText{Value: "partial"})
		assert.True(t, acc.Apply(decoder.Classify(`data: {"text":"Full answer"}`)))
		assert.Equal(t, "Full answer", acc.Text())
	})

	t.Run("control frame leaves text alone", func(t *testing.T) {
		t.Parallel()
		var acc decoder.Accumulator
		acc.Apply(relay.FramePlainText{Value: "kept"})
		assert.False(t, acc.Apply(decoder.Classify("message:FINISHED")))
		assert.Equal(t, "kept", acc.Text())
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		t.Parallel()
		var acc decoder.Accumulator
		acc.Apply(relay.FramePlainText{Value: "one"})
		snap := acc.Snapshot()
		acc.Apply(relay.FramePlainText{Value: " two"})
		assert.Equal(t, "one", snap.Text)
		assert.Equal(t, "one two", acc.Text())
	})
}
