package relay_test

import (
	"testing"

	"github.com/fwojciec/relay"
	"github.com/stretchr/testify/assert"
)

func TestFrameTypeSwitch_Exhaustive(t *testing.T) {
	t.Parallel()
	frames := []relay.Frame{
		relay.FrameIgnorable{},
		relay.FrameSystemStatus{},
		relay.FrameAgentFlow{Trace: relay.AgentFlowTrace{Nodes: []relay.AgentFlowNode{{ID: "llm_0"}}}},
		relay.FrameStringToken{Value: "a"},
		relay.FrameFieldToken{Value: "b"},
		relay.FrameFieldText{Value: "c"},
		relay.FramePlainText{Value: "d"},
	}
	assert.Len(t, frames, 7, "update slice and switch when adding new Frame types")
	for _, f := range frames {
		switch f.(type) {
		case relay.FrameIgnorable:
		case relay.FrameSystemStatus:
		case relay.FrameAgentFlow:
		case relay.FrameStringToken:
		case relay.FrameFieldToken:
		case relay.FrameFieldText:
		case relay.FramePlainText:
		default:
			t.Fatalf("unexpected frame type: %T", f)
		}
	}
}

func TestAgentFlowNode_Fields(t *testing.T) {
	t.Parallel()
	n := relay.AgentFlowNode{
		ID:         "llm_0",
		Label:      "LLM",
		Messages:   []relay.AgentFlowMessage{{Role: "user", Content: "Human: hi"}},
		OutputText: "hello",
	}
	assert.Equal(t, "llm_0", n.ID)
	assert.Equal(t, "LLM", n.Label)
	assert.Len(t, n.Messages, 1)
	assert.Equal(t, "hello", n.OutputText)
}
