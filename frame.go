package relay

// Frame is a sealed interface over the classifications of one upstream line.
// Every line maps to exactly one variant; FrameIgnorable is the fallback.
// The unexported marker method prevents external implementations.
type Frame interface {
	frame()
}

// FrameIgnorable is a blank line, a control line or an unrecognized payload.
type FrameIgnorable struct{}

func (FrameIgnorable) frame() {}

// FrameSystemStatus is a JSON object carrying upstream bookkeeping such as
// status, previousNodeIds, chatId or chatMessageId.
type FrameSystemStatus struct{}

func (FrameSystemStatus) frame() {}

// FrameAgentFlow is an agent execution trace that may embed the answer.
type FrameAgentFlow struct {
	Trace AgentFlowTrace
}

func (FrameAgentFlow) frame() {}

// FrameStringToken is a bare JSON string; its value is appended.
type FrameStringToken struct {
	Value string
}

func (FrameStringToken) frame() {}

// FrameFieldToken is a JSON object with a token field; its value is appended.
type FrameFieldToken struct {
	Value string
}

func (FrameFieldToken) frame() {}

// FrameFieldText is a JSON object with a text field. It carries the full
// answer so far and replaces the accumulated text.
type FrameFieldText struct {
	Value string
}

func (FrameFieldText) frame() {}

// FramePlainText is a non-JSON line accepted as literal answer text.
type FramePlainText struct {
	Value string
}

func (FramePlainText) frame() {}

// AgentFlowTrace is the parsed agentFlowExecutedData payload: the executed
// nodes in the order the upstream listed them.
type AgentFlowTrace struct {
	Nodes []AgentFlowNode
}

// AgentFlowNode is one executed node of an agent flow.
type AgentFlowNode struct {
	ID    string
	Label string
	// Messages holds the node's input messages whose content was a string.
	Messages []AgentFlowMessage
	// OutputText is the node's output text, empty when absent.
	OutputText string
}

// AgentFlowMessage is one role-tagged input message of a node. Content is
// usually a rendered transcript ("Human: ...\nAssistant: ...").
type AgentFlowMessage struct {
	Role    string
	Content string
}

// Interface compliance checks.
var (
	_ Frame = FrameIgnorable{}
	_ Frame = FrameSystemStatus{}
	_ Frame = FrameAgentFlow{}
	_ Frame = FrameStringToken{}
	_ Frame = FrameFieldToken{}
	_ Frame = FrameFieldText{}
	_ Frame = FramePlainText{}
)
