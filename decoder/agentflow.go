package decoder

import (
	"encoding/json"
	"strings"

	"github.com/fwojciec/relay"
)

const (
	// agentFlowEvent is the event name of an agent execution trace.
	agentFlowEvent = "agentFlowExecutedData"
	// assistantMarker precedes the answer in a rendered transcript.
	assistantMarker = "Assistant:"
)

// parseAgentFlow recognizes {"event":"agentFlowExecutedData","data":[...]}.
// Nodes that are not objects are skipped rather than failing the trace.
func parseAgentFlow(obj map[string]json.RawMessage) (relay.AgentFlowTrace, bool) {
	if event, ok := stringValue(obj["event"]); !ok || event != agentFlowEvent {
		return relay.AgentFlowTrace{}, false
	}
	rawNodes, ok := array(obj["data"])
	if !ok {
		return relay.AgentFlowTrace{}, false
	}

	trace := relay.AgentFlowTrace{Nodes: make([]relay.AgentFlowNode, 0, len(rawNodes))}
	for _, raw := range rawNodes {
		node := object(raw)
		if node == nil {
			continue
		}
		trace.Nodes = append(trace.Nodes, parseAgentFlowNode(node))
	}
	return trace, true
}

// parseAgentFlowNode reads a node shaped like
//
//	{"nodeId":..., "nodeLabel":..., "data":{"input":{"messages":[...]}, "output":{"text":...}}}
func parseAgentFlowNode(node map[string]json.RawMessage) relay.AgentFlowNode {
	var n relay.AgentFlowNode
	n.ID, _ = stringValue(node["nodeId"])
	n.Label, _ = stringValue(node["nodeLabel"])

	data := object(node["data"])
	if data == nil {
		return n
	}
	if input := object(data["input"]); input != nil {
		msgs, _ := array(input["messages"])
		for _, raw := range msgs {
			msg := object(raw)
			if msg == nil {
				continue
			}
			content, ok := stringValue(msg["content"])
			if !ok {
				continue
			}
			role, _ := stringValue(msg["role"])
			n.Messages = append(n.Messages, relay.AgentFlowMessage{Role: role, Content: content})
		}
	}
	if output := object(data["output"]); output != nil {
		n.OutputText, _ = stringValue(output["text"])
	}
	return n
}

// ExtractAnswer locates the answer embedded in an agent execution trace.
//
// The first pass walks nodes in order and, within each node, its input
// messages in order, taking the trimmed text after the last "Assistant:"
// marker. The first non-empty hit wins. Only when no message yields an
// answer does a second pass return the first non-empty node output text.
// It reports false when neither pass finds anything.
func ExtractAnswer(trace relay.AgentFlowTrace) (string, bool) {
	for _, node := range trace.Nodes {
		for _, msg := range node.Messages {
			if answer, ok := afterLastAssistant(msg.Content); ok {
				return answer, true
			}
		}
	}
	for _, node := range trace.Nodes {
		if node.OutputText != "" {
			return node.OutputText, true
		}
	}
	return "", false
}

func afterLastAssistant(content string) (string, bool) {
	i := strings.LastIndex(content, assistantMarker)
	if i < 0 {
		return "", false
	}
	answer := strings.TrimSpace(content[i+len(assistantMarker):])
	return answer, answer != ""
}
