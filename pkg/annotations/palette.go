package annotations

import (
	"github.com/cdrlens/cdrlens/pkg/graph"
	"github.com/cdrlens/cdrlens/pkg/records"
)

// Default display colors. Custom annotations always win; these are the
// fallbacks applied by role and usage type.
const (
	ColorDefaultNode = "#9aa0a6"
	ColorAParty      = "#d93025"
	ColorHub         = "#f9ab00"

	ColorDefaultEdge = "#5f6368"
	ColorVoiceCall   = "#1a73e8"
	ColorTextMessage = "#188038"
)

var usageTypeColors = map[string]string{
	records.UsageOutgoingCall: ColorVoiceCall,
	records.UsageIncomingCall: ColorVoiceCall,
	records.UsageOutgoingSMS:  ColorTextMessage,
	records.UsageIncomingSMS:  ColorTextMessage,
}

// DisplayNodeColor resolves the color to render a node with. Precedence:
// custom annotation, then A-Party, then hub, then the neutral default.
func DisplayNodeColor(s *Store, n *graph.Node) string {
	if s != nil {
		if color, ok := s.NodeColor(n.ID); ok {
			return color
		}
	}
	if n.IsAParty {
		return ColorAParty
	}
	if n.IsHub {
		return ColorHub
	}
	return ColorDefaultNode
}

// DisplayEdgeColor resolves the color to render an edge with. Precedence:
// custom annotation, then the usage-type palette, then the neutral default.
func DisplayEdgeColor(s *Store, e *graph.Edge) string {
	if s != nil {
		if color, ok := s.EdgeColor(e.ID); ok {
			return color
		}
	}
	if color, ok := usageTypeColors[e.UsageType]; ok {
		return color
	}
	return ColorDefaultEdge
}

// DisplayLabel resolves the text to render for a node: the custom label if
// one is set, otherwise the node id itself.
func DisplayLabel(s *Store, n *graph.Node) string {
	if s != nil {
		if label, ok := s.Label(n.ID); ok {
			return label
		}
	}
	return n.ID
}
