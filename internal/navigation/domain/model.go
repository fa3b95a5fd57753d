package domain

// NodeType is the semantic kind of a facility node
type NodeType string

const (
	NodeRoom        NodeType = "room"
	NodeCorridor    NodeType = "corridor"
	NodeElevator    NodeType = "elevator"
	NodeStairs      NodeType = "stairs"
	NodeRestroom    NodeType = "restroom"
	NodeExit        NodeType = "exit"
	NodeEmergency   NodeType = "emergency"
	NodeWaitingArea NodeType = "waiting_area"
	NodeClinic      NodeType = "clinic"
	NodePharmacy    NodeType = "pharmacy"
)

// EdgeType is how an edge is traversed
type EdgeType string

const (
	EdgeWalk     EdgeType = "walk"
	EdgeElevator EdgeType = "elevator"
	EdgeStairs   EdgeType = "stairs"
)

// Node is a point in facility space. Nodes are immutable once loaded.
type Node struct {
	ID           string   `json:"id" yaml:"id"`
	X            float64  `json:"x" yaml:"x"`
	Y            float64  `json:"y" yaml:"y"`
	FloorID      int      `json:"floorId" yaml:"floor"`
	Type         NodeType `json:"type" yaml:"type"`
	Label        string   `json:"label,omitempty" yaml:"label,omitempty"`
	IsAccessible *bool    `json:"isAccessible,omitempty" yaml:"accessible,omitempty"`
}

// Edge connects two nodes. The graph treats every edge as bidirectional.
type Edge struct {
	ID     string   `json:"id" yaml:"id"`
	From   string   `json:"from" yaml:"from"`
	To     string   `json:"to" yaml:"to"`
	Weight float64  `json:"weight" yaml:"weight"`
	Type   EdgeType `json:"type,omitempty" yaml:"type,omitempty"`
}

// PathStep is one waypoint of a computed route
type PathStep struct {
	NodeID      string  `json:"nodeId"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	FloorID     int     `json:"floorId"`
	Instruction string  `json:"instruction,omitempty"`
}

// NavigationPath is an ordered route with its accumulated cost.
// EstimatedTime is derived from the cost, not measured.
type NavigationPath struct {
	Steps         []PathStep `json:"steps"`
	TotalDistance float64    `json:"totalDistance"`
	EstimatedTime float64    `json:"estimatedTime"`
}

// NodeIDs returns the node identifiers of the path in order
func (p *NavigationPath) NodeIDs() []string {
	if p == nil {
		return nil
	}
	ids := make([]string, 0, len(p.Steps))
	for _, s := range p.Steps {
		ids = append(ids, s.NodeID)
	}
	return ids
}
