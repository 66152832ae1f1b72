package solver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// Algorithm identifiers accepted on the wire.
const (
	AlgoDijkstra      = "dijkstra"
	AlgoAStar         = "a_star"
	AlgoBellmanFord   = "bellman_ford"
	AlgoBidirectional = "bidirectional"
)

// Step type tags.
const (
	StepInit          = "init"
	StepVisit         = "visit"
	StepCheckEdge     = "check_edge"
	StepUpdateDist    = "update_dist"
	StepIteration     = "iteration"
	StepMeet          = "meet"
	StepFinal         = "final"
	StepNegativeCycle = "negative_cycle"
)

// Directions attached to visit steps by the bidirectional search.
const (
	DirForward  = "fwd"
	DirBackward = "bwd"
)

// WireID is a node identifier on the wire. Canvas clients send numbers,
// this server-side code sends strings; both decode to the string form.
type WireID string

func (w WireID) String() string { return string(w) }

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (w *WireID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*w = ""
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		var v string
		if err := sonic.Unmarshal(data, &v); err != nil {
			return err
		}
		*w = WireID(v)
		return nil
	}
	var n float64
	if err := sonic.Unmarshal(data, &n); err != nil {
		return err
	}
	*w = WireID(strconv.FormatFloat(n, 'f', -1, 64))
	return nil
}

// NodePayload is one node of the request graph; the payload doubles as the
// node's position for the A* heuristic.
type NodePayload struct {
	ID WireID  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// EdgePayload is one edge of the request graph. Label carries the weight as
// the string form of a signed integer.
type EdgePayload struct {
	From  WireID `json:"from"`
	To    WireID `json:"to"`
	Label string `json:"label"`
}

// GraphPayload is the request graph. Unless Directed is set, adjacency-based
// algorithms treat every edge as traversable both ways; Bellman-Ford always
// respects direction.
type GraphPayload struct {
	Nodes    []NodePayload `json:"nodes"`
	Edges    []EdgePayload `json:"edges"`
	Directed bool          `json:"directed,omitempty"`
}

// Request is the solve request body.
type Request struct {
	Graph     *GraphPayload `json:"graph"`
	StartNode WireID        `json:"startNode"`
	EndNode   WireID        `json:"endNode"`
	Algorithm string        `json:"algorithm"`
}

// Sentinels used for non-numeric distance values on the wire.
const (
	SentinelInf = "∞"
	SentinelNA  = "N/A"
)

// Value is a wire value that is either a number or a textual sentinel
// ("∞" while a run is in progress, "N/A" for unreachable results).
type Value struct {
	Num   float64
	Text  string
	IsNum bool
}

// Number wraps a numeric value.
func Number(f float64) Value { return Value{Num: f, IsNum: true} }

// Sentinel wraps a textual sentinel.
func Sentinel(s string) Value { return Value{Text: s} }

// String renders the value the way the table displays it.
func (v Value) String() string {
	if v.IsNum {
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
	return v.Text
}

// MarshalJSON emits a bare number or a quoted sentinel.
func (v Value) MarshalJSON() ([]byte, error) {
	if v.IsNum {
		return []byte(strconv.FormatFloat(v.Num, 'f', -1, 64)), nil
	}
	return sonic.Marshal(v.Text)
}

// UnmarshalJSON accepts numbers, strings, and (for A* init payloads) arrays,
// which collapse to their first element.
func (v *Value) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	switch {
	case len(s) == 0:
		return fmt.Errorf("empty wire value")
	case s[0] == '"':
		var text string
		if err := sonic.Unmarshal(data, &text); err != nil {
			return err
		}
		*v = Sentinel(text)
		return nil
	case s[0] == '[':
		var parts []Value
		if err := sonic.Unmarshal(data, &parts); err != nil {
			return err
		}
		if len(parts) == 0 {
			*v = Sentinel(SentinelNA)
			return nil
		}
		*v = parts[0]
		return nil
	default:
		var n float64
		if err := sonic.Unmarshal(data, &n); err != nil {
			return err
		}
		*v = Number(n)
		return nil
	}
}

// Step is one unit of reported solver progress, tagged by Type. Only the
// fields relevant to the tag are populated; consumers must not reorder steps.
type Step struct {
	Type         string           `json:"type"`
	Message      string           `json:"message,omitempty"`
	Node         WireID           `json:"node,omitempty"`
	From         WireID           `json:"from,omitempty"`
	To           WireID           `json:"to,omitempty"`
	Direction    string           `json:"direction,omitempty"`
	Number       int              `json:"number,omitempty"`
	StartNode    WireID           `json:"start_node,omitempty"`
	Cost         *Value           `json:"cost,omitempty"`
	NewDist      *float64         `json:"new_dist,omitempty"`
	GScore       *float64         `json:"g_score,omitempty"`
	HScore       *float64         `json:"h_score,omitempty"`
	FScore       *float64         `json:"f_score,omitempty"`
	AllDistances map[string]Value `json:"all_distances,omitempty"`
	Path         []WireID         `json:"path,omitempty"`
	NodesVisited int              `json:"nodes_visited,omitempty"`
}

// Marshal encodes v with the wire codec.
func Marshal(v any) ([]byte, error) { return sonic.Marshal(v) }

// Unmarshal decodes data with the wire codec.
func Unmarshal(data []byte, v any) error { return sonic.Unmarshal(data, v) }

func float(f float64) *float64 { return &f }

func value(v Value) *Value { return &v }
