package state

// Point is one pointer sample in surface-local coordinates. Pressure is
// synthetic; strokes drawn locally always carry 1.
type Point struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Pressure float64 `json:"p"`
}

// NewPoint returns a full-pressure sample.
func NewPoint(x, y float64) Point {
	return Point{X: x, Y: y, Pressure: 1}
}

// Stroke is one continuous pointer drag plus the colour it was drawn with.
// Color never changes after the stroke is created.
type Stroke struct {
	ID     string  `json:"id"`
	Owner  string  `json:"owner"`
	Points []Point `json:"points"`
	Color  string  `json:"color"`
}

func (s Stroke) clone() Stroke {
	s.Points = append([]Point(nil), s.Points...)
	return s
}

type OpType string

const (
	OpBeginStroke OpType = "begin_stroke"
	OpAppendPoint OpType = "append_point"
	OpClear       OpType = "clear"
)

// Op is a single canvas mutation as exchanged with shared-session peers.
type Op struct {
	Type     OpType  `json:"type"`
	Stroke   *Stroke `json:"stroke,omitempty"`
	StrokeID string  `json:"stroke_id,omitempty"`
	Point    *Point  `json:"point,omitempty"`
	OwnerID  string  `json:"owner_id,omitempty"` // clear target, empty means Site
	Lamport  uint64  `json:"lamport"`
	Site     string  `json:"site"`
}
