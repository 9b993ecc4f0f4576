package render

import (
	"strconv"
	"strings"
)

// Verb identifies a path command.
type Verb uint8

const (
	MoveTo Verb = iota
	QuadTo
	Close
)

// Cmd is one path command. QuadTo uses Ctrl and To; MoveTo uses To.
type Cmd struct {
	Verb Verb
	Ctrl Vec
	To   Vec
}

// Path is a drawable, closed description of an outline.
type Path struct {
	Cmds []Cmd
}

// Compile turns an outline into a single closed subpath: it starts at the
// first boundary point and runs a quadratic segment through each point
// (the point is the control, the midpoint to the next one the end), wrapping
// round to the start. An empty outline compiles to an empty path.
func Compile(outline []Vec) Path {
	if len(outline) == 0 {
		return Path{}
	}
	cmds := make([]Cmd, 0, len(outline)+2)
	cmds = append(cmds, Cmd{Verb: MoveTo, To: outline[0]})
	for i, p := range outline {
		next := outline[(i+1)%len(outline)]
		cmds = append(cmds, Cmd{Verb: QuadTo, Ctrl: p, To: p.Mid(next)})
	}
	cmds = append(cmds, Cmd{Verb: Close, To: outline[0]})
	return Path{Cmds: cmds}
}

// Empty reports whether the path draws nothing.
func (p Path) Empty() bool {
	return len(p.Cmds) == 0
}

// String renders the path as SVG path data.
func (p Path) String() string {
	var sb strings.Builder
	for i, c := range p.Cmds {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch c.Verb {
		case MoveTo:
			sb.WriteString("M ")
			writeVec(&sb, c.To)
		case QuadTo:
			sb.WriteString("Q ")
			writeVec(&sb, c.Ctrl)
			sb.WriteByte(' ')
			writeVec(&sb, c.To)
		case Close:
			sb.WriteByte('Z')
		}
	}
	return sb.String()
}

func writeVec(sb *strings.Builder, v Vec) {
	sb.WriteString(strconv.FormatFloat(v.X, 'f', 2, 64))
	sb.WriteByte(' ')
	sb.WriteString(strconv.FormatFloat(v.Y, 'f', 2, 64))
}
