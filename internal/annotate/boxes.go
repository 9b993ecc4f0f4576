package annotate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"SketchBoard/internal/state"
)

// boxScale is the range box_2d coordinates are normalised to.
const boxScale = 1000

type rawBox struct {
	ID    any       `json:"id"`
	Label string    `json:"label"`
	Box   []float64 `json:"box_2d"`
}

// ParseBoxes reads the bounding boxes listed in the fenced json blocks of a
// response and converts them to surface coordinates. Each box is
// {"id", "label", "box_2d": [ymin, xmin, ymax, xmax]} with coordinates in
// 0..1000. Boxes without an id are numbered by position. Blocks that are
// not box lists are skipped.
func ParseBoxes(md string, width, height int) []state.Region {
	src := []byte(md)
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var regions []state.Region
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}
		if lang := strings.ToLower(string(block.Language(src))); lang != "" && lang != "json" {
			return ast.WalkSkipChildren, nil
		}
		var body bytes.Buffer
		lines := block.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			body.Write(seg.Value(src))
		}
		regions = append(regions, decodeBoxes(body.Bytes(), len(regions), width, height)...)
		return ast.WalkSkipChildren, nil
	})
	return regions
}

func decodeBoxes(body []byte, offset, width, height int) []state.Region {
	var boxes []rawBox
	if err := json.Unmarshal(body, &boxes); err != nil {
		var one rawBox
		if err := json.Unmarshal(body, &one); err != nil {
			slog.Debug("skipping code block without boxes", "component", "annotate", "err", err)
			return nil
		}
		boxes = []rawBox{one}
	}

	sx := float64(width) / boxScale
	sy := float64(height) / boxScale
	var out []state.Region
	for i, b := range boxes {
		if len(b.Box) != 4 {
			continue
		}
		ymin, xmin, ymax, xmax := b.Box[0], b.Box[1], b.Box[2], b.Box[3]
		if xmax < xmin {
			xmin, xmax = xmax, xmin
		}
		if ymax < ymin {
			ymin, ymax = ymax, ymin
		}
		out = append(out, state.Region{
			ID:    regionID(b.ID, offset+i),
			Label: b.Label,
			Area: state.Rect{
				X:      xmin * sx,
				Y:      ymin * sy,
				Width:  (xmax - xmin) * sx,
				Height: (ymax - ymin) * sy,
			},
		})
	}
	return out
}

func regionID(v any, index int) string {
	switch id := v.(type) {
	case string:
		if id != "" {
			return id
		}
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case nil:
	default:
		return fmt.Sprint(id)
	}
	return strconv.Itoa(index)
}
