// Package annotate connects the model's markdown answer to the overlay:
// it finds #bb-<id> links and the boxes they refer to, and tracks which
// link the pointer is over.
package annotate

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// BoxPrefix starts every link target that names an overlay region.
const BoxPrefix = "#bb-"

var bareBoxTarget = regexp.MustCompile(`\]\(\s*(bb-[^)\s]+)\s*\)`)

// ReplaceLinkFormat rewrites link targets written as (bb-<id>) into the
// fragment form (#bb-<id>) the response view understands.
func ReplaceLinkFormat(md string) string {
	return bareBoxTarget.ReplaceAllString(md, "](#$1)")
}

var boxLink = regexp.MustCompile(`\[([^\]]*)\]\(\s*#?bb-[^)\s]+\s*\)`)

// StripBoxLinks renders region links as bold text so a markdown viewer does
// not treat them as navigable links.
func StripBoxLinks(md string) string {
	return boxLink.ReplaceAllString(md, "**$1**")
}

// BoxID extracts the region id from a link target.
func BoxID(href string) (string, bool) {
	id, ok := strings.CutPrefix(href, BoxPrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Link is a markdown link pointing at an overlay region.
type Link struct {
	Label  string
	Href   string
	Region string
}

// BoxLinks lists the region links in md, in document order.
func BoxLinks(md string) []Link {
	src := []byte(ReplaceLinkFormat(md))
	doc := goldmark.New().Parser().Parse(text.NewReader(src))

	var links []Link
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		link, ok := n.(*ast.Link)
		if !ok {
			return ast.WalkContinue, nil
		}
		href := string(link.Destination)
		if id, ok := BoxID(href); ok {
			links = append(links, Link{Label: plainText(link, src), Href: href, Region: id})
		}
		return ast.WalkSkipChildren, nil
	})
	return links
}

func plainText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := c.(*ast.Text); ok && entering {
			sb.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}
