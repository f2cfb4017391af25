package loop

import (
	"fmt"
	"strings"

	"github.com/tomz197/shapedrag/internal/scene"
)

const helpLine = "drag: left mouse   r: reset   h: help   q: quit"

var helpText = []string{
	"Drag a shape by its centre.",
	"Overlapping shapes are filled.",
	"With exactly one overlap, the dashed ghost",
	"shows where releasing will push the shape.",
	"Pairs that only touch each other are pushed",
	"apart on release; crowds are left alone.",
}

// drawHUD writes the status line, the key help line and, when toggled, the
// help box.
func (s *Session) drawHUD(snap scene.Snapshot) {
	if s.termHeight < 1 {
		return
	}
	s.out.WriteLine(1, clip(s.statusLine(snap), s.termWidth))
	if s.termHeight > 1 {
		s.out.WriteLine(s.termHeight, clip(helpLine, s.termWidth))
	}

	if !s.help {
		return
	}
	width := 0
	for _, l := range helpText {
		width = max(width, len(l))
	}
	col := max(1, (s.termWidth-width)/2)
	row := max(2, (s.termHeight-len(helpText))/2)
	for i, l := range helpText {
		s.out.WriteAt(col, row+i, clip(l+strings.Repeat(" ", width-len(l)), s.termWidth))
	}
}

func (s *Session) statusLine(snap scene.Snapshot) string {
	var b strings.Builder

	if s.hasPointer {
		fmt.Fprintf(&b, "x:%4.0f y:%4.0f", s.pointer.X, s.pointer.Y)
	} else {
		b.WriteString("x:   - y:   -")
	}

	names := make(map[scene.ID]string, len(snap.Shapes))
	active := "-"
	for _, v := range snap.Shapes {
		names[v.ID] = v.Name
		if v.Active {
			active = v.Name
		}
	}
	fmt.Fprintf(&b, "  active: %s", active)

	b.WriteString("  colliding: ")
	if len(snap.Pairs) == 0 {
		b.WriteString("none")
	}
	for i, p := range snap.Pairs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(names[p.A] + "/" + names[p.B])
	}
	return b.String()
}

// clip cuts s to at most n runes.
func clip(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
