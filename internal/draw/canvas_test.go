package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

// newUnitCanvas maps one logical unit to one pixel.
func newUnitCanvas(cols, rows int) *Canvas {
	return NewScaledCanvas(cols, rows, float64(cols), float64(rows*2))
}

func TestDrawLine(t *testing.T) {
	c := newUnitCanvas(10, 5)
	c.DrawLine(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 9, Y: 0})
	for x := 0; x < 10; x++ {
		assert.True(t, c.pixel(x, 0), "x=%d", x)
	}
	assert.False(t, c.pixel(0, 1))

	c.Clear()
	c.DrawLine(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 4, Y: 4})
	for i := 0; i < 5; i++ {
		assert.True(t, c.pixel(i, i))
	}
}

func TestDrawDashedLine(t *testing.T) {
	c := newUnitCanvas(12, 2)
	c.DrawDashedLine(r2.Vec{X: 0, Y: 0}, r2.Vec{X: 11, Y: 0}, 2, 2)

	want := []bool{true, true, false, false, true, true, false, false, true, true, false, false}
	for x, on := range want {
		assert.Equal(t, on, c.pixel(x, 0), "x=%d", x)
	}
}

func TestDrawPolygonFilled(t *testing.T) {
	c := newUnitCanvas(20, 10)
	square := []r2.Vec{{X: 2, Y: 2}, {X: 12, Y: 2}, {X: 12, Y: 12}, {X: 2, Y: 12}}

	c.DrawPolygon(square, false)
	assert.True(t, c.pixel(2, 7))
	assert.False(t, c.pixel(7, 7))

	c.DrawPolygon(square, true)
	assert.True(t, c.pixel(7, 7))
	assert.False(t, c.pixel(15, 7))
}

func TestCircles(t *testing.T) {
	c := newUnitCanvas(20, 10)
	c.FillCircle(r2.Vec{X: 10, Y: 10}, 3)
	assert.True(t, c.pixel(10, 10))
	assert.True(t, c.pixel(13, 10))
	assert.False(t, c.pixel(14, 10))

	c.EraseCircle(r2.Vec{X: 10, Y: 10}, 1)
	assert.False(t, c.pixel(10, 10))
	assert.True(t, c.pixel(13, 10))

	// Sub-pixel discs still mark their centre.
	c.Clear()
	c.FillCircle(r2.Vec{X: 4, Y: 4}, 0.1)
	assert.True(t, c.pixel(4, 4))
}

func TestRenderWritesOnlyChanges(t *testing.T) {
	c := newUnitCanvas(4, 2)
	c.SetOffset(2, 1)

	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	assert.Equal(t, 8, strings.Count(buf.String(), "H"), "first frame paints every cell")

	c.Set(r2.Vec{X: 1, Y: 0})
	c.Set(r2.Vec{X: 1, Y: 1})
	c.Set(r2.Vec{X: 3, Y: 3})

	buf.Reset()
	require.NoError(t, c.Render(&buf))
	assert.Equal(t, "\033[2;4H█\033[3;6H▄", buf.String())

	buf.Reset()
	require.NoError(t, c.Render(&buf))
	assert.Empty(t, buf.String())

	c.Clear()
	c.Set(r2.Vec{X: 1, Y: 0})
	buf.Reset()
	require.NoError(t, c.Render(&buf))
	assert.Equal(t, "\033[2;4H▀\033[3;6H ", buf.String())

	c.ForceRedraw()
	buf.Reset()
	require.NoError(t, c.Render(&buf))
	assert.Equal(t, 8, strings.Count(buf.String(), "H"))
}

func TestTerminalLogicalMapping(t *testing.T) {
	c := NewScaledCanvas(120, 40, 1200, 800)
	c.SetOffset(5, 2)

	p, ok := c.TerminalToLogical(5, 2)
	require.True(t, ok)
	assert.InDelta(t, 0, p.X, 1e-9)
	assert.InDelta(t, 10, p.Y, 1e-9)

	p, ok = c.TerminalToLogical(5+60, 2+20)
	require.True(t, ok)
	col, row := c.LogicalToTerminal(p.X, p.Y)
	assert.Equal(t, 61, col)
	assert.Equal(t, 21, row)

	_, ok = c.TerminalToLogical(4, 2)
	assert.False(t, ok)
	_, ok = c.TerminalToLogical(5, 42)
	assert.False(t, ok)
}

func TestFitTerminal(t *testing.T) {
	cases := []struct {
		name       string
		cols, rows int
		want       Fit
	}{
		{"wide", 200, 42, Fit{Cols: 120, Rows: 40, OffsetCol: 40, OffsetRow: 1}},
		{"tall", 120, 80, Fit{Cols: 120, Rows: 40, OffsetCol: 0, OffsetRow: 20}},
		{"exact", 120, 42, Fit{Cols: 120, Rows: 40, OffsetCol: 0, OffsetRow: 1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FitTerminal(tc.cols, tc.rows, 1200, 800))
		})
	}
}

func TestRenderBorder(t *testing.T) {
	c := newUnitCanvas(3, 1)

	var buf bytes.Buffer
	require.NoError(t, c.RenderBorder(&buf))
	assert.Empty(t, buf.String())

	c.SetOffset(1, 2)
	require.NoError(t, c.RenderBorder(&buf))
	out := buf.String()
	assert.Contains(t, out, "\033[2;1H┌───┐")
	assert.Contains(t, out, "\033[4;1H└───┘")
	assert.Contains(t, out, "\033[3;5H│")
}

func TestChunkWriter(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out)
	cw.WriteLine(1, "status")
	cw.WriteAt(3, 2, "x")
	assert.Empty(t, out.String())

	require.NoError(t, cw.Flush())
	assert.Equal(t, "\033[1;1Hstatus\033[K\033[2;3Hx", out.String())
}
