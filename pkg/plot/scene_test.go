package plot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScene_SVGStructure(t *testing.T) {
	s := NewScene(100, 50)
	s.Rect(1, 2, 3, 4, map[string]string{"fill": "#fff"})

	svg := s.SVG()
	require.Contains(t, svg, `viewBox="0 0 100 50"`)
	require.Contains(t, svg, `<rect x="1" y="2" width="3" height="4" fill="#fff"/>`)
	require.NotContains(t, svg, "<defs>")
}

func TestScene_AttributesAreDeterministic(t *testing.T) {
	build := func() string {
		s := NewScene(10, 10)
		s.Circle(5, 5, 2, map[string]string{
			"stroke": "#000", "fill": "#fff", "opacity": "0.5",
		})
		return s.SVG()
	}

	// Attribute order is sorted, so repeated renders are byte-identical.
	require.Equal(t, build(), build())
	require.Contains(t, build(), `fill="#fff" opacity="0.5" stroke="#000"`)
}

func TestScene_ClipRectGoesToDefs(t *testing.T) {
	s := NewScene(10, 10)
	ref := s.ClipRect("mask", 0, 0, 5, 5)

	require.Equal(t, "url(#mask)", ref)
	require.Contains(t, s.SVG(), `<defs><clipPath id="mask">`)
}

func TestScene_TextIsEscaped(t *testing.T) {
	s := NewScene(10, 10)
	s.Text(0, 0, `Oil & Gas <"E&P">`, nil)

	svg := s.SVG()
	require.Contains(t, svg, "Oil &amp; Gas &lt;&quot;E&amp;P&quot;&gt;")
}

func TestFmtNum_RoundsDrift(t *testing.T) {
	require.Equal(t, "0.1", fmtNum(0.1+1e-12))
	require.Equal(t, "33.33", fmtNum(100.0/3))
	require.Equal(t, "1", fmtNum(1.0000001))
}

func TestPathBuilder(t *testing.T) {
	var pb PathBuilder
	pb.MoveTo(0, 0)
	pb.LineTo(10, 0)
	pb.Arc(5, 5, 0, true, false, 0, 10)
	pb.Close()

	require.Equal(t, "M0,0L10,0A5,5 0 1 0 0,10Z", pb.String())
}
