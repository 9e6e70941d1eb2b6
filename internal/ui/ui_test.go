package ui

import (
	"reflect"
	"strings"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestParseCSS(t *testing.T) {
	src := `/* panel */
.panel { background: #333; width: 10px }
#title{color:#fff}
label, .a .b { padding: 2px }
@media screen { .x { color: #000 } }
.y { color: #111; }`
	sheet, err := ParseCSS(src)
	if err != nil {
		t.Fatal(err)
	}
	var sels []string
	for _, r := range sheet.Rules {
		sels = append(sels, r.Selector)
	}
	if want := []string{".panel", "#title", "label", ".y"}; !reflect.DeepEqual(sels, want) {
		t.Fatalf("selectors = %v, want %v", sels, want)
	}
	if got := sheet.Rules[0].Props["background"]; got != "#333" {
		t.Fatalf("background = %q", got)
	}
	if got := sheet.Rules[0].Props["width"]; got != "10px" {
		t.Fatalf("width = %q", got)
	}
	if got := sheet.Rules[2].Props["padding"]; got != "2px" {
		t.Fatalf("padding = %q", got)
	}
}

func TestParseHexColor(t *testing.T) {
	cases := []struct {
		in   string
		want rl.Color
		ok   bool
	}{
		{"#fff", rl.NewColor(255, 255, 255, 255), true},
		{"#102030", rl.NewColor(0x10, 0x20, 0x30, 255), true},
		{" #10203080 ", rl.NewColor(0x10, 0x20, 0x30, 0x80), true},
		{"#12", rl.Black, false},
		{"#zzzzzz", rl.Black, false},
		{"red", rl.Black, false},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, ok := ParseHexColor(c.in)
			if got != c.want || ok != c.ok {
				t.Fatalf("ParseHexColor(%q) = %v, %v", c.in, got, ok)
			}
		})
	}
}

func TestResolveProps(t *testing.T) {
	s := ResolveProps(map[string]string{
		"border":    "1px solid #3c3c46",
		"left":      "50%",
		"top":       "-16px",
		"font-size": "14px",
		"padding":   "-3",
		"width":     "abc",
	})
	if !s.HasBorder || s.Border != rl.NewColor(0x3c, 0x3c, 0x46, 255) {
		t.Fatalf("border = %v %v", s.HasBorder, s.Border)
	}
	if s.LeftPct != 50 || s.Top != -16 || s.TopPct != -1 {
		t.Fatalf("position = %d%% %d (%d%%)", s.LeftPct, s.Top, s.TopPct)
	}
	if s.FontSize != 14 || s.Padding != 4 || s.Width != 0 {
		t.Fatalf("font %d padding %d width %d", s.FontSize, s.Padding, s.Width)
	}
	if !ResolveProps(map[string]string{"display": "none"}).Hidden {
		t.Fatal("display none not hidden")
	}
}

func TestPlace(t *testing.T) {
	style := DefaultComputedStyle()
	style.Width, style.Height = 100, 50
	cases := []struct {
		name       string
		left, top  int32
		lpct, tpct int32
		dy         float32
		want       rl.Rectangle
	}{
		{"pixels", 10, 20, -1, -1, 0, rl.NewRectangle(10, 20, 100, 50)},
		{"from right and bottom", -10, -20, -1, -1, 0, rl.NewRectangle(690, 530, 100, 50)},
		{"centred", 0, 0, 50, 50, 0, rl.NewRectangle(350, 275, 100, 50)},
		{"offset", 10, 20, -1, -1, 56, rl.NewRectangle(10, 76, 100, 50)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := style
			s.Left, s.Top, s.LeftPct, s.TopPct = c.left, c.top, c.lpct, c.tpct
			n := &Node{DY: c.dy}
			if got := Place(n, s, 800, 600); got != c.want {
				t.Fatalf("Place = %+v, want %+v", got, c.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	width := func(s string) float32 { return float32(len(s)) }
	cases := []struct {
		text  string
		width float32
		want  []string
	}{
		{"a bb ccc dddd", 6, []string{"a bb", "ccc", "dddd"}},
		{"extraordinary word", 5, []string{"extraordinary", "word"}},
		{"line one\n\nline two", 20, []string{"line one", "", "line two"}},
		{"no limit at all", 0, []string{"no limit at all"}},
	}
	for _, c := range cases {
		t.Run(c.text, func(t *testing.T) {
			if got := Wrap(c.text, c.width, width); !reflect.DeepEqual(got, c.want) {
				t.Fatalf("Wrap = %q, want %q", got, c.want)
			}
		})
	}
}

func TestEngineResolveLaterRuleWins(t *testing.T) {
	e := New()
	sheet, err := ParseCSS(".details-title { color: #ff0000 }")
	if err != nil {
		t.Fatal(err)
	}
	e.SetStylesheet(Merge(e.Stylesheet(), sheet))
	s := e.Resolve(NewNode("label", "details-title", "", ""))
	if s.Color != rl.NewColor(255, 0, 0, 255) {
		t.Fatalf("color = %v", s.Color)
	}
	if s.FontSize != 24 {
		t.Fatalf("font-size = %d, want built-in 24", s.FontSize)
	}
}

func TestDetailsAppendNodes(t *testing.T) {
	d := NewDetails()
	if got := d.AppendNodes(nil, false, Info{Title: "x"}); got != nil {
		t.Fatalf("hidden panel appended %d nodes", len(got))
	}
	info := Info{
		Title:     "Armchair",
		URL:       "/assets/3D/chair.glb",
		Meshes:    2,
		Triangles: 1200,
		Loading:   true,
		Others:    []Other{{ID: 2, Title: "Lamp"}, {ID: 3, Title: "Desk"}},
	}
	nodes := d.AppendNodes(nil, true, info)
	if len(nodes) != 5+1+2*2 {
		t.Fatalf("nodes = %d", len(nodes))
	}
	var texts []string
	for _, n := range nodes {
		texts = append(texts, n.Text)
	}
	all := strings.Join(texts, "|")
	for _, want := range []string{"Armchair", "2 meshes, 1200 triangles", "Loading...", "Other models", "3  Desk"} {
		if !strings.Contains(all, want) {
			t.Fatalf("missing %q in %q", want, all)
		}
	}
	if nodes[len(nodes)-1].DY != otherRowHeight {
		t.Fatalf("second row offset = %v", nodes[len(nodes)-1].DY)
	}

	info.Loading, info.Err = false, "unsupported format"
	nodes = d.AppendNodes(nil, true, info)
	if nodes[4].Text != "Failed: unsupported format" {
		t.Fatalf("status = %q", nodes[4].Text)
	}
}
