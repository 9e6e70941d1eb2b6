package commands

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

type fakeControls struct {
	calls []string
	err   error
}

func (f *fakeControls) record(s string) error {
	f.calls = append(f.calls, s)
	return f.err
}

func (f *fakeControls) SetMode(name string) error   { return f.record("mode " + name) }
func (f *fakeControls) SelectModel(id int) error    { return f.record(fmt.Sprintf("model %d", id)) }
func (f *fakeControls) LoadModel(url string) error  { return f.record("load " + url) }
func (f *fakeControls) Reseed(seed uint64) error    { return f.record(fmt.Sprintf("seed %d", seed)) }
func (f *fakeControls) SetShowFPS(show bool)        { _ = f.record(fmt.Sprintf("fps %t", show)) }
func (f *fakeControls) SetShowStats(show bool)      { _ = f.record(fmt.Sprintf("stats %t", show)) }
func (f *fakeControls) SetGridVisible(visible bool) { _ = f.record(fmt.Sprintf("grid %t", visible)) }
func (f *fakeControls) SetFont(name string) error   { return f.record("font " + name) }

func TestParse(t *testing.T) {
	cases := []struct {
		line string
		args []string
		ok   bool
	}{
		{"cmd mode -name hero", []string{"mode", "-name", "hero"}, true},
		{"cmd   load  -url /assets/3D/a.glb ", []string{"load", "-url", "/assets/3D/a.glb"}, true},
		{"cmd ", nil, true},
		{`cmd load -url "/assets/3D/my chair.obj"`, []string{"load", "-url", "/assets/3D/my chair.obj"}, true},
		{`cmd load -url ""`, []string{"load", "-url", ""}, true},
		{"hello", nil, false},
		{"cmdload", nil, false},
		{"CMD mode", nil, false},
	}
	for _, c := range cases {
		args, ok := Parse(c.line)
		if ok != c.ok || strings.Join(args, "|") != strings.Join(c.args, "|") {
			t.Errorf("Parse(%q) = %v, %v; want %v, %v", c.line, args, ok, c.args, c.ok)
		}
	}
}

func TestShowcaseCommands(t *testing.T) {
	cases := []struct {
		line string
		call string
	}{
		{"cmd mode -name viewer", "mode viewer"},
		{"cmd model -id 3", "model 3"},
		{"cmd load -url /assets/3D/chair.obj", "load /assets/3D/chair.obj"},
		{"cmd seed -n 42", "seed 42"},
		{"cmd fps", "fps true"},
		{"cmd fps -show=false", "fps false"},
		{"cmd grid -visible=false", "grid false"},
		{"cmd stats", "stats true"},
		{"cmd font -name Inter", "font Inter"},
	}
	for _, c := range cases {
		t.Run(c.line, func(t *testing.T) {
			fc := &fakeControls{}
			r := NewRegistry()
			RegisterShowcase(r, fc, func(string) {})
			args, _ := Parse(c.line)
			if err := r.Execute(args); err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if len(fc.calls) != 1 || fc.calls[0] != c.call {
				t.Fatalf("calls = %v, want [%s]", fc.calls, c.call)
			}
		})
	}
}

func TestShowcaseCommandErrors(t *testing.T) {
	fc := &fakeControls{}
	r := NewRegistry()
	RegisterShowcase(r, fc, func(string) {})
	for _, line := range []string{"cmd", "cmd nope", "cmd mode", "cmd model", "cmd load", "cmd model -id x", "cmd seed -n -1", "cmd font"} {
		args, _ := Parse(line)
		if err := r.Execute(args); err == nil {
			t.Errorf("%q: expected error", line)
		}
	}
	if len(fc.calls) != 0 {
		t.Fatalf("controls called: %v", fc.calls)
	}

	fc.err = errors.New("boom")
	args, _ := Parse("cmd mode -name hero")
	if err := r.Execute(args); !errors.Is(err, fc.err) {
		t.Fatalf("err = %v, want controls error", err)
	}
}

func TestFlagsResetBetweenRuns(t *testing.T) {
	fc := &fakeControls{}
	r := NewRegistry()
	RegisterShowcase(r, fc, func(string) {})
	for _, line := range []string{"cmd model -id 2", "cmd model", "cmd grid -visible=false", "cmd grid"} {
		args, _ := Parse(line)
		_ = r.Execute(args)
	}
	want := "model 2|grid false|grid true"
	if got := strings.Join(fc.calls, "|"); got != want {
		t.Fatalf("calls = %s, want %s", got, want)
	}
}

func TestHelpListsCommands(t *testing.T) {
	r := NewRegistry()
	var got string
	RegisterShowcase(r, &fakeControls{}, func(s string) { got = s })
	if err := r.Execute([]string{"help"}); err != nil {
		t.Fatal(err)
	}
	want := "commands: [font fps grid help load mode model seed stats]"
	if got != want {
		t.Fatalf("help = %q, want %q", got, want)
	}
}

func TestHelpDescribesCommand(t *testing.T) {
	r := NewRegistry()
	var got string
	RegisterShowcase(r, &fakeControls{}, func(s string) { got = s })
	cases := []struct {
		cmd  string
		want string
	}{
		{"mode", "mode -name string (hero or viewer)"},
		{"fps", "fps -show (show the FPS counter)"},
		{"seed", "seed -n uint (random seed for the hero scene)"},
	}
	for _, c := range cases {
		t.Run(c.cmd, func(t *testing.T) {
			if err := r.Execute([]string{"help", "-cmd", c.cmd}); err != nil {
				t.Fatal(err)
			}
			if got != c.want {
				t.Fatalf("help = %q, want %q", got, c.want)
			}
		})
	}
	if err := r.Execute([]string{"help", "-cmd", "nope"}); !errors.Is(err, ErrUnknown) {
		t.Fatalf("err = %v, want ErrUnknown", err)
	}
}
