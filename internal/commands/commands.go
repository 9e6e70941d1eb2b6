// Package commands runs console lines of the form "cmd <name> [-flag value ...]".
// Each subcommand owns a flag.FlagSet; flags are reset to their defaults before every run.
package commands

import (
	"errors"
	"flag"
	"fmt"
	"sort"
	"strings"
)

const prefix = "cmd"

// ErrUnknown is returned by Execute for unregistered subcommands.
var ErrUnknown = errors.New("unknown command")

// Command is a subcommand with its own flags and a Run function that reads them.
type Command struct {
	Name    string
	FlagSet *flag.FlagSet
	Run     func() error
}

// Registry holds subcommands by name.
type Registry struct {
	cmds map[string]*Command
}

// NewRegistry returns an empty command registry.
func NewRegistry() *Registry {
	return &Registry{cmds: make(map[string]*Command)}
}

// Register adds or replaces the subcommand name. run is called after fs parses the arguments.
func (r *Registry) Register(name string, fs *flag.FlagSet, run func() error) {
	r.cmds[name] = &Command{Name: name, FlagSet: fs, Run: run}
}

// Names returns the registered subcommand names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cmds))
	for name := range r.cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Usage describes name's flags on one line, e.g. "mode -name string (hero or viewer)".
func (r *Registry) Usage(name string) (string, error) {
	cmd, ok := r.cmds[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	var b strings.Builder
	b.WriteString(name)
	cmd.FlagSet.VisitAll(func(f *flag.Flag) {
		typ, usage := flag.UnquoteUsage(f)
		fmt.Fprintf(&b, " -%s", f.Name)
		if typ != "" {
			fmt.Fprintf(&b, " %s", typ)
		}
		if usage != "" {
			fmt.Fprintf(&b, " (%s)", usage)
		}
	})
	return b.String(), nil
}

// Parse reports whether line is a command and splits what follows "cmd" into arguments.
// Double quotes group words, so paths with spaces survive: cmd load -url "/a b.glb".
func Parse(line string) (args []string, ok bool) {
	line = strings.TrimSpace(line)
	if line != prefix && !strings.HasPrefix(line, prefix+" ") {
		return nil, false
	}
	return split(line[len(prefix):]), true
}

func split(s string) []string {
	var (
		args   []string
		cur    strings.Builder
		quoted bool
		inArg  bool
	)
	for _, c := range s {
		switch {
		case c == '"':
			quoted = !quoted
			inArg = true
		case c == ' ' && !quoted:
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(c)
			inArg = true
		}
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args
}

// Execute runs the subcommand in args[0] with the remaining arguments as flags.
func (r *Registry) Execute(args []string) error {
	if len(args) == 0 {
		return errors.New("missing subcommand")
	}
	name := args[0]
	cmd, ok := r.cmds[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	cmd.FlagSet.VisitAll(func(f *flag.Flag) { _ = f.Value.Set(f.DefValue) })
	if err := cmd.FlagSet.Parse(args[1:]); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return cmd.Run()
}
