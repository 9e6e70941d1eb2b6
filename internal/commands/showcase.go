package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

// Controls is the application surface the console drives.
type Controls interface {
	SetMode(name string) error
	SelectModel(id int) error
	LoadModel(url string) error
	Reseed(seed uint64) error
	SetShowFPS(show bool)
	SetShowStats(show bool)
	SetGridVisible(visible bool)
	SetFont(name string) error
}

// errMissingFlag is returned when a required flag was not given.
var errMissingFlag = errors.New("missing required flag")

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

// RegisterShowcase installs the console commands:
//
//	cmd mode -name hero|viewer
//	cmd model -id N
//	cmd load -url U
//	cmd seed -n N
//	cmd fps -show[=false]
//	cmd stats -show[=false]
//	cmd grid -visible[=false]
//	cmd font -name Inter
//	cmd help [-cmd name]
func RegisterShowcase(r *Registry, c Controls, out func(string)) {
	{
		fs := newFlagSet("mode")
		name := fs.String("name", "", "hero or viewer")
		r.Register("mode", fs, func() error {
			if *name == "" {
				return fmt.Errorf("mode: %w -name", errMissingFlag)
			}
			return c.SetMode(*name)
		})
	}
	{
		fs := newFlagSet("model")
		id := fs.Int("id", 0, "catalog item id")
		r.Register("model", fs, func() error {
			if *id == 0 {
				return fmt.Errorf("model: %w -id", errMissingFlag)
			}
			return c.SelectModel(*id)
		})
	}
	{
		fs := newFlagSet("load")
		url := fs.String("url", "", "model URL or /assets path")
		r.Register("load", fs, func() error {
			if *url == "" {
				return fmt.Errorf("load: %w -url", errMissingFlag)
			}
			return c.LoadModel(*url)
		})
	}
	{
		fs := newFlagSet("seed")
		n := fs.Uint64("n", 0, "random seed for the hero scene")
		r.Register("seed", fs, func() error {
			return c.Reseed(*n)
		})
	}
	{
		fs := newFlagSet("fps")
		show := fs.Bool("show", true, "show the FPS counter")
		r.Register("fps", fs, func() error {
			c.SetShowFPS(*show)
			return nil
		})
	}
	{
		fs := newFlagSet("stats")
		show := fs.Bool("show", true, "show scene stats")
		r.Register("stats", fs, func() error {
			c.SetShowStats(*show)
			return nil
		})
	}
	{
		fs := newFlagSet("font")
		name := fs.String("name", "", "font family or file under the fonts dir")
		r.Register("font", fs, func() error {
			if *name == "" {
				return fmt.Errorf("font: %w -name", errMissingFlag)
			}
			return c.SetFont(*name)
		})
	}
	{
		fs := newFlagSet("grid")
		visible := fs.Bool("visible", true, "show the floor grid")
		r.Register("grid", fs, func() error {
			c.SetGridVisible(*visible)
			return nil
		})
	}
	{
		fs := newFlagSet("help")
		name := fs.String("cmd", "", "command to describe")
		r.Register("help", fs, func() error {
			if *name == "" {
				out(fmt.Sprintf("commands: %v", r.Names()))
				return nil
			}
			u, err := r.Usage(*name)
			if err != nil {
				return err
			}
			out(u)
			return nil
		})
	}
}
