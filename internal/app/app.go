// Package app wires the hero scene, the model viewer, the catalog and the console together.
// It holds no raylib state; the window shell in shell.go supplies renderers and drawing.
package app

import (
	"errors"
	"fmt"
	"path"

	"showcase/internal/catalog"
	"showcase/internal/commands"
	"showcase/internal/config"
	"showcase/internal/debug"
	"showcase/internal/fonts"
	"showcase/internal/hero"
	"showcase/internal/input"
	"showcase/internal/logger"
	"showcase/internal/model"
	"showcase/internal/ui"
	"showcase/internal/viewer"
)

// Modes.
const (
	ModeHero   = "hero"
	ModeViewer = "viewer"
)

// ErrUnknownMode is returned by SetMode for names other than hero and viewer.
var ErrUnknownMode = errors.New("app: unknown mode")

var _ commands.Controls = (*App)(nil)

// Deps are the collaborators New needs.
type Deps struct {
	Prefs     config.Prefs
	Log       *logger.Logger
	Surface   hero.Surface
	Scheduler hero.Scheduler
	Input     input.Source
	Fetcher   viewer.Fetcher
	Catalog   *catalog.Catalog

	NewHeroRenderer   func() hero.Renderer
	NewViewerRenderer func() viewer.Renderer
	// LoadFont applies a font file to the overlays. Nil disables the font command.
	LoadFont func(path string) error
	// PrefsPath is where changed preferences are saved; empty keeps them in memory.
	PrefsPath string
}

// App owns whichever of the hero scene or the viewer is mounted.
type App struct {
	d        Deps
	prefs    config.Prefs
	log      *logger.Logger
	catalog  *catalog.Catalog
	decoders *model.Registry
	debug    *debug.Debug

	mode   string
	hero   *hero.Animator
	viewer *viewer.Viewer
	// item is the catalog entry shown by the viewer; ID 0 for an ad-hoc URL.
	item catalog.Item
}

// New mounts the start mode from prefs.
func New(d Deps) (*App, error) {
	if d.Log == nil {
		d.Log = logger.New("")
	}
	if d.Catalog == nil {
		d.Catalog = catalog.Default()
	}
	a := &App{
		d:        d,
		prefs:    d.Prefs,
		log:      d.Log,
		catalog:  d.Catalog,
		decoders: model.NewRegistry(),
		debug:    debug.New(),
	}
	a.debug.SetShowFPS(a.prefs.ShowFPS)
	a.debug.SetShowMemAlloc(a.prefs.ShowMemAlloc)
	a.debug.SetShowStats(a.prefs.ShowStats)
	mode := a.prefs.StartMode
	if mode == "" {
		mode = ModeHero
	}
	if err := a.SetMode(mode); err != nil {
		return nil, err
	}
	return a, nil
}

// Mode returns the mounted mode.
func (a *App) Mode() string {
	return a.mode
}

// Hero returns the mounted hero animator, or nil in viewer mode.
func (a *App) Hero() *hero.Animator {
	return a.hero
}

// Viewer returns the mounted viewer, or nil in hero mode.
func (a *App) Viewer() *viewer.Viewer {
	return a.viewer
}

// Debug returns the overlay switches.
func (a *App) Debug() *debug.Debug {
	return a.debug
}

// Catalog returns the current catalog.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}

// Item returns the catalog entry the viewer shows.
func (a *App) Item() catalog.Item {
	return a.item
}

// SetMode mounts name and then unmounts the previous scene. Setting the current mode does
// nothing. When the mount fails the previous scene stays mounted.
func (a *App) SetMode(name string) error {
	if name != ModeHero && name != ModeViewer {
		return fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
	if name == a.mode {
		return nil
	}
	if name == ModeHero {
		h, err := a.mountHero()
		if err != nil {
			return err
		}
		a.unmount()
		a.hero = h
	} else {
		v, err := a.mountViewer()
		if err != nil {
			return err
		}
		a.unmount()
		a.viewer = v
		a.showFirst()
	}
	a.mode = name
	a.log.Infof("app: mode %s", name)
	return nil
}

func (a *App) unmount() {
	if a.hero != nil {
		_ = a.hero.Close()
		a.hero = nil
	}
	if a.viewer != nil {
		_ = a.viewer.Close()
		a.viewer = nil
	}
	a.mode = ""
}

func (a *App) mountHero() (*hero.Animator, error) {
	opts := hero.Options{GridVisible: a.prefs.GridVisible, Log: a.log}
	if a.prefs.Seed != 0 {
		opts.Rand = hero.NewRand(a.prefs.Seed)
	}
	r := a.d.NewHeroRenderer()
	h, err := hero.Mount(a.d.Surface, r, a.d.Scheduler, a.d.Input, opts)
	if err != nil {
		_ = r.Close()
		a.log.Errorf("app: mount hero: %v", err)
		return nil, fmt.Errorf("app: mount hero: %w", err)
	}
	return h, nil
}

func (a *App) mountViewer() (*viewer.Viewer, error) {
	r := a.d.NewViewerRenderer()
	v, err := viewer.New(a.d.Surface, r, a.d.Scheduler, a.d.Input, a.d.Fetcher, a.decoders,
		viewer.Options{GridVisible: a.prefs.GridVisible, Log: a.log})
	if err != nil {
		_ = r.Close()
		a.log.Errorf("app: mount viewer: %v", err)
		return nil, fmt.Errorf("app: mount viewer: %w", err)
	}
	return v, nil
}

// showFirst shows the pending item in a fresh viewer, falling back to the first catalog item.
func (a *App) showFirst() {
	if a.item.ModelURL == "" {
		if first, ok := a.catalog.First(); ok {
			a.item = first
		}
	}
	if a.item.ModelURL != "" {
		a.show(a.item)
	}
}

// show loads it into the mounted viewer. Load failures are logged by the viewer.
func (a *App) show(it catalog.Item) {
	a.item = it
	if it.Background != 0 {
		a.viewer.SetBackground(uint32(it.Background))
	}
	_ = a.viewer.Load(it.ModelURL)
}

// openViewer switches to the viewer showing it. The item is kept only if the mount succeeds.
func (a *App) openViewer(it catalog.Item) error {
	prev := a.item
	a.item = it
	if err := a.SetMode(ModeViewer); err != nil {
		a.item = prev
		return err
	}
	return nil
}

// SelectModel switches to the viewer if needed and shows catalog item id.
func (a *App) SelectModel(id int) error {
	it, err := a.catalog.Find(id)
	if err != nil {
		return err
	}
	if a.mode != ModeViewer {
		return a.openViewer(it)
	}
	a.show(it)
	return nil
}

// LoadModel switches to the viewer if needed and loads url outside the catalog.
// An unsupported extension is rejected before anything changes.
func (a *App) LoadModel(url string) error {
	if _, err := a.decoders.For(url); err != nil {
		a.log.Errorf("app: load %s: %v", url, err)
		return err
	}
	it := catalog.Item{Title: path.Base(url), ModelURL: url}
	if a.mode != ModeViewer {
		return a.openViewer(it)
	}
	a.item = it
	return a.viewer.Load(url)
}

// Reseed rebuilds the hero scene from seed (0 seeds from the clock). In viewer mode the
// seed is kept for the next hero mount. When the rebuild fails the old scene and seed stay.
func (a *App) Reseed(seed uint64) error {
	prev := a.prefs.Seed
	a.prefs.Seed = seed
	if a.mode != ModeHero {
		return nil
	}
	h, err := a.mountHero()
	if err != nil {
		a.prefs.Seed = prev
		return err
	}
	a.unmount()
	a.hero, a.mode = h, ModeHero
	a.log.Infof("app: reseeded hero with %d", seed)
	return nil
}

// SetShowFPS toggles the FPS overlay.
func (a *App) SetShowFPS(show bool) {
	a.debug.SetShowFPS(show)
	a.prefs.ShowFPS = show
	a.save()
}

// SetShowStats toggles the scene stats overlay.
func (a *App) SetShowStats(show bool) {
	a.debug.SetShowStats(show)
	a.prefs.ShowStats = show
	a.save()
}

// SetGridVisible shows or hides the floor grid of the mounted scene.
func (a *App) SetGridVisible(visible bool) {
	a.prefs.GridVisible = visible
	if a.hero != nil {
		a.hero.Scene().GridVisible = visible
	}
	if a.viewer != nil {
		a.viewer.SetGridVisible(visible)
	}
	a.save()
}

// SetFont finds name under the font directories and applies it to the overlays.
func (a *App) SetFont(name string) error {
	if a.d.LoadFont == nil {
		return errors.New("app: fonts unavailable")
	}
	p, err := fonts.Find(fonts.Dirs(a.prefs.AssetDir), name)
	if err != nil {
		return err
	}
	if err := a.d.LoadFont(p); err != nil {
		return fmt.Errorf("app: load font %s: %w", p, err)
	}
	a.prefs.Font = name
	a.log.Infof("app: font %s", p)
	a.save()
	return nil
}

func (a *App) save() {
	if a.d.PrefsPath == "" {
		return
	}
	if err := config.Save(a.d.PrefsPath, a.prefs); err != nil {
		a.log.Errorf("app: save prefs: %v", err)
	}
}

// SetCatalog replaces the catalog. When the viewer shows an item that still exists, its
// background is refreshed and its model reloaded if the URL changed.
func (a *App) SetCatalog(c *catalog.Catalog) {
	a.catalog = c
	a.log.Infof("app: catalog has %d items", len(c.Items))
	if a.item.ID == 0 {
		return
	}
	it, err := c.Find(a.item.ID)
	if err != nil {
		return
	}
	changed := it.ModelURL != a.item.ModelURL
	a.item = it
	if a.viewer == nil {
		return
	}
	if changed {
		a.show(it)
		return
	}
	if it.Background != 0 {
		a.viewer.SetBackground(uint32(it.Background))
	}
}

// Stats describes the mounted scene for the debug overlay.
func (a *App) Stats() debug.Stats {
	s := debug.Stats{Mode: a.mode}
	if a.hero != nil {
		s.Objects = len(a.hero.Scene().Objects)
		s.Frame = a.hero.Frame()
	}
	if a.viewer != nil {
		s.Model = a.viewer.URL()
		s.Pending = a.viewer.Pending()
		if g := a.viewer.Model(); g != nil {
			s.Triangles = g.TriangleCount()
		}
	}
	return s
}

// Details fills the viewer panel from the current item and the viewer state.
// Thumbnails are left for the caller.
func (a *App) Details() ui.Info {
	if a.viewer == nil {
		return ui.Info{}
	}
	info := ui.Info{
		Title:       a.item.Title,
		Description: a.item.Description,
		URL:         a.viewer.URL(),
		Loading:     a.viewer.Pending() > 0,
	}
	if err := a.viewer.Err(); err != nil {
		info.Err = err.Error()
	}
	if g := a.viewer.Model(); g != nil {
		info.Meshes = len(g.Meshes)
		info.Triangles = g.TriangleCount()
	}
	for _, it := range a.catalog.Others(a.item.ID) {
		info.Others = append(info.Others, ui.Other{ID: it.ID, Title: it.Title})
	}
	return info
}

// Close unmounts the active scene.
func (a *App) Close() error {
	var err error
	if a.hero != nil {
		err = a.hero.Close()
	}
	if a.viewer != nil {
		err = errors.Join(err, a.viewer.Close())
	}
	a.hero, a.viewer, a.mode = nil, nil, ""
	return err
}
