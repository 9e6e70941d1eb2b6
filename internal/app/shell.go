package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	rl "github.com/gen2brain/raylib-go/raylib"

	"showcase/internal/catalog"
	"showcase/internal/commands"
	"showcase/internal/config"
	"showcase/internal/download"
	"showcase/internal/graphics"
	"showcase/internal/hero"
	"showcase/internal/input"
	"showcase/internal/logger"
	"showcase/internal/scene"
	"showcase/internal/terminal"
	"showcase/internal/thumbs"
	"showcase/internal/ui"
	"showcase/internal/viewer"
)

const (
	windowTitle = "3D Showcase"
	thumbW      = 64
	thumbH      = 48
	captionText = "Drag to orbit. ESC opens the console; try: cmd help"
)

// shell is the raylib side of the app: window callbacks, console, overlays and thumbnails.
type shell struct {
	prefs     config.Prefs
	prefsPath string
	log       *logger.Logger
	cat       *catalog.Catalog
	fetch     *download.Fetcher
	loop      *graphics.Loop
	bus       *input.Bus

	ctx      context.Context
	cancel   context.CancelFunc
	app      *App
	poller   *graphics.Poller
	term     *terminal.Terminal
	ui       *ui.Engine
	details  *ui.Details
	caption  *ui.Node
	nodes    []*ui.Node
	watcher  *catalog.Watcher
	thumbs   *thumbs.Set
	textures map[int]rl.Texture2D
	font     rl.Font
}

// Run opens the window and runs the showcase until the window is closed.
func Run(prefs config.Prefs, prefsPath string, log *logger.Logger) error {
	cat, err := catalog.Load(prefs.CatalogPath)
	if err != nil {
		log.Errorf("app: %v; using the built-in catalog", err)
		cat = catalog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fetch := download.New(prefs.AssetDir, prefs.CacheDir)
	s := &shell{
		prefs:     prefs,
		prefsPath: prefsPath,
		log:       log,
		cat:       cat,
		fetch:     fetch,
		loop:      graphics.NewLoop(),
		bus:       input.NewBus(),
		ctx:       ctx,
		cancel:    cancel,
		thumbs:    thumbs.NewSet(fetch, thumbW, thumbH),
		textures:  make(map[int]rl.Texture2D),
	}
	w := graphics.Window{
		Width:      prefs.WindowWidth,
		Height:     prefs.WindowHeight,
		Title:      windowTitle,
		TargetFPS:  prefs.TargetFPS,
		Fullscreen: prefs.Fullscreen,
		Background: rl.Black,
	}
	return graphics.Run(w, s.loop, graphics.Hooks{Init: s.init, Update: s.update, Draw: s.draw, Close: s.close})
}

func (s *shell) init() error {
	s.ui = ui.New()
	if css := filepath.Join(s.prefs.AssetDir, "ui", "showcase.css"); fileExists(css) {
		if err := s.ui.LoadCSS(css); err != nil {
			s.log.Errorf("app: %v", err)
		}
	}
	s.details = ui.NewDetails()
	s.caption = ui.NewNode("label", "caption", "", captionText)
	s.poller = graphics.NewPoller(s.bus, s.prefs.Touch)

	a, err := New(Deps{
		Prefs:             s.prefs,
		Log:               s.log,
		Surface:           graphics.Surface{},
		Scheduler:         s.loop,
		Input:             s.bus,
		Fetcher:           s.fetch,
		Catalog:           s.cat,
		NewHeroRenderer:   func() hero.Renderer { return scene.NewHero() },
		NewViewerRenderer: func() viewer.Renderer { return scene.NewViewer() },
		LoadFont:          s.loadFont,
		PrefsPath:         s.prefsPath,
	})
	if err != nil {
		return err
	}
	s.app = a

	reg := commands.NewRegistry()
	commands.RegisterShowcase(reg, a, func(line string) { s.log.Infof("%s", line) })
	s.term = terminal.New(s.log, reg)
	if s.prefs.Font != "" {
		if err := a.SetFont(s.prefs.Font); err != nil {
			s.log.Errorf("app: font %q: %v", s.prefs.Font, err)
		}
	}

	if s.prefs.CatalogPath != "" {
		w, err := catalog.Watch(s.prefs.CatalogPath)
		if err != nil {
			s.log.Errorf("app: watch catalog: %v", err)
		} else {
			s.watcher = w
		}
	}
	s.requestThumbs()
	return nil
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	return err == nil && !st.IsDir()
}

func (s *shell) loadFont(path string) error {
	f := rl.LoadFont(path)
	if f.Texture.ID == 0 {
		return os.ErrNotExist
	}
	if s.font.Texture.ID != 0 {
		rl.UnloadFont(s.font)
	}
	s.font = f
	s.ui.SetFont(f)
	s.app.Debug().SetFont(f)
	if s.term != nil {
		s.term.SetFont(f)
	}
	return nil
}

// requestThumbs starts loading every catalog thumbnail that has no texture yet.
func (s *shell) requestThumbs() {
	for _, it := range s.app.Catalog().Items {
		if it.Thumbnail == "" {
			continue
		}
		if _, ok := s.textures[it.ID]; ok {
			continue
		}
		s.thumbs.Request(s.ctx, it.ID, it.Thumbnail)
	}
}

func (s *shell) update() {
	s.term.Update()
	s.poller.Poll(s.term.IsOpen())
	s.pollCatalog()
	for _, r := range s.thumbs.Drain() {
		if r.Err != nil {
			s.log.Errorf("app: thumbnail %d: %v", r.Key, r.Err)
			continue
		}
		img := rl.NewImageFromImage(r.Image)
		tex := rl.LoadTextureFromImage(img)
		rl.UnloadImage(img)
		if old, ok := s.textures[r.Key]; ok {
			rl.UnloadTexture(old)
		}
		s.textures[r.Key] = tex
	}
}

func (s *shell) pollCatalog() {
	if s.watcher == nil {
		return
	}
	select {
	case u, ok := <-s.watcher.Updates:
		if !ok {
			s.watcher = nil
			return
		}
		if u.Err != nil {
			s.log.Errorf("app: reload catalog: %v", u.Err)
			return
		}
		s.app.SetCatalog(u.Catalog)
		s.requestThumbs()
	default:
	}
}

func (s *shell) draw() {
	s.nodes = s.nodes[:0]
	switch s.app.Mode() {
	case ModeViewer:
		info := s.app.Details()
		for i := range info.Others {
			info.Others[i].Thumbnail = s.textures[info.Others[i].ID]
		}
		s.nodes = s.details.AppendNodes(s.nodes, true, info)
	case ModeHero:
		s.nodes = append(s.nodes, s.caption)
	}
	s.ui.SetNodes(s.nodes)
	s.ui.Draw()
	s.app.Debug().Draw(s.app.Stats())
	s.term.Draw()
}

func (s *shell) close() {
	s.cancel()
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			s.log.Errorf("app: close watcher: %v", err)
		}
	}
	s.thumbs.Wait()
	for id, tex := range s.textures {
		rl.UnloadTexture(tex)
		delete(s.textures, id)
	}
	if s.app != nil {
		if err := s.app.Close(); err != nil && !errors.Is(err, context.Canceled) {
			s.log.Errorf("app: close: %v", err)
		}
	}
	if s.font.Texture.ID != 0 {
		rl.UnloadFont(s.font)
	}
}
