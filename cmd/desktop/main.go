package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/pflag"

	"texview/pkg/compiler"
	"texview/pkg/config"
	"texview/pkg/display"
	"texview/pkg/glyph"
	"texview/pkg/utils"
	"texview/pkg/vfs"
	"texview/pkg/viewer"
)

// Held navigation keys repeat after repeatDelay ticks, every repeatEvery.
const (
	repeatDelay = 30
	repeatEvery = 4
)

type binding struct {
	keys   []ebiten.Key
	intent viewer.Intent
	repeat bool
}

var bindings = []binding{
	{[]ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyJ}, viewer.ScrollDown, true},
	{[]ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyK}, viewer.ScrollUp, true},
	{[]ebiten.Key{ebiten.KeyPageDown, ebiten.KeySpace, ebiten.KeyArrowRight}, viewer.PageNext, true},
	{[]ebiten.Key{ebiten.KeyPageUp, ebiten.KeyArrowLeft}, viewer.PagePrev, true},
	{[]ebiten.Key{ebiten.KeyHome}, viewer.Home, false},
	{[]ebiten.Key{ebiten.KeyEnd}, viewer.End, false},
	{[]ebiten.Key{ebiten.KeyEscape, ebiten.KeyQ}, viewer.Exit, false},
}

// pressDuration reports how many ticks a key has been held, 0 when up.
type pressDuration func(ebiten.Key) int

// intentFor returns the first intent whose key fired this tick.
func intentFor(held pressDuration) viewer.Intent {
	for _, b := range bindings {
		for _, k := range b.keys {
			d := held(k)
			if d == 1 || (b.repeat && d >= repeatDelay && (d-repeatDelay)%repeatEvery == 0) {
				return b.intent
			}
		}
	}
	return viewer.None
}

func pollIntent() viewer.Intent {
	return intentFor(inpututil.KeyPressDuration)
}

type Game struct {
	view   *viewer.Viewer
	screen *display.Screen
	frame  *ebiten.Image // reused 320×240 canvas
	disk   *vfs.DocumentDisk
	log    *slog.Logger

	name string
	src  string
}

func newGame(cfg *config.Config, disk *vfs.DocumentDisk, src string, logger *slog.Logger) *Game {
	face := glyph.NewFace()
	v := viewer.New(cfg.Engine(face), logger)
	v.ScrollStep = cfg.Viewer.ScrollStep
	return &Game{
		view:   v,
		screen: display.NewScreen(face),
		disk:   disk,
		log:    logger,
		name:   cfg.Viewer.Document,
		src:    src,
	}
}

// open loads the current document, keeping the scroll position.
func (g *Game) open() {
	pos := g.view.Scroll()
	_ = g.view.Load(g.disk, g.name)
	g.view.ScrollTo(pos)
}

// reload recompiles the source file into the disk and reopens the document.
func (g *Game) reload() error {
	if g.src == "" {
		return nil
	}
	source, err := os.ReadFile(g.src)
	if err != nil {
		return fmt.Errorf("reload %s: %w", g.src, err)
	}
	code, stats := compiler.CompileWithStats(string(source))
	if err := g.disk.Write(g.name, code); err != nil {
		return fmt.Errorf("reload %s: %w", g.src, err)
	}
	g.log.Info("recompiled", "src", g.src, "name", g.name, "bytes", len(code), "unknown", stats.Unknown, "malformed", stats.Malformed)
	g.open()
	return nil
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.reload(); err != nil {
			g.log.Error("reload failed", "err", err)
		}
	}
	if !g.view.Handle(pollIntent()) {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.frame == nil {
		g.frame = ebiten.NewImage(display.Width, display.Height)
	}

	g.view.Render(g.screen)
	g.frame.WritePixels(g.screen.RGBA())
	screen.DrawImage(g.frame, nil)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return display.Width, display.Height
}

// startDiskSyncer flushes the document disk to dir every interval while
// stop is open.
func startDiskSyncer(disk *vfs.DocumentDisk, dir string, interval time.Duration, stop <-chan struct{}, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if disk.IsDirty() {
				if err := disk.PersistTo(dir); err != nil {
					logger.Warn("disk sync failed", "dir", dir, "err", err)
				}
			}
		case <-stop:
			return
		}
	}
}

func main() {
	var configPath, docName, storagePath, srcPath string

	flags := pflag.NewFlagSet("texview-desktop", pflag.ExitOnError)
	flags.StringVarP(&configPath, "config", "c", "", "configuration file (default: nearest "+config.FileName+")")
	flags.StringVarP(&docName, "doc", "d", "", "document to open")
	flags.StringVarP(&storagePath, "storage", "s", "", "document store directory")
	flags.StringVar(&srcPath, "src", "", "markup source recompiled into the document with R")
	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.FindAndLoad(".")
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if storagePath != "" {
		cfg.Viewer.Storage = storagePath
	}
	switch {
	case docName != "":
		cfg.Viewer.Document = docName
	case srcPath != "":
		cfg.Viewer.Document = utils.DocumentName(srcPath)
	}

	disk := vfs.NewDocumentDisk()
	if err := disk.LoadFrom(cfg.Viewer.Storage); err != nil {
		log.Fatalf("Failed to load documents from %s: %v", cfg.Viewer.Storage, err)
	}

	game := newGame(cfg, disk, srcPath, logger)
	if srcPath == "" {
		game.open()
	} else if err := game.reload(); err != nil {
		logger.Error("initial compile failed", "err", err)
		game.open()
	}

	stopSyncer := make(chan struct{})
	go startDiskSyncer(disk, cfg.Viewer.Storage, 3*time.Second, stopSyncer, logger)

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(display.Width*cfg.Display.Scale, display.Height*cfg.Display.Scale)
	ebiten.SetWindowTitle("texview: " + cfg.Viewer.Document)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}

	// final flush
	close(stopSyncer)
	if disk.IsDirty() {
		if err := disk.PersistTo(cfg.Viewer.Storage); err != nil {
			log.Printf("Failed to save documents: %v", err)
		}
	}
}
