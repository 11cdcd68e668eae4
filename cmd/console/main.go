package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"texview/pkg/config"
	"texview/pkg/display"
	"texview/pkg/glyph"
	"texview/pkg/vfs"
	"texview/pkg/viewer"
)

type options struct {
	configPath  string
	docName     string
	storagePath string
	keys        string
	outPath     string
	frames      bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts options

	flags := pflag.NewFlagSet("texview-console", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.configPath, "config", "c", "", "configuration file (default: nearest "+config.FileName+")")
	flags.StringVarP(&opts.docName, "doc", "d", "", "document to open")
	flags.StringVarP(&opts.storagePath, "storage", "s", "", "document store directory")
	flags.StringVarP(&opts.keys, "keys", "k", "", "key script: j/k scroll, n or space/p page, g/G ends, q quit")
	flags.StringVarP(&opts.outPath, "out", "o", "frame.png", "PNG file for the final frame")
	flags.BoolVarP(&opts.frames, "frames", "f", false, "also write one numbered PNG per key")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	if err := replay(opts, stdout, slog.New(slog.NewTextHandler(stderr, nil))); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

// replay opens the document, applies the key script and saves the frames.
func replay(opts options, stdout io.Writer, logger *slog.Logger) error {
	var cfg *config.Config
	var err error
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath)
	} else {
		cfg, err = config.FindAndLoad(".")
	}
	if err != nil {
		return err
	}
	if opts.storagePath != "" {
		cfg.Viewer.Storage = opts.storagePath
	}
	if opts.docName != "" {
		cfg.Viewer.Document = opts.docName
	}

	disk := vfs.NewDocumentDisk()
	if err := disk.LoadFrom(cfg.Viewer.Storage); err != nil {
		return fmt.Errorf("failed to load documents from %s: %w", cfg.Viewer.Storage, err)
	}

	face := glyph.NewFace()
	v := viewer.New(cfg.Engine(face), logger)
	v.ScrollStep = cfg.Viewer.ScrollStep
	if err := v.Load(disk, cfg.Viewer.Document); err != nil {
		// the fallback screen is still rendered
		fmt.Fprintln(stdout, err)
	}
	screen := display.NewScreen(face)

	step := 0
	for _, r := range opts.keys {
		in := viewer.IntentForKey(r)
		if !v.Handle(in) {
			break
		}
		step++
		fmt.Fprintf(stdout, "%3d %-10s scroll=%d/%d %d%%\n", step, in, v.Scroll(), v.MaxScroll(), v.Percent())
		if opts.frames {
			v.Render(screen)
			if err := screen.SaveScreenshot(framePath(opts.outPath, step)); err != nil {
				return err
			}
		}
	}

	v.Render(screen)
	if err := screen.SaveScreenshot(opts.outPath); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "saved %s\n", opts.outPath)
	return nil
}

// framePath numbers a frame: out.png becomes out-003.png.
func framePath(out string, step int) string {
	ext := filepath.Ext(out)
	return fmt.Sprintf("%s-%03d%s", strings.TrimSuffix(out, ext), step, ext)
}
