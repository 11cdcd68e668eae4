//go:build !js

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"texview/pkg/bytecode"
	"texview/pkg/compiler"
	"texview/pkg/config"
	"texview/pkg/display"
	"texview/pkg/document"
	"texview/pkg/glyph"
	"texview/pkg/utils"
	"texview/pkg/vfs"
	"texview/pkg/viewer"
)

const defaultTextWidth = 80

type options struct {
	inPath      string
	name        string
	outPath     string
	storagePath string
	configPath  string
	pngPath     string
	dump        bool
	text        bool
	width       int
	scroll      int
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opts options

	flags := pflag.NewFlagSet("texview", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.inPath, "in", "i", "", "input markup file")
	flags.StringVarP(&opts.name, "name", "n", "", "document name in the store (default: derived from the input file)")
	flags.StringVarP(&opts.outPath, "out", "o", "", "output binary file path (default: input with .bin extension)")
	flags.StringVarP(&opts.storagePath, "storage", "s", "", "document store directory to save the compiled document into")
	flags.StringVarP(&opts.configPath, "config", "c", "", "configuration file (default: nearest "+config.FileName+")")
	flags.BoolVarP(&opts.dump, "dump", "d", false, "print a disassembly of the compiled stream")
	flags.BoolVarP(&opts.text, "text", "t", false, "print the document as wrapped plain text")
	flags.IntVarP(&opts.width, "width", "w", 0, "plain text width (0 uses terminal width if available)")
	flags.StringVar(&opts.pngPath, "png", "", "render the first screen of the document to a PNG file")
	flags.IntVar(&opts.scroll, "scroll", 0, "scroll offset in pixels for --png")
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage: texview [flags] [input.tex]")
		fmt.Fprintln(stderr, "\nCompiles markup into a document stream for the viewer.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if opts.inPath == "" && flags.NArg() > 0 {
		opts.inPath = flags.Arg(0)
	}
	if opts.inPath == "" {
		fmt.Fprintln(stderr, "nothing to do: provide an input file with --in")
		flags.Usage()
		return 2
	}

	if err := compileFile(opts, stdout, stderr); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func compileFile(opts options, stdout, stderr io.Writer) error {
	fullPath, baseDir, err := utils.GetPathInfo(opts.inPath)
	if err != nil {
		return err
	}
	source, err := os.ReadFile(fullPath)
	if err != nil {
		return fmt.Errorf("failed to read input file %q: %w", opts.inPath, err)
	}

	cfg, err := loadConfig(opts.configPath, baseDir)
	if err != nil {
		return err
	}

	name := opts.name
	if name == "" {
		name = utils.DocumentName(fullPath)
	}
	if !vfs.ValidName(name) {
		return fmt.Errorf("%w: %q", vfs.ErrInvalidName, name)
	}

	code, stats := compiler.CompileWithStats(string(source))
	if len(code) > vfs.MaxDocumentBytes {
		return fmt.Errorf("%s: %w: %d bytes", name, vfs.ErrTooLarge, len(code))
	}

	output := opts.outPath
	if output == "" {
		output = defaultOutputPath(opts.inPath)
	}
	if err := writeBinary(output, code); err != nil {
		return fmt.Errorf("failed to write binary file %q: %w", output, err)
	}
	fmt.Fprintf(stdout, "compiled %s: %d bytes -> %s\n", name, len(code), output)
	fmt.Fprintf(stderr, "text=%d frac=%d sup=%d sub=%d nl=%d par=%d unknown=%d malformed=%d replaced=%d\n",
		stats.Text, stats.Fractions, stats.Superscripts, stats.Subscripts,
		stats.NewLines, stats.Paragraphs, stats.Unknown, stats.Malformed, stats.Replaced)

	if opts.storagePath != "" {
		if err := storeDocument(opts.storagePath, name, code); err != nil {
			return fmt.Errorf("failed to store %s in %q: %w", name, opts.storagePath, err)
		}
		fmt.Fprintf(stdout, "stored %s in %s\n", name, opts.storagePath)
	}

	if opts.dump {
		fmt.Fprint(stdout, bytecode.Disassemble(code))
	}

	if opts.text {
		width := opts.width
		if width <= 0 {
			width = terminalWidth(defaultTextWidth)
		}
		fmt.Fprintln(stdout, plainText(code, width))
	}

	if opts.pngPath != "" {
		if err := renderPNG(cfg, name, code, opts.scroll, opts.pngPath, stderr); err != nil {
			return fmt.Errorf("failed to render %q: %w", opts.pngPath, err)
		}
		fmt.Fprintf(stdout, "rendered %s -> %s\n", name, opts.pngPath)
	}

	return nil
}

func loadConfig(path, baseDir string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.FindAndLoad(baseDir)
}

func defaultOutputPath(inPath string) string {
	ext := filepath.Ext(inPath)
	if ext == "" {
		return inPath + ".bin"
	}
	return strings.TrimSuffix(inPath, ext) + ".bin"
}

func writeBinary(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

// storeDocument adds the document to the store directory, keeping the
// documents already there.
func storeDocument(dir, name string, code []byte) error {
	disk := vfs.NewDocumentDisk()
	if err := disk.LoadFrom(dir); err != nil {
		return err
	}
	if err := disk.Write(name, code); err != nil {
		return err
	}
	return disk.PersistTo(dir)
}

func plainText(code []byte, width int) string {
	doc := document.Load(code)
	return wordwrap.String(document.PlainText(doc.Root), width)
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

func renderPNG(cfg *config.Config, name string, code []byte, scroll int, path string, logOut io.Writer) error {
	face := glyph.NewFace()
	disk := vfs.NewDocumentDisk()
	if err := disk.Write(name, code); err != nil {
		return err
	}

	v := viewer.New(cfg.Engine(face), slog.New(slog.NewTextHandler(logOut, nil)))
	v.ScrollStep = cfg.Viewer.ScrollStep
	// an empty document still renders, as the fallback screen
	_ = v.Load(disk, name)
	v.ScrollTo(scroll)

	screen := display.NewScreen(face)
	v.Render(screen)
	return screen.SaveScreenshot(path)
}
