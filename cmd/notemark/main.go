package main

import (
	"fmt"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/cadvik/notemark"
	"github.com/cadvik/notemark/interact"
	"github.com/cadvik/notemark/layout"
)

const (
	defaultPaletteName = "default"
	defaultWidth       = 80
	defaultPNGWidth    = 800
	defaultPNGMargin   = 16
	defaultFontSize    = 14.0
)

func main() {
	var (
		paletteName  string
		widthFlag    int
		osc8Flag     string
		listPalettes bool
		outPath      string
		pngMode      bool
		pngWidth     int
		pngMargin    int
		fontSize     float64
		transparent  bool
	)

	flags := pflag.NewFlagSet("notemark", pflag.ExitOnError)
	flags.StringVarP(&paletteName, "palette", "p", defaultPaletteName, "Palette name")
	flags.IntVarP(&widthFlag, "width", "w", 0, "Output width override (0 uses terminal width if available)")
	flags.StringVarP(&osc8Flag, "osc8", "8", "auto", "OSC8 hyperlinks: auto|on|off")
	flags.BoolVar(&listPalettes, "list-palettes", false, "List available palettes")
	flags.StringVarP(&outPath, "output", "o", "", "Output file instead of stdout")
	flags.BoolVar(&pngMode, "png", false, "Render a PNG image instead of ANSI output")
	flags.IntVar(&pngWidth, "png-width", defaultPNGWidth, "PNG width in pixels")
	flags.IntVar(&pngMargin, "margin", defaultPNGMargin, "PNG content margin in pixels")
	flags.Float64Var(&fontSize, "font-size", defaultFontSize, "Base font size in points for PNG output")
	flags.BoolVar(&transparent, "transparent", false, "Transparent PNG background with clickable regions kept hit-testable")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: notemark [flags] [inputs...]\n")
		fmt.Fprintln(os.Stderr, "\nIf no input is provided, markup is read from stdin.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	if listPalettes {
		for _, name := range notemark.AvailablePalettes() {
			fmt.Fprintln(os.Stdout, name)
		}
		return
	}

	input, err := readInputs(flags.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "open input: %v\n", err)
		os.Exit(1)
	}

	if !pngMode && outPath != "" && strings.HasSuffix(strings.ToLower(outPath), ".png") {
		fmt.Fprintf(os.Stderr, "warning: output %q ends with .png; enabling --png\n", outPath)
		pngMode = true
	}

	writer, closeOut, err := resolveOutput(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open output: %v\n", err)
		os.Exit(1)
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	palette, ok := notemark.PaletteByName(paletteName)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown palette %q\n", paletteName)
		os.Exit(2)
	}

	res := notemark.Parse(input)
	defer notemark.Free(res)

	if pngMode {
		if isTerminal(writer) {
			fmt.Fprintln(os.Stderr, "refusing to write PNG to terminal; use -o/--output")
			os.Exit(2)
		}
		if err := renderPNG(writer, res, palette, pngWidth, pngMargin, fontSize, transparent); err != nil {
			fmt.Fprintf(os.Stderr, "render png: %v\n", err)
			os.Exit(1)
		}
		return
	}

	osc8, err := resolveOSC8(osc8Flag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --osc8 %q: %v\n", osc8Flag, err)
		os.Exit(2)
	}
	out := notemark.RenderANSI(res, notemark.ANSIOptions{
		Width:   resolveWidth(widthFlag),
		Palette: &palette,
		OSC8:    osc8,
	})
	fmt.Fprintln(writer, out)
}

func renderPNG(w io.Writer, res *notemark.Result, palette notemark.Palette, width, margin int, fontSize float64, transparent bool) error {
	fonts, err := layout.NewFonts(fontSize)
	if err != nil {
		return err
	}
	engine := layout.NewEngine(fonts, palette)

	bg := color.Color(color.White)
	if transparent {
		bg = color.Transparent
	}
	img := engine.RenderImage(res, width, margin, bg)

	if transparent {
		registry := interact.NewRegistry()
		for _, l := range res.Links {
			registry.AddLink(l.Rect, l.URL)
		}
		for _, item := range res.ListItems {
			if item.IsTask {
				registry.AddCheckbox(item.MarkRect, item.TaskIndex, item.Checked)
			}
		}
		registry.StampAlpha(img)
	}
	return png.Encode(w, img)
}

func readInputs(args []string) (string, error) {
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	var b strings.Builder
	for _, arg := range args {
		data, err := os.ReadFile(normalizePath(arg))
		if err != nil {
			return "", err
		}
		b.Write(data)
	}
	return b.String(), nil
}

func resolveWidth(width int) int {
	if width > 0 {
		return width
	}
	return terminalWidth(defaultWidth)
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconvAtoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

func resolveOSC8(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return notemark.DetectOSC8Support(), nil
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected auto|on|off")
	}
}

func resolveOutput(path string) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return os.Stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func strconvAtoi(value string) (int, error) {
	var n int
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return 0, fmt.Errorf("invalid int")
		}
		n = n*10 + int(value[i]-'0')
	}
	return n, nil
}
