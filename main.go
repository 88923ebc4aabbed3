// Command smART is a freehand drawing canvas: draw with a finger or mouse,
// erase by rubbing over strokes, then save, share or export the picture.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/gogpu/gg"

	"smART/internal/backdrop"
	"smART/internal/config"
	"smART/internal/export"
	"smART/internal/fault"
	sharenet "smART/internal/net"
	"smART/internal/state"
	"smART/internal/ui"
)

// Version can be set at build time with -ldflags "-X main.Version=x.y.z".
var Version = "0.1.0-dev"

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("c", config.DefaultPath(), "Path to the TOML configuration file")
	doLog := flag.Bool("log", false, "Print debugging output to stdout")
	version := flag.Bool("v", false, "Print version and exit")
	renderDoc := flag.String("render", "", "Render a saved drawing without opening a window")
	out := flag.String("o", "", "Output file for -render (.png or .pdf)")
	backdropPath := flag.String("backdrop", "", "Background image for -render")
	discover := flag.Bool("discover", false, "List canvases sharing on the local network and exit")
	share := flag.Bool("share", false, "Start the LAN share hub even if the config disables it")
	flag.Parse()

	if *version {
		fmt.Printf("smART version %s\n", Version)
		return 0
	}

	if *doLog {
		log.SetOutput(os.Stdout)
		gg.SetLogger(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})))
	} else {
		log.SetOutput(io.Discard)
	}

	if err := config.EnsureFile(*configPath); err != nil {
		log.Printf("[CONFIG] Could not create %s: %v", *configPath, err)
	}
	cfg, err := config.Load(*configPath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration %s: %v\n", *configPath, err)
		return 1
	}

	if *discover {
		return runDiscover()
	}

	if *renderDoc != "" {
		if *out == "" {
			fmt.Fprintln(os.Stderr, "Usage: smART -render drawing.json -o picture.png|picture.pdf [-backdrop image]")
			return 1
		}
		if err := render(cfg, *renderDoc, *backdropPath, *out); err != nil {
			_, msg := fault.Notice(err)
			fmt.Fprintf(os.Stderr, "%s\n%v\n", msg, err)
			return 1
		}
		return 0
	}

	return runApp(cfg, *configPath, *share)
}

func runApp(cfg config.Config, configPath string, forceShare bool) int {
	var sink export.Sink
	if cfg.Share.Enabled || forceShare {
		hub := sharenet.NewHub(sharenet.HubConfig{
			Addr:      fmt.Sprintf(":%d", cfg.Share.Port),
			Advertise: cfg.Share.Advertise,
		})
		if err := hub.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: sharing disabled: %v\n", err)
		} else {
			defer hub.Close()
			sink = hub
		}
	}

	a, err := ui.New(app.NewWithID("io.github.smart"), cfg, sink)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating canvas: %v\n", err)
		return 1
	}

	watcher, err := config.Watch(configPath, 250*time.Millisecond,
		func(c config.Config) {
			fyne.Do(func() { a.ApplyConfig(c) })
		},
		func(err error) {
			log.Printf("[CONFIG] Keeping previous configuration: %v", err)
		})
	if err != nil {
		log.Printf("[CONFIG] Hot reload disabled: %v", err)
	} else {
		watcher.Start()
		defer watcher.Stop()
	}

	a.ShowAndRun()
	return 0
}

// render draws a saved drawing to a PNG or PDF file.
func render(cfg config.Config, docPath, backdropPath, outPath string) error {
	f, err := os.Open(docPath)
	if err != nil {
		return fault.FromIO("open drawing", err, fault.KindUnknown)
	}
	strokes, err := state.ReadDocument(f)
	f.Close()
	if err != nil {
		return err
	}

	frame := state.Frame{Strokes: strokes}
	if backdropPath != "" {
		img, err := backdrop.Open(backdropPath, cfg.Backdrop.MaxDimension)
		if err != nil {
			return err
		}
		frame.Backdrop = img
	}

	w, h := cfg.Export.Width, cfg.Export.Height
	switch strings.ToLower(filepath.Ext(outPath)) {
	case ".pdf":
		return writePDF(outPath, frame, w, h)
	case ".png":
		art, err := export.Capture(frame, w, h)
		if err != nil {
			return err
		}
		if err := os.WriteFile(outPath, art.Data, 0o644); err != nil {
			return fault.FromIO("save", err, fault.KindExportFailed)
		}
		log.Printf("[EXPORT] Rendered %d strokes to %s", len(strokes), outPath)
		return nil
	default:
		return fault.New(fault.KindExportFailed, "render", errors.New("output must end in .png or .pdf"))
	}
}

func writePDF(path string, frame state.Frame, w, h int) error {
	f, err := os.Create(path)
	if err != nil {
		return fault.FromIO("export pdf", err, fault.KindExportFailed)
	}
	if err := export.WritePDF(f, frame, w, h); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fault.FromIO("export pdf", err, fault.KindExportFailed)
	}
	log.Printf("[EXPORT] Rendered %d strokes to %s", len(frame.Strokes), path)
	return nil
}

func runDiscover() int {
	found := 0
	err := sharenet.Browse(3*time.Second, func(name, addr string) {
		found++
		fmt.Printf("%s\thttp://%s/latest.png\n", name, addr)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Discovery failed: %v\n", err)
		return 1
	}
	if found == 0 {
		fmt.Println("No shared canvases found.")
	}
	return 0
}
