package main

import (
	"context"
	"fmt"
	"image/png"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivlev/cardmotion/internal/document"
	"github.com/ivlev/cardmotion/internal/editor"
	"github.com/ivlev/cardmotion/internal/effects"
	"github.com/ivlev/cardmotion/internal/engine"
	"github.com/ivlev/cardmotion/internal/renderer"
	"github.com/ivlev/cardmotion/internal/system"
	"github.com/ivlev/cardmotion/internal/timeline"
)

func newCmd() *cobra.Command {
	var (
		duration float64
		presets  []string
		loop     bool
	)
	cmd := &cobra.Command{
		Use:   "new [path]",
		Short: "Create a timeline document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if duration <= 0 {
				duration = cfg.Duration
			}
			tl := timeline.New(duration)
			tl.FrameRate = cfg.FrameRate
			tl.Loop = loop || cfg.Loop

			ed := editor.New(tl)
			for _, name := range presets {
				p, err := effects.NewPreset(name)
				if err != nil {
					return err
				}
				if _, err := effects.Apply(ed, tl.Tracks[0].ID, p, effects.Options{}); err != nil {
					return err
				}
				fmt.Printf("[*] Preset applied: %s\n", name)
			}

			path := cfg.DocumentPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				path = document.GeneratePath(cfg.DocumentDir)
			}
			if err := document.Write(tl, path); err != nil {
				return err
			}
			fmt.Printf("[+] Timeline created: %s (%.2fs)\n", path, tl.Duration)
			return nil
		},
	}
	cmd.Flags().Float64Var(&duration, "duration", 0, "Timeline length in seconds")
	cmd.Flags().StringSliceVar(&presets, "preset", nil, "Built-in presets to apply to the first track")
	cmd.Flags().BoolVar(&loop, "loop", false, "Loop playback")
	return cmd
}

func evalCmd() *cobra.Command {
	var at float64
	cmd := &cobra.Command{
		Use:   "eval",
		Short: "Print every visible property at a time",
		RunE: func(cmd *cobra.Command, args []string) error {
			tl, _, err := loadTimeline()
			if err != nil {
				return err
			}
			printFrame(renderer.Snapshot(tl, tl.ClampTime(at)))
			return nil
		},
	}
	cmd.Flags().Float64VarP(&at, "time", "t", 0, "Time in seconds")
	return cmd
}

func printFrame(fr renderer.Frame) {
	fmt.Printf("[*] t=%.3fs\n", fr.Time)
	for _, s := range fr.Values {
		fmt.Printf("    %s/%s = %s\n", s.Track, s.Property, s.Value)
	}
}

func playCmd() *cobra.Command {
	var (
		from float64
		fps  float64
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the timeline in real time, printing frames",
		RunE: func(cmd *cobra.Command, args []string) error {
			tl, _, err := loadTimeline()
			if err != nil {
				return err
			}
			if cfg.Loop {
				tl.Loop = true
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if cfg.PlayFor > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, cfg.PlayFor)
				defer cancel()
			}
			ctx, finish := context.WithCancel(ctx)
			defer finish()

			consumer, start := playbackPrinter(tl, os.Stdout, finish)
			player := engine.NewPlayer(tl, engine.WithMaxTick(cfg.MaxTick), engine.WithConsumer(consumer))
			loop := engine.NewLoop(player, fps)
			done := make(chan error, 1)
			go func() { done <- loop.Run(ctx) }()

			if err := loop.Do(ctx, func() {
				player.Seek(from)
				player.Play()
				start()
			}); err != nil {
				return err
			}
			<-ctx.Done()
			err = <-done
			fmt.Println()
			fmt.Printf("[+] Playback finished at %.2fs\n", tl.CurrentTime)
			return err
		},
	}
	cmd.Flags().Float64Var(&from, "from", 0, "Start time in seconds")
	cmd.Flags().Float64Var(&fps, "fps", 30, "Frames printed per second")
	cmd.Flags().DurationVar(&cfg.PlayFor, "for", 0, "Stop after this long (0 plays to the end)")
	return cmd
}

// playbackPrinter prints each frame on one line and calls finish once a
// started, non-looping playback reaches the end. Frames emitted before start
// is called, such as the initial seek, never finish playback. Both the
// consumer and start run on the loop goroutine.
func playbackPrinter(tl *timeline.Timeline, w io.Writer, finish func()) (renderer.Consumer, func()) {
	started := false
	consumer := renderer.ConsumerFunc(func(fr renderer.Frame) {
		parts := make([]string, len(fr.Values))
		for i, s := range fr.Values {
			parts[i] = fmt.Sprintf("%s=%s", s.Property, s.Value)
		}
		fmt.Fprintf(w, "\r[*] %6.2fs %s", fr.Time, strings.Join(parts, " "))
		if started && !tl.Loop && fr.Time >= tl.Duration {
			finish()
		}
	})
	return consumer, func() { started = true }
}

func exportCmd() *cobra.Command {
	var (
		start, end    float64
		includeHidden bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Sample a time range to a YAML table",
		RunE: func(cmd *cobra.Command, args []string) error {
			tl, path, err := loadTimeline()
			if err != nil {
				return err
			}
			if cfg.OutputPath == "" {
				base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				cfg.OutputPath = filepath.Join("output", fmt.Sprintf("%s_samples_%s.yaml", base, time.Now().Format("2006-01-02_15-04-05")))
			}

			params := cfg.Export(start, end, tl.Duration)
			params.IncludeHidden = includeHidden
			fmt.Printf("[*] Range: %.2fs-%.2fs @ %.1f samples/s | Workers: %d\n", params.Start, params.End, params.Rate, params.Workers)

			job := &engine.ExportJob{Config: cfg, Timeline: tl, Params: params, Source: path}
			sampling, err := job.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("[+] Exported %d samples x %d channels: %s\n", len(sampling.Times), len(sampling.Channels), cfg.OutputPath)
			return nil
		},
	}
	cmd.Flags().Float64Var(&start, "start", 0, "Range start in seconds")
	cmd.Flags().Float64Var(&end, "end", 0, "Range end in seconds (0 = timeline end)")
	cmd.Flags().Float64Var(&cfg.SampleRate, "rate", cfg.SampleRate, "Samples per second")
	cmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "Tracks evaluated in parallel")
	cmd.Flags().StringVarP(&cfg.OutputPath, "output", "o", "", "Output file")
	cmd.Flags().BoolVar(&cfg.ShowStats, "stats", false, "Print a performance report and append it to benchmark.log")
	cmd.Flags().BoolVar(&includeHidden, "include-hidden", false, "Also sample invisible tracks")
	return cmd
}

func previewCmd() *cobra.Command {
	var (
		prop      string
		component int
		output    string
	)
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a property's value curve to PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			tl, _, err := loadTimeline()
			if err != nil {
				return err
			}
			p, _, err := findProperty(tl, prop)
			if err != nil {
				return err
			}

			o := renderer.DefaultCurveOptions(tl.Duration)
			o.Width, o.Height = cfg.PreviewWidth, cfg.PreviewHeight
			o.Component = component
			img, err := renderer.RenderCurve(p, o)
			if err != nil {
				return err
			}
			defer system.PutImage(img)

			if output == "" {
				output = fmt.Sprintf("%s.png", strings.ReplaceAll(p.Name, " ", "_"))
			}
			if err := system.EnsureDir(output); err != nil {
				return err
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			if err := png.Encode(f, img); err != nil {
				return fmt.Errorf("encode preview: %w", err)
			}
			fmt.Printf("[+] Curve preview: %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&prop, "property", "p", "", "Property as track/name or name")
	cmd.Flags().IntVar(&component, "component", 0, "Vector component to draw")
	cmd.Flags().StringVarP(&output, "output", "o", "", "PNG file")
	cmd.Flags().IntVar(&cfg.PreviewWidth, "width", cfg.PreviewWidth, "Image width")
	cmd.Flags().IntVar(&cfg.PreviewHeight, "height", cfg.PreviewHeight, "Image height")
	cmd.MarkFlagRequired("property")
	return cmd
}

func presetCmd() *cobra.Command {
	var packPath string
	registry := func() (*effects.Registry, error) {
		r := effects.NewRegistry()
		if packPath != "" {
			n, err := r.LoadFile(packPath)
			if err != nil {
				return nil, err
			}
			fmt.Printf("[*] Loaded %d presets from %s\n", n, packPath)
		}
		return r, nil
	}

	cmd := &cobra.Command{
		Use:   "preset",
		Short: "List or apply animation presets",
	}
	cmd.PersistentFlags().StringVar(&packPath, "pack", "", "YAML preset pack")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := registry()
			if err != nil {
				return err
			}
			for _, name := range r.Names() {
				p, _ := r.Get(name)
				fmt.Printf("    %-12s %5.2fs  %s\n", name, p.Duration(), p.Description())
			}
			return nil
		},
	})

	var (
		track  string
		offset float64
		length float64
	)
	apply := &cobra.Command{
		Use:   "apply NAME",
		Short: "Apply a preset to a track and save the document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := registry()
			if err != nil {
				return err
			}
			p, err := r.Get(args[0])
			if err != nil {
				return err
			}
			tl, path, err := loadTimeline()
			if err != nil {
				return err
			}
			t, err := findTrack(tl, track)
			if err != nil {
				return err
			}
			ids, err := effects.Apply(editor.New(tl), t.ID, p, effects.Options{Offset: offset, Duration: length})
			if err != nil {
				return err
			}
			if err := document.Write(tl, path); err != nil {
				return err
			}
			fmt.Printf("[+] %s applied to %s: %d keyframes\n", p.Name(), t.Name, len(ids))
			return nil
		},
	}
	apply.Flags().StringVar(&track, "track", "", "Track name (default: first track)")
	apply.Flags().Float64Var(&offset, "at", 0, "Timeline time of the preset start")
	apply.Flags().Float64Var(&length, "length", 0, "Stretch the preset to this many seconds")
	cmd.AddCommand(apply)
	return cmd
}
