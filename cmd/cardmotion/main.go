package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ivlev/cardmotion/internal/config"
	"github.com/ivlev/cardmotion/internal/system"
)

var (
	Version = "dev"

	opts struct {
		configPath string
		document   string
		logLevel   string
	}

	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "cardmotion",
	Short: "Keyframe timeline engine for 3D card animations",
	Long: `cardmotion edits, plays and exports keyframe timelines for animated 3D cards.

Timelines are YAML documents. Without --document the most recent document in
the configured document directory is used.`,
	Version:           Version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"YAML config file")
	rootCmd.PersistentFlags().StringVarP(&opts.document, "document", "d", "",
		"Timeline document (default: latest in the document directory)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "",
		"Log level: debug, info, warn, error")

	rootCmd.AddCommand(newCmd(), evalCmd(), playCmd(), exportCmd(), previewCmd(), presetCmd(), keyCmd(), serveCmd())
}

// configFlags are command flags bound to cfg fields. When set explicitly
// they win over the config file.
var configFlags = map[string]func(dst, src *config.Config){
	"rate":    func(dst, src *config.Config) { dst.SampleRate = src.SampleRate },
	"workers": func(dst, src *config.Config) { dst.Workers = src.Workers },
	"output":  func(dst, src *config.Config) { dst.OutputPath = src.OutputPath },
	"stats":   func(dst, src *config.Config) { dst.ShowStats = src.ShowStats },
	"width":   func(dst, src *config.Config) { dst.PreviewWidth = src.PreviewWidth },
	"height":  func(dst, src *config.Config) { dst.PreviewHeight = src.PreviewHeight },
	"for":     func(dst, src *config.Config) { dst.PlayFor = src.PlayFor },
	"zoom":    func(dst, src *config.Config) { dst.Zoom = src.Zoom },

	"pixels-per-second": func(dst, src *config.Config) { dst.PixelsPerSec = src.PixelsPerSec },
}

// setup loads the config file and installs the logger before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	for name, copyField := range configFlags {
		if cmd.Flags().Changed(name) {
			copyField(loaded, cfg)
		}
	}
	cfg = loaded
	cfg.BuildVersion = Version
	if opts.document != "" {
		cfg.DocumentPath = opts.document
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level %q", cfg.LogLevel)
	}
	system.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "[-]", err)
		os.Exit(1)
	}
}
