package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ivlev/cardmotion/internal/document"
	"github.com/ivlev/cardmotion/internal/engine"
	"github.com/ivlev/cardmotion/internal/server"
)

func serveCmd() *cobra.Command {
	var (
		addr string
		fps  float64
		save bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve live frames and playback control over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			tl, path, err := loadTimeline()
			if err != nil {
				return err
			}
			if cfg.Loop {
				tl.Loop = true
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			player := engine.NewPlayer(tl, engine.WithMaxTick(cfg.MaxTick))
			loop := engine.NewLoop(player, fps)
			loopCtx, stopLoop := context.WithCancel(context.Background())
			loopDone := make(chan error, 1)
			go func() { loopDone <- loop.Run(loopCtx) }()

			fmt.Printf("[*] Serving %s on http://localhost%s\n", path, addr)
			srvErr := server.New(loop, player).ListenAndServe(ctx, addr)

			stopLoop()
			<-loopDone
			if srvErr != nil {
				return srvErr
			}
			if save {
				if err := document.Write(tl, path); err != nil {
					return err
				}
				fmt.Printf("[+] Saved %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8088", "Listen address")
	cmd.Flags().Float64Var(&fps, "fps", 60, "Playback tick rate")
	cmd.Flags().BoolVar(&save, "save", false, "Write edits back to the document on exit")
	return cmd
}
