package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch for new dialogues and process them",
	Long: `Watch the dialogues directory and run audio synthesis, timeline
building, subtitle preparation and video assembly for every new dialogue
document that appears. Runs until interrupted.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := newService(ctx, serviceOptions{speech: true, transcribe: true})
	if err != nil {
		return err
	}

	log.Info().Str("dir", cfg.App.DialoguesDir()).Msg("watching for dialogues")
	if err := svc.Watch(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	if ctx.Err() == context.Canceled {
		log.Info().Msg("watch stopped")
	}
	return nil
}
