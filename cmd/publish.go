package cmd

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var publishCmd = &cobra.Command{
	Use:   "publish [video]",
	Short: "Upload finished videos to the configured storage",
	Long: `Upload one finished video, or with --all every video under the output
directory, to the configured storage backend and print the resulting
URLs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().Bool("all", false, "publish every video in the output directory")
}

func runPublish(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	all, _ := cmd.Flags().GetBool("all")

	svc, err := newService(ctx, serviceOptions{publish: true})
	if err != nil {
		return err
	}

	if all {
		urls, err := svc.PublishAll(ctx)
		if err != nil {
			return err
		}
		for _, url := range urls {
			cmd.Println(url)
		}
		log.Info().Int("videos", len(urls)).Msg("publish finished")
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("a video path or --all is required")
	}
	url, err := svc.PublishVideo(ctx, args[0])
	if err != nil {
		return err
	}
	cmd.Println(url)
	return nil
}
