package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	lessonsvc "lingoreel/internal/service/lesson"
)

var videoCmd = &cobra.Command{
	Use:   "video",
	Short: "Assemble the final vertical video",
	Long: `Assemble a 9:16 video for one dialogue: a random window of background
footage, the stitched dialogue audio, burned-in subtitles and speaker
photo overlays timed to who is talking. Without --audio a random audio
file that has no video yet is picked.`,
	RunE: runVideo,
}

func init() {
	rootCmd.AddCommand(videoCmd)

	flags := videoCmd.Flags()
	flags.String("audio", "", "audio file path (default: random without a video)")
	flags.String("id", "", "dialogue id (alternative to --audio)")
	flags.Bool("test", false, "preview mode: only the first 10 seconds")
	flags.StringP("output", "o", "", "output video path (default: output/background_<id>.mp4)")
}

func runVideo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	test, _ := cmd.Flags().GetBool("test")
	output, _ := cmd.Flags().GetString("output")

	svc, err := newService(ctx, serviceOptions{})
	if err != nil {
		return err
	}

	audio, _ := cmd.Flags().GetString("audio")
	if id, _ := cmd.Flags().GetString("id"); audio == "" && id != "" {
		if audio, err = svc.FindAudio(id); err != nil {
			return err
		}
	}

	path, err := svc.AssembleVideo(ctx, audio, lessonsvc.VideoOptions{
		Test:   test,
		Output: output,
	})
	if err != nil {
		return err
	}

	log.Info().Str("file", path).Msg("video assembled")
	return nil
}
