package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var subtitleCmd = &cobra.Command{
	Use:   "subtitle",
	Short: "Prepare subtitle artifacts",
}

var subtitleStripCmd = &cobra.Command{
	Use:   "strip",
	Short: "Write the punctuation-free timeline",
	Long: `Write the display variant of a dialogue's timeline with trailing
sentence punctuation removed from each phrase. This is the document the
video stage renders subtitles from.`,
	RunE: runSubtitleStrip,
}

var subtitleSRTCmd = &cobra.Command{
	Use:   "srt",
	Short: "Render a timeline as an SRT file",
	RunE:  runSubtitleSRT,
}

func init() {
	rootCmd.AddCommand(subtitleCmd)
	subtitleCmd.AddCommand(subtitleStripCmd)
	subtitleCmd.AddCommand(subtitleSRTCmd)

	subtitleStripCmd.Flags().String("id", "", "dialogue id")
	_ = subtitleStripCmd.MarkFlagRequired("id")

	subtitleSRTCmd.Flags().String("id", "", "dialogue id")
	_ = subtitleSRTCmd.MarkFlagRequired("id")
	subtitleSRTCmd.Flags().Float64("cutoff", 0, "drop phrases starting at or after this many seconds (0: keep all)")
}

func runSubtitleStrip(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, _ := cmd.Flags().GetString("id")

	svc, err := newService(ctx, serviceOptions{})
	if err != nil {
		return err
	}

	path, err := svc.StripPunctuation(ctx, id)
	if err != nil {
		return err
	}

	log.Info().Str("file", path).Msg("punctuation-free timeline written")
	return nil
}

func runSubtitleSRT(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, _ := cmd.Flags().GetString("id")
	cutoff, _ := cmd.Flags().GetFloat64("cutoff")

	svc, err := newService(ctx, serviceOptions{})
	if err != nil {
		return err
	}

	srt, err := svc.RenderSRT(ctx, id, cutoff)
	if err != nil {
		return err
	}

	cmd.Println(srt)
	return nil
}
