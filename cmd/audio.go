package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var audioCmd = &cobra.Command{
	Use:   "audio",
	Short: "Synthesize and manage dialogue audio",
}

var audioSynthCmd = &cobra.Command{
	Use:   "synth",
	Short: "Synthesize the audio track for a dialogue",
	Long: `Synthesize the stitched audio track for one dialogue: each line is split
into language segments, every segment goes through text-to-speech with the
speaker's voice, and the clips are concatenated with the configured pauses.
Without --id the oldest dialogue with no audio yet is picked.`,
	RunE: runAudioSynth,
}

var audioRenameCmd = &cobra.Command{
	Use:   "rename",
	Short: "Rename audio files to include their topic word",
	Long: `Rename audio artifacts from the bare dialogue_<id> stem to
<topic_word>_<id>, looking the topic word up in the dialogue documents.
Files whose dialogue cannot be found are left alone.`,
	RunE: runAudioRename,
}

func init() {
	rootCmd.AddCommand(audioCmd)
	audioCmd.AddCommand(audioSynthCmd)
	audioCmd.AddCommand(audioRenameCmd)

	audioSynthCmd.Flags().String("id", "", "dialogue id (default: oldest unsynthesized)")
}

func runAudioSynth(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, _ := cmd.Flags().GetString("id")

	svc, err := newService(ctx, serviceOptions{speech: true})
	if err != nil {
		return err
	}

	path, err := svc.SynthesizeDialogue(ctx, id)
	if err != nil {
		return err
	}

	log.Info().Str("file", path).Msg("audio synthesized")
	return nil
}

func runAudioRename(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	svc, err := newService(ctx, serviceOptions{})
	if err != nil {
		return err
	}

	renamed, err := svc.RenameAudio(ctx)
	if err != nil {
		return err
	}

	log.Info().Int("renamed", renamed).Msg("audio files renamed")
	return nil
}
