package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show pipeline progress per dialogue",
	Long: `Print one row per dialogue showing which artifacts exist: audio,
timeline (and how far it was refined) and the final video.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	svc, err := newService(cmd.Context(), serviceOptions{})
	if err != nil {
		return err
	}

	statuses, err := svc.Statuses()
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"ID", "Topic Word", "Audio", "Timeline", "Video"})
	for _, s := range statuses {
		t.AppendRow(table.Row{s.ID, s.TopicWord, mark(s.HasAudio), s.Timeline, mark(s.HasVideo)})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
	return nil
}

func mark(ok bool) string {
	if ok {
		return "yes"
	}
	return "-"
}
