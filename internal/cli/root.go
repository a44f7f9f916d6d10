package cli

import (
	"github.com/miyakawa-h/jimaku/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	logger  *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "jimaku",
	Short: "AI-powered subtitle generator and burner for videos",
	Long: `Jimaku generates subtitles for video files using AI transcription,
translates them with a provider fallback chain, and can burn the result
directly into the video.

Supported output formats are SRT, ASS, and FCPXML.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output directory or file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Target language code (e.g., en, ja, fr)")
}
