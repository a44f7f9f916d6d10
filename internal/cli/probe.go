package cli

import (
	"context"
	"fmt"

	"github.com/miyakawa-h/jimaku/internal/subtitle"
	"github.com/miyakawa-h/jimaku/internal/video"
	"github.com/spf13/cobra"
)

var probeCmd = &cobra.Command{
	Use:   "probe [video_file]",
	Short: "Show the video metadata used for subtitle layout",
	Long: `Probe a video file and print the metadata subtitle generation works
from: resolution, frame rate, duration, orientation and the automatic
font size and wrap width derived from them.`,
	Args: cobra.ExactArgs(1),
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, args []string) error {
	meta := video.Probe(context.Background(), args[0], logger)

	orientation := "horizontal"
	if meta.Vertical() {
		orientation = "vertical"
	}
	fontSize := subtitle.AutoFontSize(meta.Width, 0)

	fmt.Printf("Resolution:   %dx%d (%s)\n", meta.Width, meta.Height, orientation)
	fmt.Printf("Frame rate:   %.3f fps\n", meta.FrameRate)
	fmt.Printf("Duration:     %.2f s\n", meta.Duration)
	fmt.Printf("Auto font:    %d\n", fontSize)
	fmt.Printf("Wrap width:   %d chars\n", subtitle.WrapWidth(meta.Width, fontSize))
	return nil
}
