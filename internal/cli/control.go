package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tessro/gong/internal/client"
	"github.com/tessro/gong/internal/core"
	gongerrors "github.com/tessro/gong/internal/errors"
)

var playCmd = &cobra.Command{
	Use:     "play",
	Aliases: []string{"resume"},
	Short:   "Start or resume playback",
	Args:    cobra.NoArgs,
	RunE:    runPlay,
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop playback",
	Args:  cobra.NoArgs,
	RunE:  runStop,
}

var (
	volumeUp   bool
	volumeDown bool
)

var volumeCmd = &cobra.Command{
	Use:   "volume [level]",
	Short: "Set or adjust volume",
	Long: `Set the gong volume (0-30) or adjust it up/down.

Values outside 0-30 are clamped by the gong.

Examples:
  gong volume 20      # Set volume to 20
  gong volume --up    # Increase volume by 3
  gong volume --down  # Decrease volume by 3`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVolume,
}

var trackCmd = &cobra.Command{
	Use:   "track <number>",
	Short: "Play a track from the SD card",
	Long: `Play track <number> from the DFPlayer SD card. Track numbers start at 1
and follow the order files were copied to the card (0001.mp3, 0002.mp3, ...).`,
	Args: cobra.ExactArgs(1),
	RunE: runTrack,
}

const volumeStep = 3

func init() {
	volumeCmd.Flags().BoolVar(&volumeUp, "up", false, "Increase volume by 3")
	volumeCmd.Flags().BoolVar(&volumeDown, "down", false, "Decrease volume by 3")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(volumeCmd)
	rootCmd.AddCommand(trackCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	resp, err := newClient().Play(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to play: %w", err)
	}
	return printAudio(resp, "▶ Playing")
}

func runStop(cmd *cobra.Command, args []string) error {
	resp, err := newClient().Stop(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to stop: %w", err)
	}
	return printAudio(resp, "■ Stopped")
}

func runVolume(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	c := newClient()

	level, err := targetVolume(ctx, c, args)
	if err != nil {
		return err
	}

	resp, err := c.Volume(ctx, level)
	if err != nil {
		return fmt.Errorf("failed to set volume: %w", err)
	}
	set := level
	if resp.Volume != nil {
		set = *resp.Volume
	}
	return printAudio(resp, "🔊 Volume "+FormatVolume(set))
}

// targetVolume works out the level for a volume command: an explicit
// argument, or the current level stepped up or down.
func targetVolume(ctx context.Context, c *client.Client, args []string) (int, error) {
	if len(args) == 1 {
		if volumeUp || volumeDown {
			return 0, fmt.Errorf("give a level or --up/--down, not both")
		}
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", gongerrors.ErrVolumeRequired, args[0])
		}
		return v, nil
	}

	if volumeUp == volumeDown {
		return 0, fmt.Errorf("%w: give a level (0-30), --up or --down", gongerrors.ErrVolumeRequired)
	}

	status, err := c.Status(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read current volume: %w", err)
	}
	return stepVolume(status.Audio.Volume, volumeUp), nil
}

func stepVolume(current int, up bool) int {
	if up {
		return core.ClampVolume(current + volumeStep)
	}
	return core.ClampVolume(current - volumeStep)
}

func runTrack(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return fmt.Errorf("%w: %q", gongerrors.ErrInvalidTrack, args[0])
	}

	resp, err := newClient().Track(cmd.Context(), n)
	if err != nil {
		return fmt.Errorf("failed to play track: %w", err)
	}
	return printAudio(resp, fmt.Sprintf("🎵 Playing track %d", n))
}

func printAudio(resp *client.AudioResponse, text string) error {
	if JSONOutput() {
		return printJSON(resp)
	}
	fmt.Println(text)
	return nil
}
