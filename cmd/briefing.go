package cmd

import (
	"fmt"
	"os"

	"github.com/pders01/omnivault/internal/assistant"
	"github.com/pders01/omnivault/internal/audio"
	"github.com/spf13/cobra"
)

var briefingOut string

var briefingCmd = &cobra.Command{
	Use:   "briefing",
	Short: "Record a spoken briefing of your latest notes",
	Long: `Synthesize a short two-voice audio briefing covering the three most
recently saved notes and write it as a WAV file.

Example:
  omnivault briefing --out briefing.wav`,
	RunE: runBriefing,
}

func init() {
	rootCmd.AddCommand(briefingCmd)

	briefingCmd.Flags().StringVarP(&briefingOut, "out", "o", "briefing.wav", "Output WAV file")
}

func runBriefing(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	a, err := openVault(ctx, openOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	capability, err := a.requireAI()
	if err != nil {
		return err
	}

	fmt.Println("Synthesizing briefing...")
	wav, err := assistant.NewStudio(capability, a.store).Briefing(ctx)
	if err != nil {
		return err
	}

	if err := os.WriteFile(briefingOut, wav, 0644); err != nil {
		return fmt.Errorf("failed to write briefing: %w", err)
	}
	seconds := audio.Duration(wav[min(len(wav), 44):], audio.DefaultSampleRate)
	fmt.Printf("✓ Wrote %s (%.1fs)\n", briefingOut, seconds)
	return nil
}
