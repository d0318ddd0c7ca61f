package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fjell-hpc/jobrecap/internal/config"
	"github.com/fjell-hpc/jobrecap/pkg/jobs"
	"github.com/fjell-hpc/jobrecap/pkg/watermark"
)

var watermarkTo string

var watermarkCmd = &cobra.Command{
	Use:   "watermark",
	Short: "Inspect or reset the last-session watermark",
}

var watermarkShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the persisted watermark",
	Args:  cobra.NoArgs,
	RunE:  runWatermarkShow,
}

var watermarkResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Overwrite the watermark (defaults to now)",
	Long: `Overwrite the persisted watermark.

With --to, the watermark is set to the given timestamp; otherwise the
current time is used. The next plain jobrecap run will report jobs
finished after the new watermark.`,
	Args: cobra.NoArgs,
	RunE: runWatermarkReset,
}

func init() {
	rootCmd.AddCommand(watermarkCmd)
	watermarkCmd.AddCommand(watermarkShowCmd)
	watermarkCmd.AddCommand(watermarkResetCmd)

	watermarkResetCmd.Flags().StringVar(&watermarkTo, "to", "", "Timestamp to set (YYYY-MM-DDTHH:MM:SS)")
}

func runWatermarkShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return exitError(exitInvalidArgument, "Failed to load configuration", err)
	}

	store := watermark.New(watermark.Config{Path: cfg.State.WatermarkFile})
	t, err := store.Read()
	if err != nil {
		if errors.Is(err, watermark.ErrNoWatermark) {
			fmt.Println("no watermark recorded")
			return nil
		}
		return exitError(exitStateFile, "Failed to read watermark", err)
	}

	fmt.Println(t.Format(watermark.Layout))
	return nil
}

func runWatermarkReset(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return exitError(exitInvalidArgument, "Failed to load configuration", err)
	}

	t := time.Now()
	if watermarkTo != "" {
		t, err = time.ParseInLocation(jobs.TimestampLayout, watermarkTo, time.Local)
		if err != nil {
			return exitError(exitInvalidArgument, "Invalid --to value", fmt.Errorf("expected %s", jobs.TimestampLayout))
		}
	}

	store := watermark.New(watermark.Config{Path: cfg.State.WatermarkFile})
	if err := store.Save(t); err != nil {
		return exitError(exitStateFile, "Failed to write watermark", err)
	}

	fmt.Println(t.Format(watermark.Layout))
	return nil
}
