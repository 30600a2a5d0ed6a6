package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	scheduler "github.com/operationspark/meeting-scheduler"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	envFile string
	dryRun  bool
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Schedules a Zoom meeting and invites its attendees",
		Long: `schedule creates a one-off Zoom meeting from environment configuration.

Attendees listed in MEETING_ATTENDEES are registered for the meeting, or sent
calendar invites when MEETING_INVITE_MODE=calendar. The join URL and meeting ID
are appended to $GITHUB_OUTPUT as meeting_url and meeting_id.`,
		SilenceUsage: true,
		Version:      version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchedule(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading the environment (ignored if missing)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "validate the configuration and print the meeting request without calling Zoom")

	cmd.SetVersionTemplate(`{{printf "schedule version %s\n" .Version}}`)
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("schedule version %s\n", version)
		},
	}
}

func runSchedule(ctx context.Context, opts rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Variables already set in the environment win over the file.
	if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", opts.envFile, err)
	}

	cfg, err := scheduler.LoadConfig()
	if err != nil {
		return err
	}

	reportToSentry := cfg.SentryDSN != ""
	if reportToSentry {
		flush, err := scheduler.InitSentry(cfg.SentryDSN, cfg.AppEnv)
		if err != nil {
			return err
		}
		defer flush()
	}
	logger := scheduler.NewLogger(os.Stderr, cfg.LogLevel, reportToSentry)

	s, err := scheduler.NewScheduler(cfg, scheduler.Options{Logger: logger})
	if err != nil {
		return err
	}

	if opts.dryRun {
		req, _, _, err := s.Plan()
		if err != nil {
			return err
		}
		e := json.NewEncoder(os.Stdout)
		e.SetIndent("", "  ")
		return e.Encode(req)
	}

	result, err := s.Schedule(ctx)
	if err != nil {
		scheduler.CaptureError(err)
		return err
	}

	if err := scheduler.EmitResult(cfg.OutputPath, result); err != nil {
		return err
	}

	s.Notify(ctx, result)
	return nil
}
