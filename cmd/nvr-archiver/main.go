package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"nvr-archiver/internal/archive"
	"nvr-archiver/internal/cli"
	"nvr-archiver/internal/config"
	"nvr-archiver/internal/device"
	"nvr-archiver/internal/domain"
	"nvr-archiver/internal/hikvision"
	"nvr-archiver/internal/metrics"
	"nvr-archiver/internal/retry"
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()

	program := filepath.Base(os.Args[0])
	if len(os.Args) == 1 {
		cli.Usage(program, os.Stdout)
		return 0
	}

	args, err := cli.Parse(program, os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	config.SetupLogger(cfg)

	if !cfg.HasCredentials() {
		fmt.Fprintln(os.Stderr, "Error: device credentials not provided.")
		fmt.Fprintln(os.Stderr, "Set the HIK_USERNAME and HIK_PASSWORD environment variables.")
		return 1
	}

	if cfg.MetricsAddr != "" {
		metrics.Serve(cfg.MetricsAddr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := hikvision.New(args.NVRAddr, cfg.Username, cfg.Password, cfg.HTTPTimeout)

	slog.Info("connecting to NVR", "addr", args.NVRAddr)
	if err := client.Authenticate(ctx); err != nil {
		if errors.Is(err, device.ErrUnauthorized) {
			fmt.Fprintln(os.Stderr, "Unauthorised! Check login and password.")
			return 1
		}
		return fail(ctx, err)
	}

	var offset time.Duration
	if !args.UseUTC {
		offset, err = client.TimeOffset(ctx)
		if err != nil {
			return fail(ctx, err)
		}
		slog.Info("using device local time", "offset", offset)
	}

	window, err := domain.ParseWindow(
		args.StartDate+" "+args.StartTime,
		args.EndDate+" "+args.EndTime,
		offset,
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}

	contentType := domain.Video
	if args.Photo {
		contentType = domain.Photo
	}

	orchestrator := archive.NewOrchestrator(client, archive.Options{
		NVRID:         args.NVRAddr,
		ArchiveDir:    cfg.ArchiveDir,
		PageSize:      cfg.PageSize,
		MaxConcurrent: args.Concurrent,
		ScanCeiling:   args.MaxChannel,
		FileDelay:     cfg.FileDelay,
		RetryPolicy:   retry.Policy{MaxAttempts: cfg.MaxRetries, Delay: cfg.RetryDelay},
	})

	results, err := orchestrator.Run(ctx, window.ToUTC(), contentType, args.Channels)
	if err != nil {
		return fail(ctx, err)
	}
	if ctx.Err() != nil {
		fmt.Fprintln(os.Stderr, "\nDownload interrupted by user.")
		return 1
	}

	archive.WriteSummary(os.Stdout, args.NVRAddr, results)
	return 0
}

func fail(ctx context.Context, err error) int {
	if ctx.Err() != nil {
		fmt.Fprintln(os.Stderr, "\nDownload interrupted by user.")
		return 1
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	return 1
}
