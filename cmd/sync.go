package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dhelbig/rexsync/pkg/buildinfo"
	"github.com/dhelbig/rexsync/pkg/config"
	"github.com/dhelbig/rexsync/pkg/filesync"
	"github.com/dhelbig/rexsync/pkg/plog"
	"github.com/dhelbig/rexsync/pkg/preflight"
	"github.com/dhelbig/rexsync/pkg/report"
	"github.com/dhelbig/rexsync/pkg/util"
)

// NewSyncCommand creates the sync subcommand, the main operation of the tool.
func NewSyncCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one synchronization pass from source to target",
		Example: `  rexsync sync --source ./photos --target /mnt/backup/photos --patterns '.*\.(jpg|raw)'
  rexsync sync --dry-run
  rexsync sync --patterns '\.log$;\.txt$' --workers 8 --max-retries 5`,
		Args: cobra.NoArgs,
		RunE: runSync,
	}

	cmd.Flags().String("source", "", "Source directory to copy from")
	cmd.Flags().String("target", "", "Destination directory to copy into")
	cmd.Flags().String("patterns", "", "Semicolon-separated regular expressions matched against file base names")
	cmd.Flags().Int("workers", 0, "Number of concurrent file copies (0 = one per CPU)")
	cmd.Flags().Int("max-retries", 0, "Re-attempts after a failed copy, with exponential backoff")
	cmd.Flags().Bool("dry-run", false, "Report what would be done without writing any file")
	cmd.Flags().String("report", "", "Write a JSON report of the run to this path (.gz compresses)")

	return cmd
}

func runSync(cmd *cobra.Command, _ []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	applyLogging(cfg.Logging)

	// Advisory preflight. Estimating the source also proves it exists, so
	// the destination is never touched for a bogus source.
	if size, err := preflight.EstimateTreeSize(cfg.Sync.Source); err == nil {
		if err := preflight.CheckTargetWritable(cfg.Sync.Target); err != nil {
			return err
		}
		if err := preflight.CheckFreeSpace(cfg.Sync.Target, size); err != nil {
			if errors.Is(err, preflight.ErrLowSpace) {
				plog.Warn("Low disk space on destination", "detail", err.Error())
			} else {
				plog.Debug("Free space check unavailable", "error", err)
			}
		}
	}

	s := filesync.New(cfg.Performance.Workers)
	opts := []filesync.Option{
		filesync.WithMaxRetries(cfg.Sync.MaxRetries),
		filesync.WithDryRun(cfg.Sync.DryRun),
	}
	if !plog.IsQuiet() {
		opts = append(opts, filesync.WithProgress(renderProgress))
	}

	start := time.Now()
	res, err := s.Sync(cmd.Context(), cfg.Sync.Source, cfg.Sync.Target, cfg.Sync.Patterns, opts...)
	if err != nil {
		return err
	}

	renderSummary(res)

	if !util.IsBlank(cfg.Report.Path) {
		rep := report.New(buildinfo.Name, buildinfo.Version)
		rep.Source = cfg.Sync.Source
		rep.Target = cfg.Sync.Target
		rep.Patterns = cfg.Sync.Patterns
		rep.Workers = s.MaxConcurrency()
		rep.MaxRetries = cfg.Sync.MaxRetries
		rep.Result = res
		rep.Finalize(start, time.Now())
		if err := report.Write(cfg.Report.Path, rep); err != nil {
			plog.Warn("Failed to write run report", "path", cfg.Report.Path, "error", err)
		} else {
			plog.Info("Run report written", "path", cfg.Report.Path, "runId", rep.RunID)
		}
	}

	if !res.IsSuccess() {
		return fmt.Errorf("synchronization completed with %d failed file(s)", res.Failed)
	}
	return nil
}

// loadRunConfig merges command-line flags over the configuration file.
// A flag that was explicitly set wins even when it carries the zero value.
func loadRunConfig(cmd *cobra.Command) (config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Sync.Source, _ = flags.GetString("source")
	}
	if flags.Changed("target") {
		cfg.Sync.Target, _ = flags.GetString("target")
	}
	if flags.Changed("patterns") {
		cfg.Sync.Patterns, _ = flags.GetString("patterns")
	}
	if flags.Changed("workers") {
		cfg.Performance.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("max-retries") {
		cfg.Sync.MaxRetries, _ = flags.GetInt("max-retries")
	}
	if flags.Changed("dry-run") {
		cfg.Sync.DryRun, _ = flags.GetBool("dry-run")
	}
	if flags.Changed("report") {
		cfg.Report.Path, _ = flags.GetString("report")
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level, _ = flags.GetString("log-level")
	}
	if flags.Changed("quiet") {
		cfg.Logging.Quiet, _ = flags.GetBool("quiet")
	}
	return cfg, nil
}

func applyLogging(lc config.LoggingConfig) {
	if !util.IsBlank(lc.Level) {
		if level, err := plog.ParseLevel(lc.Level); err == nil {
			plog.SetLevel(level)
		}
	}
	plog.SetQuiet(lc.Quiet)
}

var (
	createdColor = color.New(color.FgGreen)
	updatedColor = color.New(color.FgCyan)
	failedColor  = color.New(color.FgRed)
	runColor     = color.New(color.Bold)
)

// renderProgress prints one line per progress event, colored by what
// happened to the file.
func renderProgress(p filesync.Progress) {
	label := strings.TrimPrefix(p.Operation, "[DRY RUN] ")
	switch {
	case strings.HasPrefix(label, "Created") || strings.HasPrefix(label, "Would Create"):
		createdColor.Println(p.String())
	case strings.HasPrefix(label, "Updated") || strings.HasPrefix(label, "Would Update"):
		updatedColor.Println(p.String())
	case strings.HasPrefix(label, "Failed"):
		failedColor.Println(p.String())
	case strings.HasPrefix(label, "Starting") || strings.HasPrefix(label, "Synchronization"):
		runColor.Println(p.String())
	default:
		fmt.Println(p.String())
	}
}

func renderSummary(res *filesync.Result) {
	if plog.IsQuiet() {
		return
	}
	if res.IsSuccess() {
		createdColor.Println(res.String())
	} else {
		failedColor.Println(res.String())
		for _, e := range res.Errors {
			failedColor.Printf("  %s\n", e)
		}
	}
}
