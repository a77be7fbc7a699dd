package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fenilsonani/dupescan/internal/config"
	"github.com/fenilsonani/dupescan/internal/progress"
	"github.com/fenilsonani/dupescan/internal/reporter"
	"github.com/fenilsonani/dupescan/internal/retention"
	"github.com/fenilsonani/dupescan/internal/scanner"
	"github.com/fenilsonani/dupescan/internal/ui"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath string
	verbose    bool
	workers    int
	minSize    string
	excludes   []string
	dryRun     bool
	force      bool
	keepFlag   string
)

// Each command keeps its own output flag storage: the commands have
// different defaults, and pflag writes the default into the bound
// variable at registration time.
var (
	scanOutput       string
	scanOutputFile   string
	reportOutput     string
	reportOutputFile string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dupescan",
	Short: "Find and remove duplicate files",
	Long: `dupescan recursively scans a directory tree, finds files with identical
content by SHA-256 digest, and reports or removes the duplicate copies.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
}

var scanCmd = &cobra.Command{
	Use:   "scan <path>",
	Short: "Scan a directory tree for duplicate files",
	Long:  `Scans the tree and reports duplicate groups without making any changes.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := runScan(cmd, args[0])
		if err != nil {
			return err
		}
		return writeReport(report, scanOutput, scanOutputFile)
	},
}

var reportCmd = &cobra.Command{
	Use:   "report <path>",
	Short: "Generate a detailed duplicate report",
	Long:  `Scans the tree and writes a full report, optionally to a file.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := runScan(cmd, args[0])
		if err != nil {
			return err
		}
		return writeReport(report, reportOutput, reportOutputFile)
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean <path>",
	Short: "Scan and delete duplicate files",
	Long: `Scans the tree, presents the duplicate report, and after confirmation
removes every group member the retention policy does not keep.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlagOverrides(cmd, cfg)

		keep := cfg.Retention.Keep
		if cmd.Flags().Changed("keep") {
			keep = keepFlag
		}
		policy, err := retention.ForName(keep)
		if err != nil {
			return err
		}

		report, err := scanWithConfig(cmd, cfg, args[0])
		if err != nil {
			return err
		}

		if len(report.Groups) == 0 {
			fmt.Println("✨ No duplicates found. Nothing to clean!")
			return nil
		}

		rptr := reporter.New(os.Stdout, reporter.FormatSummary)
		if err := rptr.Report(report); err != nil {
			return fmt.Errorf("failed to generate report: %w", err)
		}

		if cfg.DryRun {
			fmt.Println("\n[DRY RUN MODE] No files will be deleted.")
		} else if !force {
			fmt.Printf("\nDelete %d duplicate files (%s), keeping the %s copy of each group? (y/N): ",
				report.DuplicateFiles(),
				humanize.IBytes(uint64(report.TotalDuplicateBytes)),
				policy.Name())
			var response string
			fmt.Scanln(&response)
			if !strings.EqualFold(response, "y") {
				fmt.Println("Cleanup cancelled")
				return nil
			}
		}

		outcomes := retention.Apply(report, policy, retention.Options{DryRun: cfg.DryRun})
		removed, freed, failed := retention.Summarize(outcomes)

		verb := "deleted"
		if cfg.DryRun {
			verb = "would delete"
		}
		fmt.Printf("\n📊 Cleanup Complete!\n")
		fmt.Printf("✅ Successfully %s: %d files (%s)\n", verb, removed, humanize.IBytes(uint64(freed)))

		if failed > 0 {
			fmt.Printf("\n⚠️  Failed: %d files\n", failed)
			fmt.Print(retention.FormatErrorSummary(retention.FailedErrors(outcomes)))
		}

		return nil
	},
}

var interactiveCmd = &cobra.Command{
	Use:   "interactive <path>",
	Short: "Scan with a live interactive view",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlagOverrides(cmd, cfg)

		pr := progress.NewProgressReporter()
		engine := scanner.New(cfg)
		engine.SetLogger(buildLogger(cfg))
		engine.SetProgressReporter(pr)

		report, err := ui.RunScan(engine, pr, args[0])
		pr.Close()
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if report == nil {
			return nil
		}

		return reporter.New(os.Stdout, reporter.FormatSummary).Report(report)
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		fmt.Printf("Config file: %s\n", cfgPath)
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			fmt.Println("Config file does not exist. Using default configuration.")
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("\nworkers: %d\n", cfg.EffectiveWorkers())
		fmt.Printf("min_file_size: %s\n", cfg.MinFileSize)
		fmt.Printf("exclude_patterns: %v\n", cfg.ExcludePatterns)
		fmt.Printf("retention.keep: %s\n", cfg.Retention.Keep)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose output")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "number of concurrent hashing workers (0 = one per CPU)")
	rootCmd.PersistentFlags().StringVar(&minSize, "min-size", "", "minimum file size to consider, e.g. 1KB")
	rootCmd.PersistentFlags().StringSliceVarP(&excludes, "exclude", "e", nil, "glob patterns to exclude")

	scanCmd.Flags().StringVar(&scanOutput, "output", "summary", "output format (summary, table, json, yaml)")
	scanCmd.Flags().StringVar(&scanOutputFile, "file", "", "save report to file")

	reportCmd.Flags().StringVar(&reportOutput, "output", "table", "output format (summary, table, json, yaml)")
	reportCmd.Flags().StringVar(&reportOutputFile, "file", "", "save report to file")

	cleanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be deleted without actually deleting")
	cleanCmd.Flags().BoolVar(&force, "force", false, "skip confirmation prompts")
	cleanCmd.Flags().StringVar(&keepFlag, "keep", "", "which copy to keep (first, oldest, newest)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(interactiveCmd)
	rootCmd.AddCommand(configCmd)
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}

	cfgPath, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}

	return config.Load(cfgPath)
}

// applyFlagOverrides lets command-line flags win over the config file
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("min-size") {
		cfg.MinFileSize = minSize
	}
	if len(excludes) > 0 {
		cfg.ExcludePatterns = append(cfg.ExcludePatterns, excludes...)
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.DryRun = dryRun
	}
}

func buildLogger(cfg *config.Config) *zap.Logger {
	if !cfg.Verbose {
		return zap.NewNop()
	}

	logCfg := zap.NewProductionConfig()
	logCfg.EncoderConfig.TimeKey = "timestamp"
	logCfg.OutputPaths = []string{"stderr"}
	logger, err := logCfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func runScan(cmd *cobra.Command, root string) (*scanner.ScanReport, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyFlagOverrides(cmd, cfg)

	return scanWithConfig(cmd, cfg, root)
}

func scanWithConfig(cmd *cobra.Command, cfg *config.Config, root string) (*scanner.ScanReport, error) {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine := scanner.New(cfg)
	engine.SetLogger(buildLogger(cfg))

	pr := progress.NewProgressReporter()
	engine.SetProgressReporter(pr)
	wait := attachProgressBar(pr)

	report, err := engine.Scan(ctx, root)

	pr.Close()
	wait()

	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	return report, nil
}

// attachProgressBar renders scan progress on stderr so machine-readable
// output on stdout stays clean
func attachProgressBar(pr *progress.ProgressReporter) (wait func()) {
	updates := pr.Subscribe()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()

		var bar *progressbar.ProgressBar
		for sp := range updates {
			switch sp.Phase {
			case progress.PhaseHashing:
				if bar == nil {
					bar = progressbar.NewOptions(sp.FilesTotal,
						progressbar.OptionSetDescription("Hashing files..."),
						progressbar.OptionSetWriter(os.Stderr),
						progressbar.OptionShowCount(),
						progressbar.OptionSetWidth(15),
						progressbar.OptionShowElapsedTimeOnFinish(),
					)
				}
				bar.Set(sp.FilesHashed)
			case progress.PhaseComplete:
				if bar != nil {
					bar.Finish()
					fmt.Fprintln(os.Stderr)
				}
			}
		}
	}()

	return wg.Wait
}

func writeReport(report *scanner.ScanReport, formatName, path string) error {
	format, err := reporter.ParseFormat(formatName)
	if err != nil {
		return err
	}

	if path != "" {
		if err := reporter.SaveToFile(report, path, format); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		fmt.Printf("Report saved to: %s\n", path)
		return nil
	}

	return reporter.New(os.Stdout, format).Report(report)
}
