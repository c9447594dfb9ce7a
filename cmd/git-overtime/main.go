package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/username/git-overtime-tracker/internal/config"
	"github.com/username/git-overtime-tracker/internal/gitlog"
	"github.com/username/git-overtime-tracker/internal/overtime"
	"github.com/username/git-overtime-tracker/internal/report"
	"github.com/username/git-overtime-tracker/internal/store"
)

var (
	configPath string
	logger     *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "git-overtime",
		Short: "Overtime reports from git history",
		Long:  "Classify git commits against configured working hours and report per-commit and per-day overtime",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg, err := config.Load(configPath)
			if err == nil && cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger() // Fallback to console
				}
			} else {
				initLogger() // Default console logger
			}
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path")

	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(byDayCmd())
	rootCmd.AddCommand(runsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func scanCmd() *cobra.Command {
	var all bool
	var outputDir string

	cmd := &cobra.Command{
		Use:   "scan <author-email> <path>",
		Short: "Generate the classified commit history CSV for one repository or a folder of repositories",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			authorEmail := args[0]
			scanPath := args[1]

			fmt.Println("⚙️  Loading configuration...")
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			sched, err := cfg.ToSchedule()
			if err != nil {
				return err
			}

			var repos []string
			if all {
				fmt.Printf("⚙️  Looking for repositories under: %s\n", scanPath)
				repos, err = gitlog.FindRepositories(scanPath)
				if err != nil {
					return fmt.Errorf("failed to find repositories: %w", err)
				}
				if len(repos) == 0 {
					return fmt.Errorf("no git repositories found under %s", scanPath)
				}
			} else {
				repos = []string{scanPath}
			}

			logger.Info("Starting scan",
				zap.String("author", authorEmail),
				zap.Int("repositories", len(repos)))

			var records []report.CommitRecord
			for _, repo := range repos {
				fmt.Printf("⛏️  Reading history: %s\n", repo)
				commits, err := gitlog.Scan(repo, authorEmail)
				if err != nil {
					logger.Warn("Skipping repository", zap.String("repo", repo), zap.Error(err))
					fmt.Printf("❌  Skipping %s: %v\n", repo, err)
					continue
				}
				for _, commit := range commits {
					info := overtime.Classify(overtime.Event{Date: commit.Date, Time: commit.Time}, sched)
					records = append(records, report.CommitRecord{Commit: commit, Info: info})
				}
			}

			dir := outputDir
			if dir == "" {
				dir = cfg.Scan.OutputDir
			}
			outputFile := filepath.Join(dir, commitsFileName(authorEmail))

			fmt.Println("▶️  Writing CSV report...")
			if err := report.WriteCommits(outputFile, records, authorEmail, scanPath, cfg); err != nil {
				return err
			}

			logger.Info("Scan finished",
				zap.Int("commits", len(records)),
				zap.String("output", outputFile))
			fmt.Printf("📄 Commit history written to:\n%q\n", outputFile)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Treat <path> as a folder and scan every repository inside it")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "Directory for the CSV report (default from config)")

	return cmd
}

func byDayCmd() *cobra.Command {
	var archive bool

	cmd := &cobra.Command{
		Use:   "by-day <commits-csv> <output-dir>",
		Short: "Aggregate a commit history CSV into per-day overtime totals",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			csvPath := args[0]
			outputDir := args[1]

			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			sched, err := cfg.ToSchedule()
			if err != nil {
				return err
			}

			fmt.Printf("⛏️  Computing daily overtime from: %s\n", csvPath)
			events, err := report.ReadCommitEvents(csvPath)
			if err != nil {
				return err
			}

			agg := overtime.NewAggregator(sched)
			for _, ev := range events {
				agg.Add(ev.Event, ev.IsSaturday, ev.IsSunday)
			}
			days := agg.Finalize()

			outputFile := filepath.Join(outputDir,
				fmt.Sprintf("overtime-by-day.%s.csv", time.Now().Format("2006-01-02-15-04")))
			if err := report.WriteDayOvertime(outputFile, days); err != nil {
				return err
			}

			logger.Info("Aggregation finished",
				zap.Int("events", len(events)),
				zap.Int("days", len(days)),
				zap.String("output", outputFile))

			if archive {
				if cfg.Store.Path == "" {
					return fmt.Errorf("--archive requires store.path in the config")
				}
				author, source, err := report.ReadPreamble(csvPath)
				if err != nil {
					return err
				}
				st, err := store.Open(cfg.Store.Path)
				if err != nil {
					return err
				}
				defer st.Close()
				runID, err := st.SaveRun(author, source, days)
				if err != nil {
					return err
				}
				fmt.Printf("🗄️  Archived run %s (%d days)\n", runID, len(days))
			}

			fmt.Printf("✅  Daily overtime written to:\n%q\n", outputFile)
			return nil
		},
	}

	cmd.Flags().BoolVar(&archive, "archive", false, "Also save the result to the SQLite archive")

	return cmd
}

func runsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "runs [run-id]",
		Short: "List archived aggregation runs, or show one run's per-day breakdown",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if cfg.Store.Path == "" {
				return fmt.Errorf("store.path is not configured")
			}

			st, err := store.Open(cfg.Store.Path)
			if err != nil {
				return err
			}
			defer st.Close()

			if len(args) == 1 {
				days, err := st.DaysForRun(args[0])
				if err != nil {
					return err
				}
				if len(days) == 0 {
					fmt.Println("No days recorded for this run")
					return nil
				}
				fmt.Println("  Date       | Before | Lunch      | After | Night | Weekend | Total")
				fmt.Println("-------------+--------+------------+-------+-------+---------+-------")
				for _, d := range days {
					fmt.Printf("  %s | %4dm  | %3dm/%3dm  | %4dm | %4dm | %5dm  | %4dm\n",
						d.Date, d.BeforeMorning, d.AfterMorning, d.BeforeAfternoon,
						d.Afterwork, d.Night, d.Saturday+d.Sunday, d.Total)
				}
				return nil
			}

			runs, err := st.ListRuns()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No archived runs yet")
				return nil
			}
			for _, run := range runs {
				fmt.Printf("📊 %s  %s  %s (%s)  %d day(s), %dm total\n",
					run.CreatedAt.Format("2006-01-02 15:04"),
					run.ID, run.Source, run.Author, run.Days, run.TotalMinutes)
			}
			return nil
		},
	}
}

// commitsFileName builds the report file name from the author and the scan
// start time, e.g. git-history.jdoe.2025-05-05-18-02.csv.
func commitsFileName(authorEmail string) string {
	userName := authorEmail
	if i := strings.Index(authorEmail, "@"); i > 0 {
		userName = authorEmail[:i]
	}
	return fmt.Sprintf("git-history.%s.%s.csv", userName, time.Now().Format("2006-01-02-15-04"))
}

func initLogger() {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
