package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"prismaflow/adapters/render"
	"prismaflow/app"
	"prismaflow/domain/review"
	"prismaflow/internal"
	"prismaflow/internal/config"
	"prismaflow/internal/errors"
)

func main() {
	// Load .env if present (ignore errors, env vars take precedence)
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "prismaflow",
		Short: "PRISMA systematic-review flow statistics generator",
		Long: `Generates PRISMA 2020 study selection statistics and renders them as
CSV, JSON, text flowchart, XLSX workbook and summary report artifacts.

Invoked with no arguments it runs the default methodology configuration.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDefault()
		},
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newCompareCmd(),
		newReportCmd(),
		newShowCmd(),
		newMenuCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[%s] %v\n", errors.GetCode(err), err)
		os.Exit(1)
	}
}

func newService() (*app.ReportService, *config.Config, error) {
	appConfig, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	return app.NewReportService(appConfig, internal.DefaultLogger), appConfig, nil
}

// loadReviewConfig resolves the methodology config: the --config flag
// wins, then PRISMA_CONFIG_FILE, then the built-in default review.
func loadReviewConfig(flagPath string, appConfig *config.Config) (review.Config, error) {
	path := flagPath
	if path == "" && appConfig != nil {
		path = appConfig.Review.ConfigFile
	}
	if path == "" {
		return review.DefaultConfig(), nil
	}
	return review.LoadConfigFile(path)
}

func runDefault() error {
	svc, appConfig, err := newService()
	if err != nil {
		return err
	}
	cfg, err := loadReviewConfig("", appConfig)
	if err != nil {
		return err
	}
	result, err := svc.Run(cfg, false)
	if err != nil {
		return err
	}
	printFiles(result)
	return nil
}

func newRunCmd() *cobra.Command {
	var configFile string
	var outDir string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the study selection methodology",
		Long: `Run the methodology and export the summary CSV, exclusions CSV,
JSON report and text flowchart.

Example: prismaflow run --config custom_review.json --out ./reports`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, appConfig, err := newService()
			if err != nil {
				return err
			}
			if outDir != "" {
				appConfig.Output.Dir = outDir
			}
			cfg, err := loadReviewConfig(configFile, appConfig)
			if err != nil {
				return err
			}
			result, err := svc.Run(cfg, false)
			if err != nil {
				return err
			}
			printFiles(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "JSON methodology configuration file")
	cmd.Flags().StringVar(&outDir, "out", "", "output directory (overrides PRISMA_OUTPUT_DIR)")

	return cmd
}

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [config-a.json] [config-b.json]",
		Short: "Compare two methodology configurations",
		Long: `Build the flows of two configurations and report the difference in
final inclusions and total exclusions. Writes no files.

Omitting the second argument compares against the default configuration.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := newService()
			if err != nil {
				return err
			}
			cfgA, err := review.LoadConfigFile(args[0])
			if err != nil {
				return err
			}
			cfgB := review.DefaultConfig()
			if len(args) == 2 {
				if cfgB, err = review.LoadConfigFile(args[1]); err != nil {
					return err
				}
			}
			comparison, err := svc.Compare(cfgA, cfgB)
			if err != nil {
				return err
			}
			comparison.Render(os.Stdout)
			return nil
		},
	}

	return cmd
}

func newReportCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate all report artifacts",
		Long:  "Run the methodology and export every format: CSV, JSON, flowchart, XLSX workbook and Markdown/HTML summary report.",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, appConfig, err := newService()
			if err != nil {
				return err
			}
			cfg, err := loadReviewConfig(configFile, appConfig)
			if err != nil {
				return err
			}
			result, err := svc.GenerateAll(cfg)
			if err != nil {
				return err
			}
			printFiles(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "JSON methodology configuration file")

	return cmd
}

func newShowCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display the flow statistics as terminal tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			appConfig, err := config.Load()
			if err != nil {
				return err
			}
			cfg, err := loadReviewConfig(configFile, appConfig)
			if err != nil {
				return err
			}
			flow, err := review.BuildFlow(cfg)
			if err != nil {
				return err
			}
			return render.PrintConsole(os.Stdout, flow)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "JSON methodology configuration file")

	return cmd
}

func newMenuCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(os.Stdin, os.Stdout)
		},
	}
}

// runMenu presents the numbered operation menu and dispatches until exit
func runMenu(in io.Reader, out io.Writer) error {
	svc, appConfig, err := newService()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "PRISMA Study Selection Tool")
	fmt.Fprintln(out, "===========================")

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Select an option:")
		fmt.Fprintln(out, "1. Run default methodology")
		fmt.Fprintln(out, "2. Run custom configuration")
		fmt.Fprintln(out, "3. Compare configurations")
		fmt.Fprintln(out, "4. Generate all reports")
		fmt.Fprintln(out, "5. Exit")
		fmt.Fprint(out, "\nEnter your choice (1-5): ")

		if !scanner.Scan() {
			return scanner.Err()
		}
		choice := strings.TrimSpace(scanner.Text())

		var runErr error
		switch choice {
		case "1":
			var cfg review.Config
			if cfg, runErr = loadReviewConfig("", appConfig); runErr == nil {
				var result *app.RunResult
				if result, runErr = svc.Run(cfg, false); runErr == nil {
					printFiles(result)
				}
			}
		case "2":
			fmt.Fprint(out, "Path to JSON config: ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			var result *app.RunResult
			if result, runErr = svc.RunCustom(strings.TrimSpace(scanner.Text())); runErr == nil {
				printFiles(result)
			}
		case "3":
			fmt.Fprint(out, "Path to JSON config to compare against the default: ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			var cfg review.Config
			if cfg, runErr = review.LoadConfigFile(strings.TrimSpace(scanner.Text())); runErr == nil {
				var comparison *app.Comparison
				if comparison, runErr = svc.Compare(cfg, review.DefaultConfig()); runErr == nil {
					comparison.Render(out)
				}
			}
		case "4":
			var cfg review.Config
			if cfg, runErr = loadReviewConfig("", appConfig); runErr == nil {
				var result *app.RunResult
				if result, runErr = svc.GenerateAll(cfg); runErr == nil {
					printFiles(result)
				}
			}
		case "5":
			fmt.Fprintln(out, "Goodbye.")
			return nil
		default:
			fmt.Fprintln(out, "Invalid choice. Please enter 1-5.")
		}

		if runErr != nil {
			fmt.Fprintf(out, "Error: %v\n", runErr)
		}
	}
}

func printFiles(result *app.RunResult) {
	fmt.Println("Files generated:")
	for _, f := range result.Files {
		fmt.Printf("  - %s\n", f)
	}
}
