package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Lllllllleong/tmpcompliance/internal/config"
	"github.com/Lllllllleong/tmpcompliance/internal/services"
)

var (
	analyzeConcurrency int
	analyzeReportDir   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [files...]",
	Short: "Analyze PDF files and write a compliance report for each",
	Long: `Analyzes each PDF independently and writes one report per file to the
report directory. Files are processed concurrently up to --concurrency.
A failure on one file does not stop the others.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVarP(&analyzeConcurrency, "concurrency", "c", 2, "number of files analyzed at once")
	analyzeCmd.Flags().StringVarP(&analyzeReportDir, "report-dir", "o", "", "directory for reports (default REPORT_DIR)")
	rootCmd.AddCommand(analyzeCmd)
}

type fileOutcome struct {
	path   string
	result *services.AnalyzeResult
	err    error
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzeConcurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1, got %d", analyzeConcurrency)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// Reports always land on local disk for the CLI.
	cfg.StorageBackend = config.BackendLocal
	if analyzeReportDir != "" {
		cfg.ReportDir = analyzeReportDir
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	analyzer, closeFn, err := newAnalyzer(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	names := reportNames(args)
	outcomes := make([]fileOutcome, len(args))

	var g errgroup.Group
	g.SetLimit(analyzeConcurrency)
	for i, path := range args {
		g.Go(func() error {
			outcomes[i] = analyzeFile(ctx, analyzer, path, names[i])
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	out := cmd.OutOrStdout()
	for _, o := range outcomes {
		if o.err != nil {
			failed++
			fmt.Fprintf(out, "%s: error: %v\n", o.path, o.err)
			continue
		}
		c := o.result.Classification
		fmt.Fprintf(out, "%s: tmp=%t score=%d%% matched=[%s] report=%s\n",
			o.path, c.IsTMP, c.Score, strings.Join(c.Matched, ", "), filepath.Join(cfg.ReportDir, o.result.ReportName))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}

func analyzeFile(ctx context.Context, analyzer *services.Analyzer, path, reportName string) fileOutcome {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileOutcome{path: path, err: err}
	}
	res, err := analyzer.Analyze(ctx, services.AnalyzeRequest{
		Data:       data,
		Filename:   filepath.Base(path),
		ReportName: reportName,
	})
	return fileOutcome{path: path, result: res, err: err}
}

// reportNames derives "<stem>_compliance_report.pdf" for each file. When two
// files share a stem, the later ones get a generated name instead.
func reportNames(paths []string) []string {
	names := make([]string, len(paths))
	seen := make(map[string]bool, len(paths))
	for i, p := range paths {
		base := filepath.Base(p)
		name := strings.TrimSuffix(base, filepath.Ext(base)) + "_compliance_report.pdf"
		if seen[name] {
			continue
		}
		seen[name] = true
		names[i] = name
	}
	return names
}
