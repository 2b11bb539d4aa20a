package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"missingmech/app"
	"missingmech/domain/missing"
	"missingmech/internal"
	"missingmech/internal/config"
	"missingmech/internal/errors"
	"missingmech/internal/mechanism"
	"missingmech/internal/report"
	"missingmech/internal/rng"
	"missingmech/internal/summary"
	"missingmech/internal/synth"
)

func main() {
	// Optional .env file; environment wins when both are set.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "missingmech",
		Short: "Demonstrates MCAR, MAR and NMAR missing-data mechanisms on a synthetic survey",
	}

	rootCmd.AddCommand(
		newSynthCmd(),
		newInjectCmd(),
		newStudyCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newSynthCmd() *cobra.Command {
	var rows int
	var seed int64
	var out string

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Synthesize the fully-observed survey table and write it as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := synth.DefaultConfig()
			cfg.Rows = rows
			cfg.Seed = seed

			tbl, err := synth.Generate(cfg)
			if err != nil {
				return err
			}
			if err := report.WriteCSV(out, tbl); err != nil {
				return errors.Wrapf(err, "write %s", out)
			}

			fmt.Printf("wrote %d rows to %s\n", tbl.Rows(), out)
			for _, field := range tbl.Fields() {
				col, err := tbl.Column(field)
				if err != nil {
					return err
				}
				s, err := summary.Describe(col)
				if err != nil {
					return err
				}
				fmt.Printf("  %-10s mean=%.2f sd=%.2f min=%.0f max=%.0f\n",
					field, s.Mean, s.StdDev, s.Min, s.Max)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 1000, "number of rows to synthesize")
	cmd.Flags().Int64Var(&seed, "seed", 42, "deterministic seed")
	cmd.Flags().StringVar(&out, "out", "dataset.csv", "output CSV path")
	return cmd
}

func newInjectCmd() *cobra.Command {
	var rows int
	var seed int64
	var kind, target, weightBy, form string
	var fraction float64

	cmd := &cobra.Command{
		Use:   "inject",
		Short: "Apply one mechanism to a field and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := synth.DefaultConfig()
			cfg.Rows = rows
			cfg.Seed = seed

			tbl, err := synth.Generate(cfg)
			if err != nil {
				return err
			}

			req := missing.Request{
				Target:   target,
				Kind:     missing.Kind(kind),
				WeightBy: weightBy,
				Form:     missing.Form(form),
				Fraction: fraction,
				Seed:     seed,
			}
			ind, err := mechanism.Generate(tbl, req)
			if err != nil {
				return err
			}
			derived, err := tbl.WithIndicator(target, ind)
			if err != nil {
				return err
			}
			cmp, err := summary.Compare(derived, target, req.Kind, req.Form)
			if err != nil {
				return err
			}

			fmt.Printf("%s on %q: %d of %d rows masked\n",
				req.Kind, target, ind.MissingCount(), tbl.Rows())
			fmt.Printf("true mean %.2f | observed mean %.2f | imputed mean %.2f\n",
				cmp.True.Mean, cmp.Observed.Mean, cmp.Imputed.Mean)
			fmt.Println()
			fmt.Print(report.MissingnessMatrix(derived, 20))
			return nil
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 100, "number of rows to synthesize")
	cmd.Flags().Int64Var(&seed, "seed", 42, "deterministic seed")
	cmd.Flags().StringVar(&kind, "mechanism", string(missing.KindMCAR), "mcar, mar or nmar")
	cmd.Flags().StringVar(&target, "target", synth.FieldIncome, "field to mask")
	cmd.Flags().StringVar(&weightBy, "weight-by", synth.FieldAge, "MAR weighting field")
	cmd.Flags().StringVar(&form, "form", string(missing.FormLinear), "linear or quadratic weighting")
	cmd.Flags().Float64Var(&fraction, "fraction", 0.3, "missing fraction in [0, 1]")
	return cmd
}

func newStudyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "study",
		Short: "Run the full demonstration and write Markdown, HTML and XLSX reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := internal.NewDefaultLogger()

			studyCfg := app.DefaultStudyConfig()
			studyCfg.Synth.Rows = cfg.Study.Rows
			studyCfg.Synth.Seed = cfg.Study.Seed
			studyCfg.Fraction = cfg.Study.Fraction
			studyCfg.Form = missing.Form(cfg.Study.Form)
			studyCfg.Target = cfg.Study.Target
			studyCfg.WeightBy = cfg.Study.WeightBy

			svc := app.NewStudyService(rng.NewHashedStreams(), logger)
			result, err := svc.Run(context.Background(), studyCfg)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
				return errors.Wrapf(err, "create output dir %s", cfg.Output.Dir)
			}

			md, err := report.BuildMarkdown(result)
			if err != nil {
				return errors.ReportError("build markdown report", err)
			}
			mdPath := filepath.Join(cfg.Output.Dir, "report.md")
			if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
				return errors.Wrapf(err, "write %s", mdPath)
			}
			logger.Info("wrote %s", mdPath)

			if cfg.Output.WriteHTML {
				htmlPath := filepath.Join(cfg.Output.Dir, "report.html")
				if err := os.WriteFile(htmlPath, report.ToHTML(md), 0o644); err != nil {
					return errors.Wrapf(err, "write %s", htmlPath)
				}
				logger.Info("wrote %s", htmlPath)
			}

			if cfg.Output.WriteXLSX {
				xlsxPath := filepath.Join(cfg.Output.Dir, "study.xlsx")
				if err := report.WriteWorkbook(xlsxPath, result); err != nil {
					return errors.ReportError("write workbook", err)
				}
				logger.Info("wrote %s", xlsxPath)
			}

			if cfg.Output.WriteCSV {
				for _, inj := range result.Injections {
					csvPath := filepath.Join(cfg.Output.Dir,
						fmt.Sprintf("masked_%s.csv", inj.Request.Kind))
					if err := report.WriteCSV(csvPath, inj.Derived); err != nil {
						return errors.Wrapf(err, "write %s", csvPath)
					}
					logger.Info("wrote %s", csvPath)
				}
			}

			for _, inj := range result.Injections {
				c := inj.Comparison
				fmt.Printf("%-5s missing=%d true=%.2f observed=%.2f imputed=%.2f\n",
					c.Mechanism, c.MissingCount, c.True.Mean, c.Observed.Mean, c.Imputed.Mean)
			}
			return nil
		},
	}
	return cmd
}
