// Package main provides the sheetcalc CLI: load a CSV or XLSX file into the
// calculation engine, apply an edit, and write the recalculated result.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vogtb/go-spreadsheet/packages/sheetio"
	"github.com/vogtb/go-spreadsheet/packages/spreadsheet"
)

// cli holds the flags shared by every subcommand
type cli struct {
	verbose   bool
	circular  string
	sheetName string
	output    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "sheetcalc",
		Short: "Recalculate spreadsheet formulas from the command line",
		Long: `sheetcalc loads a .csv or .xlsx file, evaluates its formulas,
applies an optional edit and writes the result.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log engine activity to stderr")
	rootCmd.PersistentFlags().StringVar(&c.circular, "circular", "report", "Circular reference policy: report, ignore")
	rootCmd.PersistentFlags().StringVar(&c.sheetName, "sheet", "", "Workbook sheet to read (default: first sheet)")

	rootCmd.AddCommand(
		c.evalCmd(),
		c.recalcCmd(),
		c.checkCmd(),
		c.dedupeCmd(),
		c.replaceCmd(),
		c.structureCmd("insert-row", "Insert an empty row before row N", "N"),
		c.structureCmd("delete-row", "Delete row N", "N"),
		c.structureCmd("insert-column", "Insert an empty column before column L", "L"),
		c.structureCmd("delete-column", "Delete column L", "L"),
	)
	return rootCmd
}

func (c *cli) addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&c.output, "output", "o", "", "Output file path, .csv or .xlsx (default: CSV to stdout)")
}

func (c *cli) newEngine(cmd *cobra.Command) (*spreadsheet.Spreadsheet, error) {
	var policy spreadsheet.CircularPolicy
	switch c.circular {
	case "report":
		policy = spreadsheet.CircularReport
	case "ignore":
		policy = spreadsheet.CircularIgnore
	default:
		return nil, fmt.Errorf("invalid circular policy: %s (must be report or ignore)", c.circular)
	}

	level := slog.LevelWarn
	if c.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	return spreadsheet.NewSpreadsheet(
		spreadsheet.WithLogger(logger),
		spreadsheet.WithCircularPolicy(policy),
	), nil
}

// open reads inputPath into a fresh engine
func (c *cli) open(cmd *cobra.Command, inputPath string) (*spreadsheet.Spreadsheet, *sheetio.Sheet, error) {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("file not found: %s", inputPath)
	}

	sheet, err := sheetio.Open(inputPath, c.sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("import failed: %w", err)
	}

	engine, err := c.newEngine(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err := sheetio.Load(engine, sheet); err != nil {
		return nil, nil, fmt.Errorf("load failed: %w", err)
	}
	return engine, sheet, nil
}

// emit writes the engine state to --output, or CSV to stdout
func (c *cli) emit(cmd *cobra.Command, engine *spreadsheet.Spreadsheet, sheetName string) error {
	if c.output == "" {
		if err := sheetio.ExportCSV(engine.Snapshot(), cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := sheetio.Save(engine.Snapshot(), c.output, sheetName); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (c *cli) evalCmd() *cobra.Command {
	var assignments []string

	cmd := &cobra.Command{
		Use:     "eval FORMULA",
		Short:   "Evaluate a formula against ad-hoc cell values",
		Example: `  sheetcalc eval "=SUM(A1:A2)" --set A1=2 --set A2=3`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := c.newEngine(cmd)
			if err != nil {
				return err
			}
			for _, assignment := range assignments {
				address, raw, found := strings.Cut(assignment, "=")
				if !found {
					return fmt.Errorf("invalid --set %q (want ADDRESS=VALUE)", assignment)
				}
				if _, err := engine.SetCellValue(address, raw); err != nil {
					return fmt.Errorf("invalid --set %q: %w", assignment, err)
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), spreadsheet.Display(engine.Evaluate(args[0])))
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&assignments, "set", nil, "Cell value as ADDRESS=VALUE (repeatable)")
	return cmd
}

func (c *cli) recalcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recalc INPUT",
		Short: "Load a file, recalculate every formula and write the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, sheet, err := c.open(cmd, args[0])
			if err != nil {
				return err
			}
			reportDiagnostics(cmd, engine, sheetio.CheckSheet(sheet))
			return c.emit(cmd, engine, sheet.Name)
		},
	}
	c.addOutputFlag(cmd)
	return cmd
}

func (c *cli) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check INPUT",
		Short: "Report formulas the engine cannot evaluate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, sheet, err := c.open(cmd, args[0])
			if err != nil {
				return err
			}
			found := sheetio.CheckSheet(sheet)
			if len(found) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "ok")
				return nil
			}
			reportDiagnostics(cmd, engine, found)
			return fmt.Errorf("%d formulas cannot be evaluated", len(found))
		},
	}
}

// reportDiagnostics prints one line per problem, in row-major cell order
func reportDiagnostics(cmd *cobra.Command, engine *spreadsheet.Spreadsheet, found map[string][]sheetio.Diagnostic) {
	for _, address := range engine.Addresses() {
		for _, diagnostic := range found[address] {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", address, diagnostic)
		}
	}
}

func (c *cli) dedupeCmd() *cobra.Command {
	var (
		rangeText string
		columns   []string
		header    bool
	)

	cmd := &cobra.Command{
		Use:   "dedupe INPUT",
		Short: "Remove duplicate rows from a range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, sheet, err := c.open(cmd, args[0])
			if err != nil {
				return err
			}
			result, err := engine.RemoveDuplicateRows(rangeText, columns, header)
			if err != nil {
				return fmt.Errorf("dedupe failed: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "removed %d duplicate rows, kept %d\n", result.Removed, result.Kept)
			return c.emit(cmd, engine, sheet.Name)
		},
	}
	cmd.Flags().StringVar(&rangeText, "range", "", "Range to deduplicate, e.g. A1:C20")
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "Columns to compare (default: every column of the range)")
	cmd.Flags().BoolVar(&header, "header", false, "Treat the first row of the range as a header")
	_ = cmd.MarkFlagRequired("range")
	c.addOutputFlag(cmd)
	return cmd
}

func (c *cli) replaceCmd() *cobra.Command {
	var opts spreadsheet.FindReplaceOptions

	cmd := &cobra.Command{
		Use:   "replace INPUT",
		Short: "Find and replace text in non-formula cells",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, sheet, err := c.open(cmd, args[0])
			if err != nil {
				return err
			}
			result, err := engine.FindAndReplace(opts)
			if err != nil {
				return fmt.Errorf("replace failed: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "replaced %d cells, recalculated %d\n", len(result.Replaced), len(result.Recalculated))
			return c.emit(cmd, engine, sheet.Name)
		},
	}
	cmd.Flags().StringVar(&opts.Find, "find", "", "Text to find")
	cmd.Flags().StringVar(&opts.Replace, "with", "", "Replacement text")
	cmd.Flags().StringVar(&opts.Range, "range", "", "Range to search (default: every cell)")
	cmd.Flags().BoolVar(&opts.MatchCase, "match-case", false, "Match letter case")
	cmd.Flags().BoolVar(&opts.MatchEntireCell, "entire", false, "Only replace whole cell contents")
	_ = cmd.MarkFlagRequired("find")
	c.addOutputFlag(cmd)
	return cmd
}

// structureCmd builds one of the row/column insert and delete commands
func (c *cli) structureCmd(name, short, arg string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name + " INPUT " + arg,
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, sheet, err := c.open(cmd, args[0])
			if err != nil {
				return err
			}
			if err := applyStructure(engine, name, args[1]); err != nil {
				return fmt.Errorf("%s failed: %w", name, err)
			}
			return c.emit(cmd, engine, sheet.Name)
		},
	}
	c.addOutputFlag(cmd)
	return cmd
}

func applyStructure(engine *spreadsheet.Spreadsheet, name, target string) error {
	var err error
	switch name {
	case "insert-row", "delete-row":
		row, convErr := strconv.Atoi(target)
		if convErr != nil {
			return fmt.Errorf("invalid row: %s", target)
		}
		if name == "insert-row" {
			_, err = engine.InsertRow(row)
		} else {
			_, err = engine.DeleteRow(row)
		}
	case "insert-column":
		_, err = engine.InsertColumn(target)
	case "delete-column":
		_, err = engine.DeleteColumn(target)
	default:
		err = fmt.Errorf("unknown operation: %s", name)
	}
	return err
}
