package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"quoteGen/internal/config"
	"quoteGen/internal/excel"
	"quoteGen/internal/logger"
	"quoteGen/internal/mapping"
	"quoteGen/internal/quote"

	"github.com/spf13/cobra"
)

var (
	configPath string
	cfg        *config.Config

	templatePath string
	templateName string
	inputPath    string
	outputDir    string
)

func main() {
	if err := execute(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

// execute runs one command line and closes the log file however it ends
func execute(args []string) error {
	defer logger.Close()

	rootCmd := newRootCmd()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "quotegen",
		Short: "Fill quotation workbooks from JSON data",
		Long: `quotegen populates a formatted quotation template (.xlsx) with the
project details and line items of a JSON document.`,
		SilenceUsage:      true,
		PersistentPreRunE: setup,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/config.toml", "Path to the config file")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a quotation from the template and input data",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}
	generateCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input JSON file (overrides config)")
	generateCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Output directory (overrides config)")
	addTemplateFlags(generateCmd)

	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show which labels and table columns the template resolves",
		Args:  cobra.NoArgs,
		RunE:  runInspect,
	}
	addTemplateFlags(inspectCmd)

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "List the text labels of the template sheet",
		Args:  cobra.NoArgs,
		RunE:  runScan,
	}
	addTemplateFlags(scanCmd)

	mapCmd := &cobra.Command{
		Use:   "map",
		Short: "Open the interactive tool to map template labels to fields",
		Args:  cobra.NoArgs,
		RunE:  runMapping,
	}

	rootCmd.AddCommand(generateCmd, inspectCmd, scanCmd, mapCmd)
	return rootCmd
}

func addTemplateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&templatePath, "template", "t", "", "Template workbook (overrides config)")
	cmd.Flags().StringVarP(&templateName, "sheet", "s", "", "Template sheet name (overrides config)")
}

func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	if err := logger.Setup(cfg.Log.Directory, cfg.Log.Level); err != nil {
		return err
	}

	if templatePath != "" {
		cfg.Template.Path = templatePath
	}
	if templateName != "" {
		cfg.Template.Sheet = templateName
	}
	if inputPath != "" {
		cfg.Input.Path = inputPath
	}
	if outputDir != "" {
		cfg.Output.Directory = outputDir
	}
	return nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("Starting generate operation",
		"template", cfg.Template.Path,
		"sheet", cfg.Template.Sheet,
		"input", cfg.Input.Path)

	extra, err := loadExtraAliases(cfg.Mapping.AliasesFile)
	if err != nil {
		return err
	}

	result, err := quote.Generate(ctx, quote.Options{
		TemplatePath:         cfg.Template.Path,
		TemplateSheet:        cfg.Template.Sheet,
		InputPath:            cfg.Input.Path,
		OutputDir:            cfg.Output.Directory,
		DefaultName:          cfg.Output.DefaultName,
		MinRecognizedColumns: cfg.Table.MinRecognizedColumns,
		ExtraAliases:         extra,
	})
	if err != nil {
		logger.Error("Generate operation failed", "error", err)
		return err
	}

	fmt.Printf("✓ Quotation saved to: %s\n", result.OutputPath)
	fmt.Printf("✓ Sheet: %s, %d line items (%d rows inserted)\n", result.SheetName, result.Items, result.InsertedRows)
	if len(result.FieldsSkipped) > 0 {
		fmt.Printf("  Labels not found in template: %s\n", joinFields(result.FieldsSkipped))
	}
	return nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	extra, err := loadExtraAliases(cfg.Mapping.AliasesFile)
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.Template.Path); os.IsNotExist(err) {
		return &quote.MissingResourceError{Kind: "template", Path: cfg.Template.Path, Err: err}
	}
	editor, err := excel.OpenFile(cfg.Template.Path)
	if err != nil {
		return err
	}
	defer editor.Close()

	report, err := quote.Inspect(editor, cfg.Template.Sheet, quote.NewAnchors(extra), cfg.Table.MinRecognizedColumns)
	if err != nil {
		return err
	}

	fmt.Println(renderReport(cfg.Template.Path, report))
	return nil
}

func runScan(cmd *cobra.Command, args []string) error {
	logger.Info("Starting scan operation", "template", cfg.Template.Path, "sheet", cfg.Template.Sheet)
	fmt.Println("\nScanning template labels...")

	labels, err := excel.ScanTemplateLabels(cfg.Template.Path, cfg.Template.Sheet, cfg.Mapping.ScannedLabelsFile)
	if err != nil {
		logger.Error("Scan operation failed", "error", err)
		return err
	}

	fmt.Printf("✓ Found %d distinct labels\n", len(labels))
	fmt.Printf("✓ Results saved to '%s'\n", cfg.Mapping.ScannedLabelsFile)
	return nil
}

func runMapping(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(cfg.Mapping.ScannedLabelsFile); os.IsNotExist(err) {
		fmt.Printf("Scanned labels file not found: %s\n", cfg.Mapping.ScannedLabelsFile)
		fmt.Println("Please run 'quotegen scan' first to list the template labels.")
		return nil
	}

	logger.Info("Starting mapping operation",
		"scanned_file", cfg.Mapping.ScannedLabelsFile,
		"output_file", cfg.Mapping.AliasesFile)

	fields := make([]string, 0, len(quote.AllFields()))
	for _, field := range quote.AllFields() {
		fields = append(fields, string(field))
	}

	err := mapping.RunMappingTUI(cfg.Mapping.ScannedLabelsFile, fields, cfg.Mapping.AliasesFile,
		mapping.UIConfig{RowsPerPage: cfg.UI.RowsPerPage})
	if err != nil {
		logger.Error("Mapping operation failed", "error", err)
		return err
	}
	return nil
}

// loadExtraAliases reads the alias overrides written by the mapping tool.
// A missing file means no overrides.
func loadExtraAliases(path string) (map[quote.Field][]string, error) {
	config, err := mapping.LoadFromFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load aliases: %w", err)
	}

	extra := make(map[quote.Field][]string)
	for field, labels := range config.Aliases() {
		if !quote.IsKnownField(field) {
			logger.Warn("Ignoring aliases for unknown field", "field", field, "file", path)
			continue
		}
		extra[quote.Field(field)] = labels
	}
	logger.Info("Loaded label aliases", "file", path, "fields", len(extra))
	return extra, nil
}

func joinFields(fields []quote.Field) string {
	names := make([]string, len(fields))
	for i, field := range fields {
		names[i] = string(field)
	}
	return strings.Join(names, ", ")
}
