// cabinetquote: cabinet bill of parts and quote calculator
//
// Derives the parts of a carcass cabinet from its dimensions, prices them
// against the workshop catalog and writes the quote in the requested formats.
//
// Build:
//   go build -o cabinetquote ./cmd/cabinetquote
//
// Examples:
//   cabinetquote -request kitchen.json -formats pdf,xlsx -out quotes/
//   cabinetquote -template "Wall unit 60" -formats labels,dxf
//   cabinetquote -import-catalog prices.xlsx
//   cabinetquote -backup cabinetquote-backup.json

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/piwi3910/cabinetquote/internal/config"
	"github.com/piwi3910/cabinetquote/internal/export"
	"github.com/piwi3910/cabinetquote/internal/importer"
	"github.com/piwi3910/cabinetquote/internal/model"
	"github.com/piwi3910/cabinetquote/internal/project"
)

// maxRecentRequests bounds the recent request list kept in the app config.
const maxRecentRequests = 10

var allFormats = []string{"csv", "xlsx", "pdf", "labels", "dxf", "json"}

type options struct {
	request       string
	catalog       string
	config        string
	templates     string
	template      string
	saveTemplate  string
	parts         string
	importCatalog string
	backup        string
	restore       string
	out           string
	formats       string
	verbose       bool
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "cabinetquote:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	env := config.FromEnv()

	fs := flag.NewFlagSet("cabinetquote", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var o options
	fs.StringVar(&o.request, "request", "", "calculation request JSON file")
	fs.StringVar(&o.catalog, "catalog", env.CatalogPath, "price catalog JSON file")
	fs.StringVar(&o.config, "config", env.AppConfigPath, "workshop defaults JSON file")
	fs.StringVar(&o.templates, "templates", env.TemplatesPath, "cabinet template store")
	fs.StringVar(&o.template, "template", "", "template name or ID; replaces the request geometry and materials")
	fs.StringVar(&o.saveTemplate, "save-template", "", "save the calculated cabinet as a template with this name")
	fs.StringVar(&o.parts, "parts", "", "part list (.csv or .xlsx) to price instead of derived parts")
	fs.StringVar(&o.importCatalog, "import-catalog", "", "merge a price file (.json, .csv, .xlsx) into the catalog and exit")
	fs.StringVar(&o.backup, "backup", "", "write config, catalog and templates to this file and exit")
	fs.StringVar(&o.restore, "restore", "", "restore a backup into the config, catalog and templates files and exit")
	fs.StringVar(&o.out, "out", ".", "output directory")
	fs.StringVar(&o.formats, "formats", "pdf", "comma separated output formats: "+strings.Join(allFormats, ","))
	fs.BoolVar(&o.verbose, "verbose", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logCfg := env
	if o.verbose {
		logCfg.LogLevel = slog.LevelDebug
	}
	logger := logCfg.NewLogger(stderr)

	switch {
	case o.restore != "":
		return restoreBackup(o, stdout)
	case o.backup != "":
		return writeBackup(o, stdout)
	case o.importCatalog != "":
		return mergeCatalog(o, stdout, logger)
	}
	return calculate(o, stdout, logger)
}

func calculate(o options, stdout io.Writer, logger *slog.Logger) error {
	formats, err := parseFormats(o.formats)
	if err != nil {
		return err
	}
	appCfg, err := project.LoadAppConfig(o.config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cat, err := project.LoadCatalog(o.catalog)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	req := appCfg.NewRequest()
	if o.request != "" {
		if req, err = project.LoadRequest(o.request, appCfg); err != nil {
			return fmt.Errorf("load request: %w", err)
		}
	}
	if o.template != "" {
		t, err := project.ResolveTemplate(o.templates, o.template)
		if err != nil {
			return err
		}
		t.ApplyTo(&req)
		logger.Debug("template applied", "id", t.ID, "name", t.Name)
	}
	if o.parts != "" {
		if req.Parts, err = importParts(o.parts, logger); err != nil {
			return err
		}
	}
	if err := req.Validate(); err != nil {
		return err
	}

	result := model.Calculate(req, &cat)
	if result.Title == "" {
		result.Title = export.QuoteTitle(result.Cabinet)
	}
	logger.Debug("calculated", "lines", len(result.Lines), "derived", result.Derived, "grand_total", result.Quote.GrandTotal)

	if o.saveTemplate != "" {
		if err := saveTemplate(o, req, result.Title); err != nil {
			return err
		}
		logger.Info("template saved", "name", o.saveTemplate, "path", o.templates)
	}

	written, err := writeOutputs(o.out, outputBase(o.request), result, appCfg, formats)
	if err != nil {
		return err
	}

	printSummary(stdout, result, appCfg.Currency)
	for _, path := range written {
		fmt.Fprintf(stdout, "wrote %s\n", path)
	}

	if o.request != "" {
		rememberRequest(&appCfg, o.request)
		if err := project.SaveAppConfig(o.config, appCfg); err != nil {
			logger.Warn("could not update recent requests", "error", err)
		}
	}
	return nil
}

func parseFormats(s string) ([]string, error) {
	var formats []string
	seen := map[string]bool{}
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		known := false
		for _, k := range allFormats {
			if f == k {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("unknown output format %q (want %s)", f, strings.Join(allFormats, ", "))
		}
		seen[f] = true
		formats = append(formats, f)
	}
	return formats, nil
}

func importParts(path string, logger *slog.Logger) ([]model.PartSpec, error) {
	var res importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		res = importer.ImportPartsExcel(path)
	default:
		res = importer.ImportPartsCSV(path)
	}
	for _, w := range res.Warnings {
		logger.Warn("part import", "file", path, "warning", w)
	}
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("import parts from %s: %s", path, strings.Join(res.Errors, "; "))
	}
	if len(res.Parts) == 0 {
		return nil, fmt.Errorf("no parts found in %s", path)
	}
	logger.Debug("parts imported", "file", path, "count", len(res.Parts))
	return res.Parts, nil
}

func saveTemplate(o options, req model.CalculationRequest, description string) error {
	store, err := project.LoadTemplates(o.templates)
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	if existing := store.FindByName(o.saveTemplate); existing != nil {
		store.Remove(existing.ID)
	}
	store.Add(model.NewCabinetTemplate(o.saveTemplate, description, req.Cabinet, req.Materials, req.Parts))
	if err := project.SaveTemplates(o.templates, store); err != nil {
		return fmt.Errorf("save templates: %w", err)
	}
	return nil
}

func outputBase(requestPath string) string {
	if requestPath == "" {
		return "quote"
	}
	return strings.TrimSuffix(filepath.Base(requestPath), filepath.Ext(requestPath))
}

func writeOutputs(dir, base string, result model.CalculationResult, cfg model.AppConfig, formats []string) ([]string, error) {
	if len(formats) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	var written []string
	for _, f := range formats {
		path := filepath.Join(dir, base+"."+f)
		var err error
		switch f {
		case "csv":
			err = export.ExportCSV(path, result)
		case "xlsx":
			err = export.ExportXLSX(path, result)
		case "pdf":
			err = export.ExportPDF(path, export.NewQuoteDocument(result, cfg))
		case "labels":
			path = filepath.Join(dir, base+"-labels.pdf")
			err = export.ExportLabels(path, result)
		case "dxf":
			err = export.ExportDXF(path, result)
		case "json":
			err = project.SaveResult(path, result)
		}
		if err != nil {
			return written, fmt.Errorf("write %s: %w", f, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func printSummary(w io.Writer, result model.CalculationResult, currency string) {
	q := result.Quote.Rounded()
	pieces := 0
	for _, p := range result.Parts {
		pieces += p.Quantity
	}
	source := "imported"
	if result.Derived {
		source = "derived"
	}

	fmt.Fprintln(w, result.Title)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Parts\t%d pieces in %d lines (%s)\n", pieces, len(result.Lines), source)
	fmt.Fprintf(tw, "Board area\t%.3f m²\n", result.Summary.AreaM2)
	fmt.Fprintf(tw, "Materials\t%.2f\n", q.MaterialsSubtotal)
	fmt.Fprintf(tw, "Extras\t%.2f\n", q.ExtrasSubtotal)
	fmt.Fprintf(tw, "Labor\t%.2f\n", q.LaborSubtotal)
	if q.MarkupPercent > 0 {
		fmt.Fprintf(tw, "Markup (%g%%)\t%.2f\n", q.MarkupPercent, q.MarkupAmount)
	}
	fmt.Fprintf(tw, "Total\t%.2f %s\n", q.GrandTotal, currency)
	if q.DeliveryDays > 0 {
		fmt.Fprintf(tw, "Delivery\t%d days\n", q.DeliveryDays)
	}
	tw.Flush()

	for _, warn := range result.Warnings() {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
}

// rememberRequest moves path to the front of the recent list.
func rememberRequest(cfg *model.AppConfig, path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	recent := []string{path}
	for _, p := range cfg.RecentRequests {
		if p != path && len(recent) < maxRecentRequests {
			recent = append(recent, p)
		}
	}
	cfg.RecentRequests = recent
}

func mergeCatalog(o options, stdout io.Writer, logger *slog.Logger) error {
	cat, err := project.LoadCatalog(o.catalog)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	merged, added, err := project.ImportCatalog(o.importCatalog, cat)
	if err != nil {
		return err
	}
	if err := project.SaveCatalog(o.catalog, merged); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	logger.Debug("catalog merged", "source", o.importCatalog, "catalog", o.catalog)
	fmt.Fprintf(stdout, "added %d catalog entries from %s\n", added, o.importCatalog)
	return nil
}

func writeBackup(o options, stdout io.Writer) error {
	appCfg, err := project.LoadAppConfig(o.config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cat, err := project.LoadCatalog(o.catalog)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	templates, err := project.LoadTemplates(o.templates)
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	if err := project.ExportAllData(o.backup, appCfg, cat, templates); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "backup written to %s (%d templates)\n", o.backup, len(templates.Templates))
	return nil
}

func restoreBackup(o options, stdout io.Writer) error {
	backup, err := project.ImportAllData(o.restore)
	if err != nil {
		return err
	}
	paths := project.DataPaths{Config: o.config, Catalog: o.catalog, Templates: o.templates}
	if err := project.RestoreAllData(paths, backup); err != nil {
		return fmt.Errorf("restore backup: %w", err)
	}
	fmt.Fprintf(stdout, "restored backup from %s into %s, %s and %s\n", backup.CreatedAt, paths.Config, paths.Catalog, paths.Templates)
	return nil
}
