package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"battery-budget/internal/budget"
	"battery-budget/internal/config"
	"battery-budget/internal/logger"
	"battery-budget/internal/model"
	"battery-budget/internal/report"
	"battery-budget/internal/snapshot"

	"github.com/fsnotify/fsnotify"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	if err := logger.InitLogger("cli", logger.Options{Level: "info", Development: true}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	var err error
	switch os.Args[1] {
	case "budget":
		err = cmdBudget(os.Args[2:])
	case "watch":
		err = cmdWatch(os.Args[2:])
	case "snapshot":
		err = cmdSnapshot(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli budget --config examples/plan.yaml [--unit ah] [--csv out.csv] [--days days.csv] [--xlsx out.xlsx]")
	fmt.Println("  cli watch --config examples/plan.yaml [--unit ah]")
	fmt.Println("  cli snapshot --config examples/plan.yaml --out plan.json")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - plans are YAML (with optional settings_file/loads_file/sources_file) or JSON/HJSON snapshots")
	fmt.Println("  - watch recomputes on every save; a bad edit keeps the last good plan")
}

func requireConfig(fs *flag.FlagSet, path string) {
	if path == "" {
		fmt.Println("--config is required")
		fs.Usage()
		os.Exit(2)
	}
}

func cmdBudget(args []string) error {
	fs := flag.NewFlagSet("budget", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to plan (YAML, JSON or HJSON)")
	unitFlag := fs.String("unit", "wh", "Display unit: wh or ah")
	csvPath := fs.String("csv", "", "Optional: write loads table and summary CSV")
	daysPath := fs.String("days", "", "Optional: write per-day ledger CSV")
	xlsxPath := fs.String("xlsx", "", "Optional: write XLSX workbook")
	_ = fs.Parse(args)
	requireConfig(fs, *cfgPath)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	unit := model.ParseUnit(*unitFlag)
	in := cfg.ToInputs()
	res := budget.New().Run(in)

	printSummary(os.Stdout, cfg.Name, res, unit)

	if *csvPath != "" {
		if err := writeFile(*csvPath, func(w io.Writer) error { return report.WriteBudgetCSV(w, in, res, unit) }); err != nil {
			return err
		}
		fmt.Printf("Wrote %d load rows to %s\n", len(res.Rows), *csvPath)
	}
	if *daysPath != "" {
		if err := writeFile(*daysPath, func(w io.Writer) error { return report.WriteDaysCSV(w, res, unit) }); err != nil {
			return err
		}
		fmt.Printf("Wrote %d days to %s\n", len(res.Days), *daysPath)
	}
	if *xlsxPath != "" {
		if err := writeFile(*xlsxPath, func(w io.Writer) error { return report.WriteXLSX(w, in, res, unit) }); err != nil {
			return err
		}
		fmt.Printf("Wrote workbook to %s\n", *xlsxPath)
	}
	return nil
}

func cmdSnapshot(args []string) error {
	fs := flag.NewFlagSet("snapshot", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to plan (YAML, JSON or HJSON)")
	outPath := fs.String("out", "plan.json", "Output snapshot path (.json or .yaml)")
	name := fs.String("name", "", "Optional: plan name override")
	_ = fs.Parse(args)
	requireConfig(fs, *cfgPath)

	cfg, err := config.LoadUnchecked(*cfgPath)
	if err != nil {
		return err
	}
	doc := cfg.Document()
	if *name != "" {
		doc.Name = *name
	}
	doc.SavedAt = time.Now().UTC()

	format := snapshot.FormatFromPath(*outPath)
	if format == snapshot.FormatHJSON {
		format = snapshot.FormatJSON
	}
	data, err := snapshot.Encode(doc, format)
	if err != nil {
		return err
	}
	if err := writeFile(*outPath, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}); err != nil {
		return err
	}
	fmt.Printf("Wrote snapshot with %d loads and %d sources to %s\n", len(doc.Loads), len(doc.Sources), *outPath)
	return nil
}

func cmdWatch(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to plan (YAML, JSON or HJSON)")
	unitFlag := fs.String("unit", "wh", "Display unit: wh or ah")
	debounce := fs.Duration("debounce", 200*time.Millisecond, "Delay before recomputing after a change")
	_ = fs.Parse(args)
	requireConfig(fs, *cfgPath)

	unit := model.ParseUnit(*unitFlag)
	abs, err := filepath.Abs(*cfgPath)
	if err != nil {
		return err
	}
	var name string
	load := func() (model.Inputs, error) {
		cfg, err := config.Load(abs)
		if err != nil {
			return model.Inputs{}, err
		}
		name = cfg.Name
		return cfg.ToInputs(), nil
	}

	ws := budget.NewWorkspace(budget.New(), model.Inputs{})
	if err := ws.Reload(load); err != nil {
		return err
	}
	printSummary(os.Stdout, name, ws.Compute(), unit)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()
	// Watch the directory: editors often replace the file on save.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	logger.Logger.Infof("[Watch] watching %s", abs)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			timer = time.After(*debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Logger.Warnf("[Watch] watcher error: %v", err)
		case <-timer:
			timer = nil
			if err := ws.Reload(load); err != nil {
				logger.Logger.Warnf("[Watch] keeping last good plan: %v", err)
				continue
			}
			fmt.Println()
			printSummary(os.Stdout, name, ws.Compute(), unit)
		}
	}
}

func printSummary(w io.Writer, name string, res *budget.Result, unit model.Unit) {
	t := res.Totals
	v := res.Settings.Voltage
	e := func(wh float64) string { return report.FormatEnergy(wh, v, unit) }

	if name != "" {
		fmt.Fprintf(w, "Plan: %s\n", name)
	}
	fmt.Fprintf(w, "System: %g V %s, DoD %.0f%%, reserve %.0f%%, %d days\n",
		v, res.Settings.Chemistry, res.Settings.DoD, res.Settings.Reserve, t.Days)
	fmt.Fprintf(w, "%-24s %12s\n", "daily consumption", e(t.DailyConsumptionWh))
	fmt.Fprintf(w, "%-24s %12s\n", "  anchor", e(t.AnchorWh))
	fmt.Fprintf(w, "%-24s %12s\n", "  underway", e(t.UnderwayWh))
	fmt.Fprintf(w, "%-24s %12s\n", "  inverter standby", e(t.StandbyWh))
	fmt.Fprintf(w, "%-24s %12s\n", "daily generation", e(t.DailyGenerationWh))
	fmt.Fprintf(w, "%-24s %12s  %s\n", "daily net", e(t.NetWh), model.BalanceFromNetWh(t.NetWh))
	fmt.Fprintf(w, "%-24s %12s\n", "trip net", e(t.TripNetWh))
	fmt.Fprintf(w, "%-24s %12s\n", "recommended nameplate", e(t.Sizing.NameplateWh))
	if t.Sizing.ModuleLayout != "" {
		fmt.Fprintf(w, "%-24s %12s\n", "suggested layout", t.Sizing.ModuleLayout)
	}
	if n := len(res.Days); n > 0 && res.Days[n-1].SOCPercent != nil {
		fmt.Fprintf(w, "%-24s %11.0f%%\n", "installed bank SOC", *res.Days[n-1].SOCPercent)
	}
	if err := res.Settings.Validate(); err != nil {
		fmt.Fprintf(w, "warning: %v\n", err)
	}
}

func writeFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
