package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"battery-budget/internal/budget"
	"battery-budget/internal/config"
	"battery-budget/internal/model"
	"battery-budget/internal/report"
)

// Demo:
// - Load every plan preset in a directory
// - Run the budget engine on each
// - Print one comparison row per preset
func main() {
	dir := flag.String("presets", "examples/presets", "Directory of YAML plan presets")
	unitFlag := flag.String("unit", "ah", "Display unit: wh or ah")
	flag.Parse()

	paths, err := filepath.Glob(filepath.Join(*dir, "*.yaml"))
	if err != nil {
		panic(err)
	}
	if len(paths) == 0 {
		fmt.Fprintf(os.Stderr, "no presets in %s\n", *dir)
		os.Exit(1)
	}
	sort.Strings(paths)

	unit := model.ParseUnit(*unitFlag)
	engine := budget.New()

	fmt.Printf("%-30s %-6s %-5s %12s %12s %12s %-8s %-20s %8s\n",
		"preset", "volts", "days", "consumption", "generation", "net", "balance", "layout", "soc")
	for _, p := range paths {
		cfg, err := config.Load(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", p, err)
			continue
		}
		res := engine.Run(cfg.ToInputs())
		t := res.Totals
		v := res.Settings.Voltage

		name := cfg.Name
		if name == "" {
			name = filepath.Base(p)
		}
		soc := report.NotAvailable
		if n := len(res.Days); n > 0 && res.Days[n-1].SOCPercent != nil {
			soc = fmt.Sprintf("%.0f%%", *res.Days[n-1].SOCPercent)
		}
		layout := t.Sizing.ModuleLayout
		if layout == "" {
			layout = report.NotAvailable
		}
		fmt.Printf("%-30s %-6g %-5d %12s %12s %12s %-8s %-20s %8s\n",
			name,
			v,
			t.Days,
			report.FormatEnergy(t.DailyConsumptionWh, v, unit),
			report.FormatEnergy(t.DailyGenerationWh, v, unit),
			report.FormatEnergy(t.NetWh, v, unit),
			model.BalanceFromNetWh(t.NetWh),
			layout,
			soc,
		)
	}
}
