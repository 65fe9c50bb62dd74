package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/maintwindow/internal/config"
	"github.com/hamed0406/maintwindow/internal/display"
	"github.com/hamed0406/maintwindow/internal/page"
	"github.com/hamed0406/maintwindow/internal/render"
	"github.com/hamed0406/maintwindow/internal/snapshot"
)

func main() {
	mode := flag.String("mode", "", "clock format: 12h or 24h")
	end := flag.String("end", "", "timeline length in hours")
	from := flag.String("snapshot", "", "snapshot file path or URL (default SNAPSHOT_URL or SNAPSHOT_PATH)")
	asJSON := flag.Bool("json", false, "print the evaluated state as JSON")
	chartOut := flag.String("chart", "", "also write the timeline chart to this file")
	flag.Parse()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	location := *from
	if location == "" {
		location = cfg.SnapshotURL
	}
	if location == "" {
		location = cfg.SnapshotPath
	}
	var src snapshot.Source
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		src = snapshot.NewHTTPSource(location, cfg.HTTPTimeout)
	} else {
		src = snapshot.NewFileSource(location)
	}

	format := render.ParseFormat(cfg.ChartFormat)
	if strings.HasSuffix(strings.ToLower(*chartOut), ".png") {
		format = render.FormatPNG
	}
	loader := page.NewLoader(src, render.NewChart(cfg.ChartWidth, cfg.ChartHeight, format), zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout+5*time.Second)
	defer cancel()

	view, err := loader.Load(ctx, display.Resolve(*mode, *end))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading snapshot:", err)
		os.Exit(2)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(view.State)
	} else {
		printView(view)
	}

	if *chartOut != "" {
		if err := writeChart(*chartOut, func(w io.Writer) error { return loader.Chart(w, view) }); err != nil {
			fmt.Fprintln(os.Stderr, "Error writing chart:", err)
			os.Exit(1)
		}
	}
}

// writeChart creates path and fills it with draw's output. The file is closed
// before returning on every path.
func writeChart(path string, draw func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := draw(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func printView(v page.View) {
	c := v.Config
	switch {
	case v.IsServerDown:
		fmt.Println("Servers are down for maintenance")
	case v.IsMaintenance:
		fmt.Println("Maintenance in progress, servers are up")
	default:
		fmt.Println("No maintenance right now")
	}
	fmt.Println("As of:", c.FormatDateTime(v.Now))
	fmt.Println("Timeline:", c.FormatRange(v.Bounds.Start, v.Bounds.End))

	for _, ev := range v.Active {
		desc := ev.Description
		if desc == "" {
			desc = "Scheduled maintenance"
		}
		fmt.Printf("  - %s: %s\n", desc, c.FormatRange(ev.MaintenanceStart.Time().Local(), ev.MaintenanceEnd.Time().Local()))
		if ev.ServerDownStart.Valid() && ev.ServerDownEnd.Valid() {
			fmt.Printf("    servers down: %s\n", c.FormatRange(ev.ServerDownStart.Time().Local(), ev.ServerDownEnd.Time().Local()))
		}
	}
	fmt.Printf("%d event(s) in snapshot\n", len(v.Events))
}
