// Command perception-report renders a recorded run as an HTML chart page
// and a trajectory PNG.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/fieldsense/perception/internal/db"
	"github.com/fieldsense/perception/internal/intercept"
	"github.com/fieldsense/perception/internal/monitoring"
	"github.com/fieldsense/perception/internal/report"
	"github.com/fieldsense/perception/internal/version"
)

var (
	dbPath      = flag.String("db", "perception.db", "SQLite file written by perceive -db")
	runID       = flag.String("run", "", "Run ID to render (required)")
	outDir      = flag.String("out", ".", "Directory for <run>.html and <run>.png")
	maxAge      = flag.Int("max-age", report.DefaultOptions().MaxAge, "Skip trajectory points older than this many cycles")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println("perception-report", version.String())
		return
	}
	if *runID == "" {
		log.Fatal("-run is required")
	}

	store, err := db.OpenDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	opts := report.DefaultOptions()
	opts.MaxAge = *maxAge

	html, png, err := render(store, *runID, *outDir, opts)
	if err != nil {
		log.Fatalf("report failed: %v", err)
	}
	monitoring.Logf("wrote %s and %s", html, png)
}

// render writes both artifacts for runID into dir and returns their paths.
func render(store *db.DB, runID, dir string, opts report.Options) (string, string, error) {
	run, err := store.GetRun(runID)
	if err != nil {
		return "", "", fmt.Errorf("load run: %w", err)
	}
	cycles, err := store.ListCycles(run.ID)
	if err != nil {
		return "", "", fmt.Errorf("load cycles: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}

	htmlPath := filepath.Join(dir, run.ID+".html")
	if err := writeFile(htmlPath, func(f *os.File) error {
		return report.RenderRunPage(f, run.ID, cycles, intercept.UnreachableCycles/20, opts)
	}); err != nil {
		return "", "", err
	}

	pngPath := filepath.Join(dir, run.ID+".png")
	title := fmt.Sprintf("run %s (%s #%d)", run.ID, run.Side, run.Unum)
	if err := writeFile(pngPath, func(f *os.File) error {
		return report.WriteTrajectoryPNG(f, title, cycles, opts)
	}); err != nil {
		return "", "", err
	}
	return htmlPath, pngPath, nil
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
