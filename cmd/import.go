package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ailandscape/landscape-cli/internal/fetcher"
	"github.com/ailandscape/landscape-cli/internal/importer"
	"github.com/ailandscape/landscape-cli/internal/storage"
)

// errNoImportFile distinguishes "nothing to import" from a failed run; main
// maps it to exit code 2.
var errNoImportFile = eris.New("no import file found")

// maxPrintedWarnings caps the warning block; bulk imports of sparse sheets
// can produce hundreds of logo warnings.
const maxPrintedWarnings = 10

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import an organisations spreadsheet",
	Long:  "Imports the given .xlsx file, or the newest one under the import directory when no file is named. Row failures are reported but do not fail the run.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		path := ""
		if len(args) == 1 {
			path = args[0]
			if info, err := os.Stat(path); err != nil || info.IsDir() {
				return eris.Wrapf(errNoImportFile, "%s is not a readable file", path)
			}
		} else {
			found, err := newestSheet(cfg.Import.Dir)
			if err != nil {
				return err
			}
			path = found
		}

		sheet, err := fetcher.ReadSheet(path)
		if err != nil {
			return eris.Wrapf(errNoImportFile, "%s", err.Error())
		}

		s, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = s.Close() }()

		geocoder, err := initGeocoder(s)
		if err != nil {
			return err
		}

		importRoot, folder := splitImportPath(cfg.Import.Dir, path)
		importArea := storage.NewReadOnlyArea(importRoot)
		mediaArea := storage.NewArea(cfg.Media.Dir)

		zap.L().Info("importing sheet",
			zap.String("file", path), zap.String("folder", folder))

		imp := importer.NewImporter(s, geocoder, importArea, mediaArea, cfg.Import.Prefetch)
		stats := imp.Run(ctx, sheet, folder)

		if stats.HasFatal() {
			return eris.New(stats.FatalError())
		}

		renderReport(cmd.OutOrStdout(), stats)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

// newestSheet returns the most recently modified .xlsx under dir.
func newestSheet(dir string) (string, error) {
	newest := ""
	var newestMod int64

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".xlsx") {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}
		if newest == "" || info.ModTime().UnixNano() > newestMod {
			newest = path
			newestMod = info.ModTime().UnixNano()
		}
		return nil
	})
	if err != nil {
		return "", eris.Wrapf(errNoImportFile, "scan %s: %s", dir, err.Error())
	}
	if newest == "" {
		return "", eris.Wrapf(errNoImportFile, "no .xlsx file under %s", dir)
	}
	return newest, nil
}

// splitImportPath determines the import area root and the logo folder for a
// sheet. A sheet inside the import directory keeps that directory as the
// area, with its own subdirectory as the folder; a sheet elsewhere gets its
// parent directory as a one-off area.
func splitImportPath(importDir, sheetPath string) (root, folder string) {
	absDir, err := filepath.Abs(importDir)
	if err != nil {
		return filepath.Dir(sheetPath), ""
	}
	absSheet, err := filepath.Abs(sheetPath)
	if err != nil {
		return filepath.Dir(sheetPath), ""
	}

	rel, err := filepath.Rel(absDir, filepath.Dir(absSheet))
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Dir(absSheet), ""
	}
	if rel == "." {
		rel = ""
	}
	return absDir, filepath.ToSlash(rel)
}

func renderReport(w io.Writer, stats *importer.Stats) {
	fmt.Fprintln(w, stats.Summary())

	if errs := stats.Errors(); len(errs) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Errors:")
		for _, e := range errs {
			fmt.Fprintln(w, "  "+e)
		}
	}

	if warnings := stats.Warnings(); len(warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Warnings:")
		shown := warnings
		if len(shown) > maxPrintedWarnings {
			shown = shown[:maxPrintedWarnings]
		}
		for _, warning := range shown {
			fmt.Fprintln(w, "  "+warning)
		}
		if hidden := len(warnings) - maxPrintedWarnings; hidden > 0 {
			fmt.Fprintf(w, "  ... and %d more warnings\n", hidden)
		}
	}
}
