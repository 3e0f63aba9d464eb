package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/postercast/postercast/internal/abstract"
	"github.com/postercast/postercast/internal/library"
	"github.com/postercast/postercast/internal/sheet"
)

var (
	scanDir   string
	sheetPath string
	asJSON    bool
	rescan    bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Merge a poster directory with an optional spreadsheet",
	Long: `Scan walks the poster directory, parses filenames for abstract numbers
and author names, joins the result against a CSV or XLSX spreadsheet when one
is given, and prints the canonical abstract list.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanDir, "dir", "", "poster directory to scan (required)")
	scanCmd.Flags().StringVar(&sheetPath, "sheet", "", "CSV or XLSX metadata spreadsheet")
	scanCmd.Flags().BoolVar(&asJSON, "json", false, "print the list as JSON")
	scanCmd.Flags().BoolVar(&rescan, "watch", false, "keep running and reprint when the directory changes")
	_ = scanCmd.MarkFlagRequired("dir")
}

func runScan(cmd *cobra.Command, args []string) error {
	if err := scanAndPrint(); err != nil {
		return err
	}
	if !rescan {
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lib := library.New()
	if err := lib.SetRoot(scanDir); err != nil {
		return err
	}
	err := lib.Watch(ctx, func() {
		if err := scanAndPrint(); err != nil {
			fmt.Fprintf(os.Stderr, "rescan failed: %v\n", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func scanAndPrint() error {
	abstracts, err := buildDeck(scanDir, sheetPath)
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(abstracts)
	}

	for _, a := range abstracts {
		line := []string{a.ID}
		if a.AbstractID != "" {
			line = append(line, a.AbstractID)
		}
		line = append(line, a.Title, a.Author)
		if !a.HasFile {
			line = append(line, "(no file)")
		}
		fmt.Println(strings.Join(line, "\t"))
	}
	fmt.Fprintf(os.Stderr, "%d abstracts\n", len(abstracts))
	return nil
}

// buildDeck loads the directory scan and the spreadsheet concurrently and
// merges them into the canonical abstract list.
func buildDeck(dir, sheetFile string) ([]abstract.Abstract, error) {
	lib := library.New()
	if err := lib.SetRoot(dir); err != nil {
		return nil, err
	}

	var (
		files []abstract.ScannedFile
		rows  []abstract.SpreadsheetRow
	)
	haveSheet := sheetFile != ""

	var g errgroup.Group
	g.Go(func() error {
		var err error
		files, err = lib.Scan()
		return err
	})
	if haveSheet {
		g.Go(func() error {
			var err error
			rows, err = sheet.ParseFile(sheetFile)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	inputs := make([]abstract.ScannedInput, 0, len(files))
	for _, f := range files {
		inputs = append(inputs, abstract.ScannedInput{
			File:   f,
			Parsed: abstract.ParseFilename(f.Name),
		})
	}
	return abstract.Generate(inputs, rows, haveSheet), nil
}
