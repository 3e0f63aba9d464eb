package main

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/postercast/postercast/internal/abstract"
	"github.com/postercast/postercast/internal/library"
	"github.com/postercast/postercast/internal/relay"
	"github.com/postercast/postercast/internal/screensync"
)

var (
	presentDir   string
	presentSheet string
	presentID    string
	embedFile    bool
)

var presentCmd = &cobra.Command{
	Use:   "present",
	Short: "Push one abstract to a room",
	Long: `Present rebuilds the abstract list from the poster directory, picks the
entry matching --id, and pushes it into the room. With --embed the poster file
content travels inside the payload for screens that cannot reach the files.`,
	RunE: runPresent,
}

func init() {
	presentCmd.Flags().StringVar(&presentDir, "dir", "", "poster directory to scan (required)")
	presentCmd.Flags().StringVar(&presentSheet, "sheet", "", "CSV or XLSX metadata spreadsheet")
	presentCmd.Flags().StringVar(&presentID, "id", "", "abstract to present, by id or abstract number (required)")
	presentCmd.Flags().BoolVar(&embedFile, "embed", false, "embed file content in the payload")
	_ = presentCmd.MarkFlagRequired("dir")
	_ = presentCmd.MarkFlagRequired("id")
}

func runPresent(cmd *cobra.Command, args []string) error {
	abstracts, err := buildDeck(presentDir, presentSheet)
	if err != nil {
		return err
	}
	chosen, err := findAbstract(abstracts, presentID)
	if err != nil {
		return err
	}

	payload := relay.Payload{
		ID:          chosen.ID,
		Title:       chosen.Title,
		Author:      chosen.Author,
		Description: chosen.Description,
		Thumbnail:   chosen.Thumbnail,
		FileURL:     chosen.FileURL,
		FileType:    string(chosen.FileType),
		LocalSource: chosen.Source == abstract.SourceLocal,
	}
	if embedFile {
		if !chosen.HasFile {
			return fmt.Errorf("abstract %s has no file to embed", chosen.ID)
		}
		data, err := readPosterFile(presentDir, chosen.LocalFileName)
		if err != nil {
			return err
		}
		payload.FileData = base64.StdEncoding.EncodeToString(data)
	}

	controller, err := screensync.NewController(newRelayClient(), room)
	if err != nil {
		return err
	}
	version, err := controller.Present(cmd.Context(), payload)
	if err != nil {
		return err
	}
	logger.Info("presented abstract",
		zap.String("room", room),
		zap.String("id", chosen.ID),
		zap.Uint64("version", version))
	fmt.Printf("presenting %s in room %s (version %d)\n", chosen.ID, room, version)
	return nil
}

func findAbstract(abstracts []abstract.Abstract, key string) (abstract.Abstract, error) {
	normalized, _ := abstract.NormalizeID(key)
	for _, a := range abstracts {
		if a.ID == key || a.LocalFileName == key {
			return a, nil
		}
		if normalized != "" && a.AbstractID == normalized {
			return a, nil
		}
	}
	return abstract.Abstract{}, fmt.Errorf("no abstract matches %q", key)
}

func readPosterFile(dir, name string) ([]byte, error) {
	lib := library.New()
	if err := lib.SetRoot(dir); err != nil {
		return nil, err
	}
	path, err := lib.Open(name)
	if err != nil {
		return nil, err
	}
	defer lib.Release(path)
	return os.ReadFile(path)
}
