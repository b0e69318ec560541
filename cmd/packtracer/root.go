package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"packtracer/internal/analysis"
	"packtracer/internal/draft"
)

var (
	exportPath string
	rosterPath string
)

var rootCmd = &cobra.Command{
	Use:   "packtracer",
	Short: "Reconstruct booster pack journeys from completed draft exports",
	Long: `Packtracer reads the exported pick log of a completed draft and
reconstructs the path each physical booster pack took from player to player,
using seating when known and booster-content matching otherwise.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&exportPath, "export", "e", "", "path to a draft export JSON file")
	rootCmd.PersistentFlags().StringVar(&rosterPath, "roster", "", "optional roster metadata JSON file")
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(traceCmd)
	rootCmd.AddCommand(seatsCmd)
	rootCmd.AddCommand(watchCmd)
}

// rosterFile is the on-disk shape of the optional session metadata.
type rosterFile struct {
	CubeName     string            `json:"cubeName"`
	SessionLabel string            `json:"sessionLabel"`
	SignUps      map[string]string `json:"signUps"`
	TeamA        []string          `json:"teamA"`
	TeamB        []string          `json:"teamB"`
}

// loadAnalysis builds an Analysis from the --export and --roster flags.
func loadAnalysis() (*analysis.Analysis, error) {
	if exportPath == "" {
		return nil, fmt.Errorf("--export is required")
	}
	data, err := os.ReadFile(exportPath)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}
	export, err := draft.DecodeExport(data)
	if err != nil {
		return nil, err
	}

	meta, err := loadRoster()
	if err != nil {
		return nil, err
	}
	return analysis.New(export, meta), nil
}

func loadRoster() (*analysis.Metadata, error) {
	if rosterPath == "" {
		return nil, nil
	}
	data, err := os.ReadFile(rosterPath)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	var roster rosterFile
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	return &analysis.Metadata{
		CubeName:     roster.CubeName,
		SessionLabel: roster.SessionLabel,
		SignUps:      roster.SignUps,
		TeamA:        roster.TeamA,
		TeamB:        roster.TeamB,
	}, nil
}
