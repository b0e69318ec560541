package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"packtracer/internal/analysis"
	"packtracer/internal/draft"
	"packtracer/internal/loader"
)

var (
	tracePack   int
	traceLength int
	traceSeat   int
	watchDir    string
)

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the players in a draft export",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadAnalysis()
		if err != nil {
			return err
		}

		header := color.New(color.Bold)
		header.Printf("Session %s", a.SessionID())
		if a.CubeName() != "" {
			header.Printf(" (%s)", a.CubeName())
		}
		fmt.Println()

		for _, p := range a.Players() {
			if p.HasSeat {
				fmt.Printf("  seat %d  %s\n", p.Seat, p.UserName)
			} else {
				fmt.Printf("  seat ?  %s\n", p.UserName)
			}
		}
		if unresolved := a.UnresolvedNames(); len(unresolved) > 0 {
			warn := color.New(color.FgYellow)
			for _, name := range unresolved {
				warn.Printf("  unresolved roster name: %s\n", name)
			}
		}
		return nil
	},
}

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Reconstruct one pack's journey through the draft",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadAnalysis()
		if err != nil {
			return err
		}

		trace := a.TracePackFrom(tracePack, traceLength, traceSeat)
		if trace == nil {
			// Not finding a trace is a normal outcome, not a failure.
			color.Yellow("no trace of length %d found for pack %d", traceLength, tracePack)
			return nil
		}

		printTrace(a, trace)
		return nil
	},
}

var seatsCmd = &cobra.Command{
	Use:   "seats",
	Short: "List seats whose seat-based trace reaches the requested length",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadAnalysis()
		if err != nil {
			return err
		}

		if !a.HasSeating() {
			color.Yellow("no seating data; seat diagnostics unavailable")
			return nil
		}
		seats := a.ValidStartingSeats(tracePack, traceLength)
		if len(seats) == 0 {
			fmt.Printf("no valid starting seats for pack %d at length %d\n", tracePack, traceLength)
			return nil
		}
		fmt.Printf("valid starting seats for pack %d at length %d: %v\n", tracePack, traceLength, seats)
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch a directory and summarize exports as they arrive",
	RunE: func(cmd *cobra.Command, args []string) error {
		if watchDir == "" {
			return fmt.Errorf("--dir is required")
		}

		w, err := loader.NewWatcher(watchDir, nil)
		if err != nil {
			return err
		}
		defer w.Close()

		exportLoader := loader.NewExportLoader(loader.NewFileFetcher(watchDir), nil)
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Printf("watching %s for exports\n", watchDir)
		for {
			select {
			case <-ctx.Done():
				return nil
			case key := <-w.Keys():
				a, err := analysis.Load(ctx, exportLoader, key, nil)
				if err != nil {
					fmt.Fprintf(os.Stderr, "skipping %s: %v\n", key, err)
					continue
				}
				fmt.Printf("%s: session %s, %d players\n", key, a.SessionID(), a.PlayerCount())
			}
		}
	},
}

func init() {
	for _, cmd := range []*cobra.Command{traceCmd, seatsCmd} {
		cmd.Flags().IntVarP(&tracePack, "pack", "p", 0, "pack number (0-indexed)")
		cmd.Flags().IntVarP(&traceLength, "length", "l", 0, "chain length to reconstruct")
	}
	traceCmd.Flags().IntVarP(&traceSeat, "seat", "s", -1, "starting seat (-1 tries all)")
	traceCmd.MarkFlagRequired("length")
	seatsCmd.MarkFlagRequired("length")
	watchCmd.Flags().StringVarP(&watchDir, "dir", "d", "", "directory to watch for export files")
}

// printTrace renders one chain, one line per hand-off.
func printTrace(a *analysis.Analysis, trace *draft.PackTrace) {
	color.New(color.Bold).Printf("Pack %d, chain of %d:\n", trace.PackNumber, trace.Len())
	cyan := color.New(color.FgCyan)
	for i, p := range trace.Picks {
		took := "???"
		if !p.Ambiguous() {
			took = a.Card(p.PickedID).Name
		}
		fmt.Printf("  %2d. pick %-2d  %-20s took ", i+1, p.PickNumber, p.UserName)
		cyan.Print(took)
		fmt.Printf("  (%d cards offered)\n", len(p.Booster))
	}
}
