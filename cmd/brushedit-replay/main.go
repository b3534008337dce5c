package main

import (
	"fmt"
	"os"

	"github.com/gekko3d/brushedit"
	"github.com/gekko3d/brushedit/internal/replay"

	"github.com/spf13/cobra"
)

var (
	prefsPath   string
	debug       bool
	interactive bool
)

var rootCmd = &cobra.Command{
	Use:   "brushedit-replay [script]",
	Short: "Replay scripted map view input against an in-memory document",
	Long: `brushedit-replay builds the brushes of a YAML script, feeds its steps
(tool toggles, clicks, drags, keys) through a map view and prints the
resulting brushes and undo history. With --interactive the map view stays
open in a window after the script ran, and the report reflects the edits
made there.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runReplay,
}

func init() {
	rootCmd.Flags().StringVarP(&prefsPath, "prefs", "p", "", "preferences YAML file")
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "log tool activity")
	rootCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "keep editing in a window after the script ran")
}

func runReplay(cmd *cobra.Command, args []string) error {
	prefs := brushedit.DefaultPreferences()
	if prefsPath != "" {
		var err error
		if prefs, err = brushedit.LoadPreferences(prefsPath); err != nil {
			return err
		}
	}
	prefs.Colors.Apply()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	script, err := replay.Parse(data)
	if err != nil {
		return err
	}

	logger := prefs.NewLogger()
	if debug {
		logger.SetDebug(true)
	}
	session := replay.NewSession(script, prefs, logger)
	defer session.Close()

	if err := session.Run(script.Steps); err != nil {
		return err
	}
	if interactive {
		if err := runWindow(session, script, logger); err != nil {
			return err
		}
	}
	return session.Report(cmd.OutOrStdout())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
