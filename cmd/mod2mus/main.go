// Package main is the entry point for mod2mus CLI
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/james-see/mod2mus/pkg/api"
	"github.com/james-see/mod2mus/pkg/converter"
	"github.com/james-see/mod2mus/pkg/mod"
	"github.com/james-see/mod2mus/pkg/tui"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	outputFile string
	serverPort int
)

// Exit codes for the conversion failures a caller may want to tell apart
const (
	exitInputOpen    = -1
	exitOutputOpen   = -2
	exitBadSignature = -3
	exitBadOrders    = -4
	exitOther        = 1
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, converter.ErrOpenInput):
		return exitInputOpen
	case errors.Is(err, converter.ErrCreateOutput):
		return exitOutputOpen
	case errors.Is(err, mod.ErrUnknownSignature):
		return exitBadSignature
	case errors.Is(err, mod.ErrTooManyOrders):
		return exitBadOrders
	default:
		return exitOther
	}
}

var rootCmd = &cobra.Command{
	Use:   "mod2mus <infile.mod> <outfile.mus>",
	Short: "Convert ProTracker MOD files to Psycho Pinball / Micro Machines 2 MUS format",
	Long: `mod2mus converts 1 to 4 channel ProTracker modules (1CHN, 2CHN, 3CHN
or M.K.) into the MUS song format used by Psycho Pinball and Micro Machines 2.

Examples:
  mod2mus song.mod song.mus
  mod2mus info song.mus
  mod2mus preview song.mod -o song.mid
  mod2mus tui
  mod2mus serve --port 8080`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	Args:          cobra.ArbitraryArgs,
	RunE:          runConvert,
	SilenceErrors: true,
	SilenceUsage:  true,
}

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Show the header of a MOD or MUS file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

var previewCmd = &cobra.Command{
	Use:   "preview <input.mod>",
	Short: "Render the note events of a MOD file as MIDI",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// preview command
	previewCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .mid file path")

	// serve command
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	// Add commands
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

func getOutputPath(input, defaultExt string) string {
	if outputFile != "" {
		return outputFile
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + defaultExt
}

func runConvert(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if len(args) != 2 {
		fmt.Fprintf(out, "mod2mus version %s\n", version)
		fmt.Fprintf(out, "syntax: %s infile.mod outfile.mus\n", cmd.Root().Name())
		return nil
	}

	res, err := converter.New().ConvertFile(args[0], args[1])
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
	}

	fmt.Fprintf(out, "Converted %s -> %s\n", args[0], args[1])
	fmt.Fprintf(out, "  %d channels, %d patterns, %d orders played, %d samples\n",
		res.Channels, res.Patterns, res.Stats.OrdersPlayed, res.Samples)
	fmt.Fprintf(out, "  music: %d bytes (%d events, %d repeat runs), restart at %d\n",
		res.MusicSize, res.Stats.Events, res.Stats.RepeatRuns, res.RestartOffset)
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", converter.ErrOpenInput, err)
	}

	info, err := converter.Inspect(data)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Format:   %s\n", info.Format)
	fmt.Fprintf(out, "Title:    %q\n", info.Title)
	fmt.Fprintf(out, "Channels: %d\n", info.Channels)
	if info.Format == converter.FormatMOD {
		fmt.Fprintf(out, "Orders:   %d (restart %d)\n", info.Orders, info.RestartPos)
		fmt.Fprintf(out, "Patterns: %d\n", info.Patterns)
	} else {
		fmt.Fprintf(out, "Music:    %d bytes (restart offset %d)\n", info.MusicSize, info.RestartPos)
	}
	for _, s := range info.Samples {
		fmt.Fprintf(out, "  %02d %-32q size %6d loop %6d vol %2d fine %d\n",
			s.Slot, s.Name, s.Size, s.LoopStart, s.Volume, s.Finetune)
	}
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := getOutputPath(input, ".mid")

	if err := converter.New().PreviewFile(input, output); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Converted %s -> %s\n", input, output)
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run()
}

func runServe(cmd *cobra.Command, args []string) error {
	fmt.Fprintf(cmd.OutOrStdout(), "Starting API server on port %d...\n", serverPort)
	return api.StartServer(serverPort)
}
