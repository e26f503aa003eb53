package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"evilcadastre/internal/geometry"
	"evilcadastre/internal/worldengine"
)

var (
	initPlotSize  string
	initWorldSize string
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Print a freshly initialized world to standard output",
	RunE: func(c *cobra.Command, args []string) error {
		plotSize, err := parseSize(initPlotSize)
		if err != nil {
			return fmt.Errorf("--plot-size: %w", err)
		}
		worldSize, err := parseSize(initWorldSize)
		if err != nil {
			return fmt.Errorf("--world-size: %w", err)
		}
		f := worldengine.InitField(plotSize, worldSize)
		fmt.Fprint(os.Stdout, f.Serialize())
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initPlotSize, "plot-size", "10,10", "plot size as W,H")
	initCmd.Flags().StringVar(&initWorldSize, "world-size", "", "world size as W,H (required)")
	initCmd.MarkFlagRequired("world-size")
	rootCmd.AddCommand(initCmd)
}

func parseSize(s string) (geometry.Size, error) {
	ws, hs, ok := strings.Cut(s, ",")
	if !ok {
		return geometry.Size{}, fmt.Errorf("expected \"W,H\", got %q", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(ws))
	if err != nil {
		return geometry.Size{}, err
	}
	h, err := strconv.Atoi(strings.TrimSpace(hs))
	if err != nil {
		return geometry.Size{}, err
	}
	return geometry.New(w, h), nil
}
