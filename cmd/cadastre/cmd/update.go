package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"evilcadastre/internal/archive"
	"evilcadastre/internal/command"
	"evilcadastre/internal/field"
	"evilcadastre/internal/logging"
	"evilcadastre/internal/players"
	"evilcadastre/internal/worldengine"
)

var (
	updateHomeDirs   string
	updateGameDir    string
	updateWorldNames []string
	updateArchive    string
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Advance the world on standard input by exactly one tick",
	RunE:  runUpdate,
}

func init() {
	updateCmd.Flags().StringVar(&updateHomeDirs, "home-dirs", "/home/", "directory containing one subdirectory per player")
	updateCmd.Flags().StringVar(&updateGameDir, "game-dir", ".cadastre/evil/", "per-player subdirectory holding command and log files")
	updateCmd.Flags().StringArrayVar(&updateWorldNames, "world-name", nil, "candidate command-file names to try, in order (repeatable)")
	updateCmd.Flags().StringVar(&updateArchive, "archive", "", "optional path to a SQLite tick archive")
	updateCmd.MarkFlagRequired("world-name")
	viper.BindPFlag("home-dirs", updateCmd.Flags().Lookup("home-dirs"))
	viper.BindPFlag("game-dir", updateCmd.Flags().Lookup("game-dir"))
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(c *cobra.Command, args []string) error {
	logs := logging.New(os.Stderr, os.Stderr, viper.GetBool("debug"))

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading world from stdin: %w", err)
	}
	f, err := field.Parse(string(input))
	if err != nil {
		return fmt.Errorf("parsing world: %w", err)
	}

	homeDirs := viper.GetString("home-dirs")
	gameDir := viper.GetString("game-dir")

	playerIDs, err := players.Discover(homeDirs, gameDir)
	if err != nil {
		return fmt.Errorf("discovering players: %w", err)
	}

	logFileName := updateWorldNames[0] + ".log"
	errorLog := players.NewLogger(homeDirs, gameDir, logFileName)

	var playerCommands []worldengine.PlayerCommands
	for _, id := range playerIDs {
		blob, _, ok := players.ReadCommands(homeDirs, gameDir, id, updateWorldNames)
		if !ok {
			continue
		}
		results := command.ParseLines(blob)
		var cmds []command.Command
		for _, r := range results {
			if r.Err != nil {
				if logErr := errorLog.Append(id, r.Err.Error()); logErr != nil {
					logs.Error.Printf("appending parse-error log for %s: %v", id, logErr)
				}
				continue
			}
			cmds = append(cmds, r.Command)
		}
		playerCommands = append(playerCommands, worldengine.PlayerCommands{PlayerID: id, Commands: cmds})
	}

	world := worldengine.New(f)
	world.Update(playerCommands)
	serialized := world.Field.Serialize()

	if updateArchive != "" {
		if archiveErr := recordArchive(updateArchive, serialized); archiveErr != nil {
			logs.Error.Printf("archive: %v", archiveErr)
		}
	}

	fmt.Fprint(os.Stdout, serialized)
	return nil
}

func recordArchive(path, serialized string) error {
	a, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer a.Close()
	return a.RecordTick(serialized, time.Now())
}
