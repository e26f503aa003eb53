// Package cmd wires the cadastre CLI's subcommands with cobra, binding
// flags to viper so home-directory and game-directory defaults can also
// come from CADASTRE_-prefixed environment variables.
package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var debugLogging bool

var rootCmd = &cobra.Command{
	Use:          "cadastre",
	Short:        "Evil Cadastre world-state engine",
	SilenceUsage: true,
	Long: `cadastre advances a shared Evil Cadastre world by exactly one tick
per invocation.

  cadastre init --plot-size 10,10 --world-size 5,5 > world.txt
  cadastre update --home-dirs /home/ --game-dir .cadastre/evil/ \
      --world-name world.txt < world.txt > world.txt.new`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "enable debug logging to stderr")
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	viper.SetEnvPrefix("CADASTRE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
