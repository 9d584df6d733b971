package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/kennedyongogo/tuvibe/pkg/conf"
)

var (
	file   string
	config *Conf

	rootCmd = &cobra.Command{
		Use:   "client",
		Short: "Tuvibe Client Core",
		Long:  "",
	}
)

type Conf struct {
	API     APIConf          `mapstructure:"api"`
	Channel conf.ChannelConf `mapstructure:"channel"`
}

type APIConf struct {
	URL  string `mapstructure:"url"`
	User int    `mapstructure:"user"`
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&file, "config", "c", "config.toml", "config file")
	rootCmd.AddCommand(run)
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func initConfig() {
	config = &Conf{}
	err := conf.Load(file, config)
	if err != nil {
		log.Fatalf("failed to load config: %s", err)
	}
}
