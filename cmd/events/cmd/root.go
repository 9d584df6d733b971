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
		Use:   "events",
		Short: "Tuvibe Event Push",
		Long:  "",
	}
)

type Conf struct {
	Redis conf.RedisConf `mapstructure:"redis"`
	API   conf.AddrConf  `mapstructure:"api"`
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&file, "config", "c", "config.toml", "config file")
	rootCmd.AddCommand(server)
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
