package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	dsn     string
	cfgFile string
)

var RootCmd = &cobra.Command{
	Use:   "d1-migrate",
	Short: "Migrate a Cloudflare D1 export into MySQL",
	Long: `
  ____  _     __  __ ___ ____ ____      _  _____ _____
 |  _ \/ |   |  \/  |_ _/ ___|  _ \    / \|_   _| ____|
 | | | | |   | |\/| || | |  _| |_) |  / _ \ | | |  _|
 | |_| | |   | |  | || | |_| |  _ <  / ___ \| | | |___
 |____/|_|   |_|  |_|___\____|_| \_\/_/   \_\_| |_____|

D1 MIGRATE - SQLite dump to MySQL (PlanetScale) data loader
`,
	SilenceUsage: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./d1-migrate.yaml)")
	RootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Target MySQL DSN or mysql:// URL")

	viper.BindPFlag("database.dsn", RootCmd.PersistentFlags().Lookup("dsn"))
	viper.BindEnv("database.dsn", "DATABASE_URL")

	viper.SetDefault("dump.path", "./d1-export.sql")
	viper.SetDefault("settings.batch_size", 50)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("d1-migrate")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
