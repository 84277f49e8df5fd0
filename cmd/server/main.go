package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ringside/server/internal/app"
	"ringside/server/internal/game"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "ringside-server",
	Short: "Card battle relay and matchmaking server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithCancel(signalContext(context.Background()))
		defer cancel()

		cfg := app.Config{
			Addr:        fmt.Sprintf(":%d", viper.GetInt("app.port")),
			ClientDir:   viper.GetString("app.client_dir"),
			TurnTimer:   viper.GetDuration("game.turn_timer"),
			LogLevel:    viper.GetString("log.level"),
			LogJSONPath: viper.GetString("log.json_path"),
			Rules: game.Config{
				MaxHealth:    viper.GetInt("game.max_health"),
				MaxEnergy:    viper.GetInt("game.max_energy"),
				EnergyRegen:  viper.GetInt("game.energy_regen"),
				DeckSize:     viper.GetInt("game.deck_size"),
				StartingHand: viper.GetInt("game.starting_hand"),
				HandCap:      viper.GetInt("game.hand_cap"),
			},
		}

		if err := app.Run(ctx, cfg); err != nil {
			log.Fatalf("%v", err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .ringside.toml in . or $HOME)")
	cobra.OnInitialize(initConfig)

	viper.SetDefault("app.port", 8080)
	viper.SetDefault("app.client_dir", "")
	viper.SetDefault("game.turn_timer", 30*time.Second)
	viper.SetDefault("game.max_health", 100)
	viper.SetDefault("game.max_energy", 10)
	viper.SetDefault("game.energy_regen", 2)
	viper.SetDefault("game.deck_size", 20)
	viper.SetDefault("game.starting_hand", 5)
	viper.SetDefault("game.hand_cap", 10)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.json_path", "")
}

func initConfig() {
	viper.SetConfigType("toml")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.SetConfigName(".ringside")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func signalContext(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigs
		signal.Stop(sigs)
		close(sigs)
		cancel()
	}()
	return ctx
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
