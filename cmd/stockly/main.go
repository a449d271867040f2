// Command stockly prints dashboard views in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"

	"stockly/internal/app"
	"stockly/internal/config"
	"stockly/internal/dashboard"
	"stockly/internal/logging"
)

var (
	configPath = flag.String("config", "", "config file (.json or .yaml); defaults to CONFIG_FILE or ./config.json")
	asJSON     = flag.Bool("json", false, "print JSON instead of rendered markdown")
	logLevel   = flag.String("log", "", "log level (debug, info, warn, error)")
)

// service builds the dashboard from config, .env and the global flags.
func service() (*dashboard.Service, error) {
	_ = godotenv.Load()
	p := *configPath
	if p == "" {
		p = os.Getenv("CONFIG_FILE")
	}
	cfg, err := config.Load(p)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	level := cfg.Log.Level
	if *logLevel != "" {
		level = *logLevel
	} else if level == "info" {
		// keep the terminal quiet unless asked
		level = "warn"
	}
	return app.NewService(cfg, logging.NewLogger(level))
}

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	for _, c := range commands {
		commander.Register(c, "dashboard")
	}

	flag.Parse()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	os.Exit(int(commander.Execute(ctx)))
}
