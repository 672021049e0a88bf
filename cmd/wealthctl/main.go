package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/google/subcommands"

	"github.com/ndewijer/Wealth-Manager-Backend/internal/cli"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/config"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/events"
	"github.com/ndewijer/Wealth-Manager-Backend/internal/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return int(subcommands.ExitFailure)
	}

	logger := logging.New(cfg.Log)

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	}

	env := cli.NewEnv(cfg, logger, publisher)
	defer func() {
		if err := env.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close database")
		}
	}()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range cli.Commands(env) {
		commander.Register(c, "")
	}

	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return int(commander.Execute(ctx))
}
