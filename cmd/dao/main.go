// Command dao is the command line interface to the DAO contracts. Each contract family is a
// module mounted under its own subcommand.
package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/daokit/cli"
	"github.com/daokit/cli/internal/modules/core"
	"github.com/daokit/cli/internal/modules/erc20facet"
	"github.com/daokit/cli/internal/modules/erc20init"
)

const logLevelEnv = "DAO_LOG_LEVEL"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// modules lists the mounted modules in registration order.
func modules() []struct {
	name   string
	module cli.Module
} {
	return []struct {
		name   string
		module cli.Module
	}{
		{"core", core.New()},
		{"moonstream", erc20facet.New()},
		{"moonstream-initializer", erc20init.New()},
	}
}

func buildRoot() (*cli.Command, error) {
	b := cli.NewBuilder(&cli.Command{
		Name:      "dao",
		ShortHelp: "dao: the command line interface to the DAO contracts",
		Flags: cli.FlagsFunc(func(f *flag.FlagSet) {
			f.Bool("verbose", false, "enable debug logging")
		}),
	})
	for _, m := range modules() {
		if err := b.Register(m.name, m.module); err != nil {
			return nil, err
		}
	}
	return b.Finalize()
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	log.SetOutput(stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	root, err := buildRoot()
	if err != nil {
		log.WithError(err).Error("failed to build command tree")
		return cli.ExitCode(err)
	}
	inv, err := cli.Parse(root, args)
	if err != nil {
		log.WithError(err).Error("invalid arguments")
		return cli.ExitCode(err)
	}
	configureLogLevel(inv)

	log.WithFields(log.Fields{"command": inv.Path()}).Debug("dispatching")
	err = cli.Run(ctx, inv, &cli.RunOptions{Stdin: stdin, Stdout: stdout, Stderr: stderr})
	if err != nil {
		log.WithError(err).Error("command failed")
	}
	return cli.ExitCode(err)
}

// configureLogLevel applies DAO_LOG_LEVEL, falling back to debug under --verbose and info
// otherwise.
func configureLogLevel(inv *cli.Invocation) {
	level := log.InfoLevel
	if inv.Flags()["verbose"] == "true" {
		level = log.DebugLevel
	}
	if s, ok := os.LookupEnv(logLevelEnv); ok {
		parsed, err := log.ParseLevel(s)
		if err != nil {
			log.WithError(err).Warnf("ignoring %s", logLevelEnv)
		} else {
			level = parsed
		}
	}
	log.SetLevel(level)
}
