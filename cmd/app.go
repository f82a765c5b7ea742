// Package cmd implements the oneshot command line.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/oneshot"
	"github.com/etnz/oneshot/config"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, group := range Groups {
		for _, cmd := range group.Commands {
			c.Register(cmd, group.Name)
		}
	}
}

// Group is a set of related commands.
type Group struct {
	Name     string
	Commands []subcommands.Command
}

// Groups lists every command of the application.
var Groups = []Group{
	{"tax", []subcommands.Command{&splitCmd{}, &schedulesCmd{}}},
	{"statements", []subcommands.Command{&convertCmd{}, &inspectCmd{}, &healthCmd{}}},
	{"help", []subcommands.Command{&topicCmd{}, &assistCmd{}}},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	plain    = flag.Bool("plain", false, "print raw markdown instead of rendering it for the terminal")
	logLevel = flag.String("log.level", "", "log level (trace, debug, info, warn, error, off), ONESHOT_LOG_LEVEL by default")

	log = logrus.WithField("module", "cmd")

	// settings is loaded by Setup.
	settings = &config.Config{
		Server:    config.DefaultServer,
		Timeout:   config.DefaultTimeout,
		LogLevel:  config.DefaultLogLevel,
		OutputDir: config.DefaultOutputDir,
	}

	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Setup loads the configuration and sets the log level. It must be called
// after the flags are parsed.
func Setup() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	logrus.SetOutput(stderr)
	settings = cfg
	log.WithFields(logrus.Fields{"server": cfg.Server, "timeout": cfg.Timeout, "schedules": cfg.Schedules}).Debug("configuration loaded")
	return nil
}

// printMarkdown renders md for the terminal, or prints it as is with -plain.
func printMarkdown(md string) {
	if *plain {
		fmt.Fprint(stdout, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		log.WithError(err).Warn("cannot create the markdown renderer")
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		log.WithError(err).Warn("cannot render markdown")
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}

// optimizer returns the optimizer over the schedules of path, or of the
// configured schedules file when path is empty.
func optimizer(path string) (oneshot.Optimizer, error) {
	if path == "" {
		path = settings.Schedules
	}
	opt, err := oneshot.OptimizerFromFile(path)
	if err != nil {
		return oneshot.Optimizer{}, err
	}
	if err := opt.Check(); err != nil {
		log.WithError(err).Warn("the split search may miss the optimum")
	}
	return opt, nil
}

// valueOr returns value, or fallback if value is empty.
func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
