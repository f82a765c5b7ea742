package cmd

import (
	"flag"

	"github.com/etnz/oneshot/config"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictor is implemented by commands that predict their flag values.
type flagPredictor interface {
	Flags() map[string]complete.Predictor
}

// argsPredictor is implemented by commands that predict their positional arguments.
type argsPredictor interface {
	Args() complete.Predictor
}

// Completion returns the shell completion tree of the application, global
// flags included.
//
// Install it with COMP_INSTALL=1 oneshot.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: map[string]complete.Predictor{},
	}
	flag.CommandLine.VisitAll(func(f *flag.Flag) {
		root.Flags[f.Name] = predict.Something
	})
	root.Flags["plain"] = predict.Nothing
	root.Flags["log.level"] = predict.Set(config.LevelNames())

	for _, group := range Groups {
		for _, cmd := range group.Commands {
			root.Sub[cmd.Name()] = commandCompletion(cmd)
		}
	}
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}
	return root
}

func commandCompletion(cmd subcommands.Command) *complete.Command {
	c := &complete.Command{Flags: map[string]complete.Predictor{}}
	// Flags not predicted accept anything.
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(fs)
	fs.VisitAll(func(f *flag.Flag) { c.Flags[f.Name] = predict.Something })
	if p, ok := cmd.(flagPredictor); ok {
		for name, predictor := range p.Flags() {
			c.Flags[name] = predictor
		}
	}
	if p, ok := cmd.(argsPredictor); ok {
		c.Args = p.Args()
	}
	return c
}
