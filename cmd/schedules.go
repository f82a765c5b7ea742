package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/oneshot"
	"github.com/etnz/oneshot/renderer"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

type schedulesCmd struct {
	schedules string
	check     bool
	export    bool
}

func (*schedulesCmd) Name() string     { return "schedules" }
func (*schedulesCmd) Synopsis() string { return "display the Individual and SBC tax schedules" }
func (*schedulesCmd) Usage() string {
	return `oneshot schedules [-schedules <file>] [-check | -export]

  Displays the brackets of both tax schedules.

  -check reports the brackets too narrow for the split search and fails if
  there are any. -export writes the schedules in the YAML layout read by
  -schedules.

`
}

func (c *schedulesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.schedules, "schedules", "", "YAML file with the tax schedules, ONESHOT_SCHEDULES or the built-in schedules by default")
	f.BoolVar(&c.check, "check", false, "report the brackets narrower than the search step")
	f.BoolVar(&c.export, "export", false, "write the schedules as YAML")
}

func (c *schedulesCmd) Flags() map[string]complete.Predictor {
	return map[string]complete.Predictor{
		"schedules": predict.Files("*.yaml"),
		"check":     predict.Nothing,
		"export":    predict.Nothing,
	}
}

func (c *schedulesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.check && c.export {
		fmt.Fprintln(stderr, "Error: -check and -export are exclusive")
		return subcommands.ExitUsageError
	}
	path := valueOr(c.schedules, settings.Schedules)
	opt := oneshot.DefaultOptimizer()
	if path != "" {
		individual, sbc, err := oneshot.LoadSchedules(path)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading schedules: %v\n", err)
			return subcommands.ExitFailure
		}
		opt = oneshot.NewOptimizer(individual, sbc)
	}

	switch {
	case c.export:
		if err := oneshot.EncodeSchedules(stdout, opt.Individual, opt.SBC); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess

	case c.check:
		err := opt.Check()
		if err == nil {
			fmt.Fprintf(stdout, "No bracket narrower than %s.\n", oneshot.R(opt.FineStep))
			return subcommands.ExitSuccess
		}
		// Joined errors print one bracket per line.
		fmt.Fprintln(stderr, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RenderSchedule(opt.Individual, opt.FineStep) + "\n" + renderer.RenderSchedule(opt.SBC, opt.FineStep))
	return subcommands.ExitSuccess
}
