package cmd

import (
	"context"
	"flag"
	"fmt"
	"net/http"

	"github.com/etnz/oneshot/converter"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

type healthCmd struct {
	server string
}

func (*healthCmd) Name() string     { return "health" }
func (*healthCmd) Synopsis() string { return "check that the converter server is up" }
func (*healthCmd) Usage() string {
	return `oneshot health [-server <url>]

`
}

func (c *healthCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.server, "server", "", "converter server URL, ONESHOT_SERVER by default")
}

func (c *healthCmd) Flags() map[string]complete.Predictor {
	return map[string]complete.Predictor{"server": predict.Nothing}
}

func (c *healthCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, cancel := context.WithTimeout(ctx, settings.Timeout)
	defer cancel()

	server := valueOr(c.server, settings.Server)
	h, err := converter.NewClient(server, &http.Client{}).Health(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s is unreachable: %v\n", server, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "%s: %s\n", h.Status, h.Message)
	if !h.OK() {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
