package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/etnz/oneshot/agent"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
	"google.golang.org/genai"
)

// assistCmd is the subcommand for the AI assistant.
type assistCmd struct {
	schedules string
}

func (*assistCmd) Name() string { return "assist" }
func (*assistCmd) Synopsis() string {
	return "start an interactive session with the AI tax assistant"
}
func (*assistCmd) Usage() string {
	return `oneshot assist [-schedules <file>] [<prompt>...]

  Start an interactive session with the AI assistant. It needs a Gemini API
  key in GEMINI_API_KEY or GOOGLE_API_KEY.

`
}

func (c *assistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.schedules, "schedules", "", "YAML file with the tax schedules the assistant computes with")
}

func (c *assistCmd) Flags() map[string]complete.Predictor {
	return map[string]complete.Predictor{"schedules": predict.Files("*.yaml")}
}

func (c *assistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var prompts []string
	if f.NArg() > 0 {
		prompts = append(prompts, strings.Join(f.Args(), " "))
	}

	opt, err := optimizer(c.schedules)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading schedules: %v\n", err)
		return subcommands.ExitFailure
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	a := agent.New(stdout, stdin, agent.NewResearcher(), agent.NewTaxAdvisor(opt))
	if err := a.Run(ctx, client, prompts...); err != nil {
		fmt.Fprintln(stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
