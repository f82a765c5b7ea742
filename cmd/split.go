package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/etnz/oneshot"
	"github.com/etnz/oneshot/renderer"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

type splitCmd struct {
	pdf       string
	schedules string
	brief     bool
}

func (*splitCmd) Name() string { return "split" }
func (*splitCmd) Synopsis() string {
	return "find the split of an income between the Individual and SBC schedules with the lowest tax"
}
func (*splitCmd) Usage() string {
	return `oneshot split [-pdf <file>] [-schedules <file>] [-brief] [<income>]

  Allocates the income between the Individual and the Small Business
  Corporation tax schedules so that the total tax is minimal. The income is
  read from the first line of the standard input when not given.

  Examples: 1000000, R1 000 000, 1,000,000.

`
}

func (c *splitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.pdf, "pdf", "", "also write the report as a PDF file")
	f.StringVar(&c.schedules, "schedules", "", "YAML file with the tax schedules, ONESHOT_SCHEDULES or the built-in schedules by default")
	f.BoolVar(&c.brief, "brief", false, "do not compare with a single schedule")
}

func (c *splitCmd) Flags() map[string]complete.Predictor {
	return map[string]complete.Predictor{
		"pdf":       predict.Files("*.pdf"),
		"schedules": predict.Files("*.yaml"),
		"brief":     predict.Nothing,
	}
}

func (c *splitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	input, err := incomeInput(f.Args(), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading income: %v\n", err)
		return subcommands.ExitFailure
	}
	income, err := oneshot.ParseIncome(input)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	opt, err := optimizer(c.schedules)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading schedules: %v\n", err)
		return subcommands.ExitFailure
	}

	res, err := opt.Split(income)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	printMarkdown(renderer.RenderSplit(res, renderer.SplitRenderOptions{SkipComparison: c.brief}))

	if c.pdf != "" {
		if err := writePDF(c.pdf, res); err != nil {
			fmt.Fprintf(stderr, "Error writing PDF: %v\n", err)
			return subcommands.ExitFailure
		}
		log.WithField("file", c.pdf).Info("PDF written")
	}
	return subcommands.ExitSuccess
}

// incomeInput returns the income typed on the command line, or the first line of r.
func incomeInput(args []string, r io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return line, nil
}

func writePDF(path string, res oneshot.SplitResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := renderer.WriteSplitPDF(f, res, time.Now()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
