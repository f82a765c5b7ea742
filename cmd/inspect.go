package cmd

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/etnz/oneshot/converter"
	"github.com/etnz/oneshot/renderer"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

type inspectCmd struct{}

func (*inspectCmd) Name() string     { return "inspect" }
func (*inspectCmd) Synopsis() string { return "display the transactions of a converted statement" }
func (*inspectCmd) Usage() string {
	return `oneshot inspect <file.csv|file.xlsx>

  Displays the transactions of a spreadsheet produced by convert, with the
  total of credits and debits.

`
}

func (*inspectCmd) SetFlags(f *flag.FlagSet) {}

func (*inspectCmd) Args() complete.Predictor {
	return predict.Or(predict.Files("*.csv"), predict.Files("*.xlsx"))
}

func (*inspectCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: inspect takes exactly one file")
		return subcommands.ExitUsageError
	}
	path := f.Arg(0)
	ts, err := converter.ReadTransactions(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderTransactions(filepath.Base(path), ts))
	return subcommands.ExitSuccess
}
