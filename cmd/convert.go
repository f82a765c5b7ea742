package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"

	"github.com/etnz/oneshot/converter"
	"github.com/etnz/oneshot/renderer"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

type convertCmd struct {
	server string
	invert bool
	format converter.Format
	year   string
	output string
}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "convert PDF bank statements into CSV or Excel files" }
func (*convertCmd) Usage() string {
	return `oneshot convert [-server <url>] [-invert] [-format csv|excel] [-year <year>|auto] [-o <dir>] <file.pdf>...

  Uploads the PDF statements to the Statement Converter server and saves the
  spreadsheets it returns. Files that are not PDF are skipped.

`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	c.format = converter.DefaultOptions().Format
	f.StringVar(&c.server, "server", "", "converter server URL, ONESHOT_SERVER by default")
	f.BoolVar(&c.invert, "invert", false, "invert the sign of every amount")
	f.Var(&c.format, "format", "output format: csv or excel")
	f.StringVar(&c.year, "year", "auto", "statement year, or auto to detect it")
	f.StringVar(&c.output, "o", "", "directory where the files are saved, ONESHOT_OUTPUT_DIR by default")
}

func (c *convertCmd) Flags() map[string]complete.Predictor {
	return map[string]complete.Predictor{
		"server": predict.Nothing,
		"invert": predict.Nothing,
		"format": predict.Set{string(converter.CSV), string(converter.Excel)},
		"year":   predict.Set{"auto"},
		"o":      predict.Dirs("*"),
	}
}

func (c *convertCmd) Args() complete.Predictor { return predict.Files("*.pdf") }

func (c *convertCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sel := converter.NewSelection()
	if _, err := sel.AddPaths(f.Args()...); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if sel.Empty() {
		fmt.Fprintf(stderr, "Error: %v\n", converter.ErrNoFiles)
		return subcommands.ExitUsageError
	}

	year, err := converter.ParseYear(c.year)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	opts := converter.Options{InvertAmounts: c.invert, Format: c.format, Year: year}
	if err := opts.Validate(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	for _, file := range sel.Files() {
		fmt.Fprintf(stderr, "%s (%s)\n", file.Name, converter.FormatSize(file.Size))
	}
	fmt.Fprintf(stderr, "%s...\n", opts.Format.Label())

	ctx, cancel := context.WithTimeout(ctx, settings.Timeout)
	defer cancel()
	client := converter.NewClient(valueOr(c.server, settings.Server), &http.Client{})
	res, err := client.Convert(ctx, sel, opts)
	if err != nil {
		var remote *converter.RemoteError
		if errors.As(err, &remote) {
			fmt.Fprintf(stderr, "Error: %s\n", remote.Message)
		} else {
			fmt.Fprintf(stderr, "Error converting statements: %v\n", err)
		}
		return subcommands.ExitFailure
	}

	saved, err := res.SaveAll(valueOr(c.output, settings.OutputDir))
	if err != nil {
		fmt.Fprintf(stderr, "Error saving files: %v\n", err)
		// still show what was saved
	}
	printMarkdown(renderer.RenderConversion(res, saved))
	if err != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
