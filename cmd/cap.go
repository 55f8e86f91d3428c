package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/captable"
	"github.com/etnz/captable/renderer"
	"github.com/google/subcommands"
)

// capCmd holds the flags for the 'cap' subcommand.
type capCmd struct {
	date  string
	json  bool
	query string
}

func (*capCmd) Name() string     { return "cap" }
func (*capCmd) Synopsis() string { return "display the cap table on a given date" }
func (*capCmd) Usage() string {
	return `ct cap [-d <date>] [-json] [-q <jsonpath>]

  Displays the ownership of the company on a given date: issued shares, vested and
  unvested options, outstanding and fully diluted counts per stakeholder.

  With -json the report is printed as json, -q selects part of it with a jsonpath
  expression (implies -json).

Usage Examples:
$ ct cap -d 2025-03-01
$ ct cap -q '$.totals.fd.totalFD'
`
}

func (c *capCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the cap table, defaults to today.")
	f.BoolVar(&c.json, "json", false, "print the report as json")
	f.StringVar(&c.query, "q", "", "jsonpath query applied to the json report")
}

func (c *capCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	r, err := DecodeRecord()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading record: %v\n", err)
		return subcommands.ExitFailure
	}

	report := renderer.NewCapTable(r, captable.CalcCap(r, on))
	if c.json || c.query != "" {
		if err := printJSON(report, c.query); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.CapTableMarkdown(report))
	return subcommands.ExitSuccess
}
