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

type vestedCmd struct {
	date string
	json bool
}

func (*vestedCmd) Name() string     { return "vested" }
func (*vestedCmd) Synopsis() string { return "display vested and unvested options per grant" }
func (*vestedCmd) Usage() string {
	return `ct vested [-d <date>] [-json] [<grant-id>...]

  Displays the vesting state of option grants on a date. All grants are listed
  unless some grant ids are given.
`
}

func (c *vestedCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the vesting state, defaults to today.")
	f.BoolVar(&c.json, "json", false, "print the report as json")
}

func (c *vestedCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	for _, id := range f.Args() {
		if err := captable.CheckID(captable.OptionGrantPrefix, id); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	r, err := DecodeRecord()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading record: %v\n", err)
		return subcommands.ExitFailure
	}

	grants := r.OptionGrants
	if f.NArg() > 0 {
		grants = make([]captable.OptionGrant, 0, f.NArg())
		for _, id := range f.Args() {
			g := r.OptionGrant(id)
			if g == nil {
				fmt.Fprintf(os.Stderr, "Error: unknown option grant %q\n", id)
				return subcommands.ExitFailure
			}
			grants = append(grants, *g)
		}
	}

	report := renderer.NewVesting(r, on, grants)
	if c.json {
		if err := printJSON(report, ""); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.VestingMarkdown(report))
	return subcommands.ExitSuccess
}
