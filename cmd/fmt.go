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

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the record file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `ct fmt

  Validates and formats the record file. The record is rewritten in place as
  indented json, with dates as YYYY-MM-DD. An invalid record is left untouched.
`
}

func (*fmtCmd) SetFlags(f *flag.FlagSet) {}

func (*fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := captable.Load(app.RecordFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading record: %v\n", err)
		return subcommands.ExitFailure
	}

	if res := captable.ValidateExtended(r); !res.Valid {
		fmt.Fprint(os.Stderr, renderer.ValidationMarkdown(app.RecordFile, res))
		fmt.Fprintf(os.Stderr, "Error: %s is not valid, not formatted.\n", app.RecordFile)
		return subcommands.ExitFailure
	}

	if err := captable.Save(app.RecordFile, r); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving record: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
