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

type validateCmd struct {
	json bool
}

func (*validateCmd) Name() string     { return "validate" }
func (*validateCmd) Synopsis() string { return "check the record structure and business rules" }
func (*validateCmd) Usage() string {
	return `ct validate [-json]

  Validates the record file: schema version, structure, id formats, references
  between entities, class and option pool capacity. Business-rule warnings are
  reported too but never make the record invalid.

  Exits with a failure status when the record is not valid.
`
}

func (c *validateCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "print the result as json")
}

func (c *validateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	// the raw record, without configured defaults.
	r, err := captable.Load(app.RecordFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading record: %v\n", err)
		return subcommands.ExitFailure
	}

	res := captable.ValidateExtended(r)
	if c.json {
		if err := printJSON(res, ""); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	} else {
		printMarkdown(renderer.ValidationMarkdown(app.RecordFile, res))
	}

	if !res.Valid {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
