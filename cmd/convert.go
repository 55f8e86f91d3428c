package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"slices"

	"github.com/etnz/captable"
	"github.com/etnz/captable/renderer"
	"github.com/google/subcommands"
)

type convertCmd struct {
	price   float64
	post    bool
	date    string
	decimal bool
	json    bool
}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "simulate SAFE conversions at a priced round" }
func (*convertCmd) Usage() string {
	return `ct convert -price <price> [-post] [-d <date>] [-decimal] [-json]

  Converts every SAFE of the record at the round price per share. Each SAFE
  converts at the lowest of the round price, its cap price and its discounted
  price. The cap price divides the cap by the outstanding shares on the date.

  -post treats every SAFE as post-money, otherwise each SAFE's own flag is used.
  -decimal uses exact decimal arithmetic instead of floating point.

Usage Examples:
$ ct convert -price 2.00
$ ct convert -price 1.25 -post -decimal
`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.price, "price", 0, "round price per share (required)")
	f.BoolVar(&c.post, "post", false, "treat every SAFE as post-money")
	f.StringVar(&c.date, "d", "", "Date of the outstanding share count, defaults to today.")
	f.BoolVar(&c.decimal, "decimal", false, "use decimal arithmetic")
	f.BoolVar(&c.json, "json", false, "print the report as json")
}

func (c *convertCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	priced := false
	f.Visit(func(fl *flag.Flag) { priced = priced || fl.Name == "price" })
	if !priced {
		fmt.Fprintln(os.Stderr, "Error: -price is required")
		return subcommands.ExitUsageError
	}
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
	if c.post {
		// work on a copy, the record is shared.
		cp := *r
		cp.SAFEs = slices.Clone(r.SAFEs)
		for i := range cp.SAFEs {
			cp.SAFEs[i].PostMoney = true
		}
		r = &cp
	}

	var p captable.Pricer = captable.FloatPricer{}
	if c.decimal {
		p = captable.DecimalPricer{}
	}
	if c.price < captable.MinRoundPrice {
		log.Printf("round price %v is below %v, using the minimum", c.price, captable.MinRoundPrice)
	}

	ct := captable.CalcCap(r, on)
	convs := captable.ConvertAll(p, r, ct, c.price)
	report := renderer.NewConversions(r, on, c.price, ct.Totals.Outstanding, convs)
	if c.json {
		if err := printJSON(report, ""); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.ConversionsMarkdown(report))
	return subcommands.ExitSuccess
}
