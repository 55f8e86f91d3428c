// Package cmd implements the CLI application to inspect a company cap table record.
package cmd

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/glamour"
	"github.com/etnz/captable"
	"github.com/etnz/captable/date"
	"github.com/google/subcommands"
)

// Config is the configuration read from the environment. Global flags default to it.
type Config struct {
	// RecordFile is the path to the cap table record (JSON).
	RecordFile string `env:"CT_RECORD_FILE" envDefault:"captable.json"`
	// Verbose turns on log output.
	Verbose bool `env:"CT_VERBOSE"`
	// Currency is used for reports when the company has none.
	Currency string `env:"CT_CURRENCY" envDefault:"USD"`
}

// ParseConfig loads the configuration from environment variables.
func ParseConfig() (Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return c, fmt.Errorf("parse env: %w", err)
	}
	return c, nil
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.
var (
	app    Config
	stdout io.Writer = os.Stdout
)

// SetFlags declares the global flags on fs, with defaults taken from c.
func SetFlags(fs *flag.FlagSet, c Config) {
	app = c
	fs.StringVar(&app.RecordFile, "record", c.RecordFile, "Path to the cap table record file (JSON). Defaults to $CT_RECORD_FILE.")
	fs.BoolVar(&app.Verbose, "v", c.Verbose, "Verbose logging to stderr. Defaults to $CT_VERBOSE.")
}

// SetupLog applies the verbosity once the flags are parsed.
func SetupLog() {
	if !app.Verbose {
		log.SetOutput(io.Discard)
		return
	}
	log.SetOutput(os.Stderr)
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&capCmd{}, "reports")
	c.Register(&convertCmd{}, "reports")
	c.Register(&vestedCmd{}, "reports")

	c.Register(&validateCmd{}, "record")
	c.Register(&fmtCmd{}, "record")

	c.Register(&topicCmd{}, "help")
}

// DecodeRecord loads the record file for reports. Records at an unsupported schema
// version are rejected, and the configured currency is used when the company has none.
func DecodeRecord() (*captable.Record, error) {
	r, err := captable.Load(app.RecordFile)
	if err != nil {
		return nil, err
	}
	if err := captable.CheckSchemaVersion(r.SchemaVersion); err != nil {
		return nil, fmt.Errorf("%s must be migrated: %w", app.RecordFile, err)
	}
	if r.Company.Currency == "" {
		log.Printf("company has no currency, using %s", app.Currency)
		r.Company.Currency = app.Currency
	}
	log.Printf("loaded %s: %d stakeholders, %d issuances, %d grants, %d SAFEs", app.RecordFile,
		len(r.Stakeholders), len(r.Issuances), len(r.OptionGrants), len(r.SAFEs))
	return r, nil
}

// parseDate parses a date flag, the empty string is today.
func parseDate(s string) (date.Date, error) {
	if s == "" {
		return date.Today(), nil
	}
	return date.Parse(s)
}

// printMarkdown renders markdown for the terminal, and falls back to the raw text.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		log.Printf("cannot render markdown: %v", err)
		out = md
	}
	fmt.Fprint(stdout, out)
}

// printJSON writes v as indented json. A non empty query selects part of it first.
func printJSON(v any, query string) error {
	var out any = v
	if query != "" {
		// jsonpath works on generic values, not on go structs.
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return err
		}
		out, err = jsonpath.Get(query, doc)
		if err != nil {
			return fmt.Errorf("error evaluating query %q: %w", query, err)
		}
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
