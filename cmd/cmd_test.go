package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/subcommands"
)

// testRecordJSON is a founder, an employee with a 4 years grant and a SAFE investor.
const testRecordJSON = `{
  "schemaVersion": 2,
  "company": {"id": "co_acme", "name": "Acme Inc.", "formationDate": "2024-01-01", "entityType": "C_CORP", "jurisdiction": "DE", "currency": "USD"},
  "stakeholders": [
    {"id": "sh_alice", "name": "Alice", "type": "person"},
    {"id": "sh_carol", "name": "Carol", "type": "person"},
    {"id": "sh_fund", "name": "Seed Fund", "type": "entity"}
  ],
  "securityClasses": [
    {"id": "sc_common", "kind": "COMMON", "label": "Common", "authorized": 10000000},
    {"id": "sc_pool", "kind": "OPTION_POOL", "label": "2024 Plan", "authorized": 1000000}
  ],
  "issuances": [
    {"id": "is_1", "stakeholderId": "sh_alice", "securityClassId": "sc_common", "qty": 4000000, "date": "2024-01-02"}
  ],
  "optionGrants": [
    {"id": "og_1", "stakeholderId": "sh_carol", "qty": 480000, "exercise": 0.1, "grantDate": "2024-03-01",
     "vesting": {"start": "2024-03-01", "monthsTotal": 48, "cliffMonths": 12}}
  ],
  "safes": [
    {"id": "safe_1", "stakeholderId": "sh_fund", "amount": 500000, "cap": 8000000, "discount": 0.8, "date": "2024-06-01"}
  ],
  "valuations": [],
  "audit": []
}`

// setupRecord writes content as the app record file.
func setupRecord(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "captable.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	saved := app
	app = Config{RecordFile: path, Currency: "USD"}
	t.Cleanup(func() { app = saved })
	return path
}

// run executes the command with args, and returns its status and standard output.
func run(t *testing.T, c subcommands.Command, args ...string) (subcommands.ExitStatus, string) {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatalf("invalid args %v: %v", args, err)
	}
	var buf bytes.Buffer
	saved := stdout
	stdout = &buf
	defer func() { stdout = saved }()
	status := c.Execute(context.Background(), f)
	return status, buf.String()
}

// decode unmarshals a json output into a generic value.
func decode(t *testing.T, out string) map[string]any {
	t.Helper()
	var v map[string]any
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("output is not a json object: %v\n%s", err, out)
	}
	return v
}

func TestCapCmd(t *testing.T) {
	setupRecord(t, testRecordJSON)

	status, out := run(t, &capCmd{}, "-d", "2025-03-01", "-json")
	if status != subcommands.ExitSuccess {
		t.Fatalf("cap -json status = %v", status)
	}
	v := decode(t, out)
	if v["asOf"] != "2025-03-01" || v["company"] != "Acme Inc." {
		t.Errorf("cap -json header = %v %v", v["asOf"], v["company"])
	}
	totals := v["totals"].(map[string]any)
	if totals["outstanding"] != 4_120_000.0 {
		t.Errorf("totals.outstanding = %v, want 4120000", totals["outstanding"])
	}
	if rows := v["rows"].([]any); len(rows) != 2 {
		t.Errorf("rows = %v, want alice and carol", rows)
	}

	status, out = run(t, &capCmd{}, "-d", "2025-03-01", "-q", "$.totals.fd.totalFD")
	if status != subcommands.ExitSuccess {
		t.Fatalf("cap -q status = %v", status)
	}
	if got := strings.TrimSpace(out); got != "5000000" {
		t.Errorf("cap -q = %q, want 5000000", got)
	}
}

func TestCapCmd_Errors(t *testing.T) {
	setupRecord(t, testRecordJSON)
	if status, _ := run(t, &capCmd{}, "-d", "2025-02-30"); status != subcommands.ExitUsageError {
		t.Errorf("cap with invalid date status = %v, want usage error", status)
	}
	if status, _ := run(t, &capCmd{}, "-q", "$.[[["); status != subcommands.ExitFailure {
		t.Errorf("cap with invalid query status = %v, want failure", status)
	}

	setupRecord(t, strings.Replace(testRecordJSON, `"schemaVersion": 2`, `"schemaVersion": 3`, 1))
	if status, _ := run(t, &capCmd{}); status != subcommands.ExitFailure {
		t.Errorf("cap of a newer record status = %v, want failure", status)
	}

	app.RecordFile = filepath.Join(t.TempDir(), "missing.json")
	if status, _ := run(t, &capCmd{}); status != subcommands.ExitFailure {
		t.Errorf("cap without record status = %v, want failure", status)
	}
}

func TestValidateCmd(t *testing.T) {
	setupRecord(t, testRecordJSON)
	status, out := run(t, &validateCmd{}, "-json")
	if status != subcommands.ExitSuccess {
		t.Fatalf("validate status = %v, output:\n%s", status, out)
	}
	if v := decode(t, out); v["valid"] != true {
		t.Errorf("validate = %s, want valid", out)
	}

	// grant 2,000,000 options out of a 1,000,000 pool.
	setupRecord(t, strings.Replace(testRecordJSON, `"qty": 480000`, `"qty": 2000000`, 1))
	status, out = run(t, &validateCmd{}, "-json")
	if status != subcommands.ExitFailure {
		t.Errorf("validate status = %v, want failure", status)
	}
	if !strings.Contains(out, "exceed option pool") {
		t.Errorf("validate output does not report the pool:\n%s", out)
	}
}

func TestConvertCmd(t *testing.T) {
	setupRecord(t, testRecordJSON)

	if status, _ := run(t, &convertCmd{}, "-d", "2025-03-01"); status != subcommands.ExitUsageError {
		t.Errorf("convert without price status = %v, want usage error", status)
	}

	tests := []struct {
		args       []string
		wantReason string
		wantShares float64
	}{
		{[]string{"-price", "2"}, "discount", 312_500},
		{[]string{"-price", "2", "-decimal"}, "discount", 312_500},
		{[]string{"-price", "3", "-post"}, "cap", 274_666},
		{[]string{"-price", "3", "-post", "-decimal"}, "cap", 274_666},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			args := append([]string{"-d", "2025-03-01", "-json"}, tt.args...)
			status, out := run(t, &convertCmd{}, args...)
			if status != subcommands.ExitSuccess {
				t.Fatalf("convert status = %v", status)
			}
			conv := decode(t, out)["conversions"].([]any)[0].(map[string]any)
			if conv["reason"] != tt.wantReason || conv["shares"] != tt.wantShares {
				t.Errorf("convert = %v, want %s %v", conv, tt.wantReason, tt.wantShares)
			}
		})
	}
}

func TestVestedCmd(t *testing.T) {
	setupRecord(t, testRecordJSON)

	status, out := run(t, &vestedCmd{}, "-d", "2025-03-01", "-json", "og_1")
	if status != subcommands.ExitSuccess {
		t.Fatalf("vested status = %v", status)
	}
	g := decode(t, out)["grants"].([]any)[0].(map[string]any)
	if g["vested"] != 120_000.0 || g["unvested"] != 360_000.0 || g["fullyVestedOn"] != "2028-03-01" {
		t.Errorf("vested og_1 = %v", g)
	}

	if status, _ := run(t, &vestedCmd{}, "sh_alice"); status != subcommands.ExitUsageError {
		t.Errorf("vested with a stakeholder id status = %v, want usage error", status)
	}
	if status, _ := run(t, &vestedCmd{}, "og_404"); status != subcommands.ExitFailure {
		t.Errorf("vested with an unknown grant status = %v, want failure", status)
	}
}

func TestFmtCmd(t *testing.T) {
	path := setupRecord(t, testRecordJSON)
	if status, _ := run(t, &fmtCmd{}); status != subcommands.ExitSuccess {
		t.Fatalf("fmt status = %v", status)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), "\n    {\n      \"id\": \"sh_alice\",") {
		t.Errorf("fmt did not indent the record:\n%s", got)
	}

	invalid := strings.Replace(testRecordJSON, `"stakeholderId": "sh_carol"`, `"stakeholderId": "sh_nobody"`, 1)
	path = setupRecord(t, invalid)
	if status, _ := run(t, &fmtCmd{}); status != subcommands.ExitFailure {
		t.Errorf("fmt of an invalid record status = %v, want failure", status)
	}
	if got, _ := os.ReadFile(path); string(got) != invalid {
		t.Errorf("fmt rewrote an invalid record")
	}
}

func TestTopicCmd(t *testing.T) {
	status, out := run(t, &topicCmd{}, "safe")
	if status != subcommands.ExitSuccess || out == "" {
		t.Errorf("topic safe = %v %q", status, out)
	}
	status, out = run(t, &topicCmd{}, "-raw", "safe")
	if status != subcommands.ExitSuccess || !strings.HasPrefix(out, "# ") {
		t.Errorf("topic -raw safe = %v %q, want the markdown source", status, out)
	}
	if status, _ := run(t, &topicCmd{}, "no-such-topic"); status != subcommands.ExitFailure {
		t.Errorf("unknown topic status = %v, want failure", status)
	}
}

func TestParseConfig(t *testing.T) {
	t.Setenv("CT_RECORD_FILE", "acme.json")
	t.Setenv("CT_VERBOSE", "true")
	t.Setenv("CT_CURRENCY", "EUR")
	c, err := ParseConfig()
	if err != nil {
		t.Fatal(err)
	}
	want := Config{RecordFile: "acme.json", Verbose: true, Currency: "EUR"}
	if c != want {
		t.Errorf("ParseConfig() = %+v, want %+v", c, want)
	}

	t.Setenv("CT_VERBOSE", "maybe")
	if _, err := ParseConfig(); err == nil {
		t.Errorf("ParseConfig() with CT_VERBOSE=maybe should fail")
	}
}

func TestSetFlags(t *testing.T) {
	saved := app
	t.Cleanup(func() { app = saved })

	f := flag.NewFlagSet("ct", flag.ContinueOnError)
	SetFlags(f, Config{RecordFile: "env.json", Currency: "USD"})
	if err := f.Parse([]string{"-record", "flag.json", "-v"}); err != nil {
		t.Fatal(err)
	}
	if app.RecordFile != "flag.json" || !app.Verbose || app.Currency != "USD" {
		t.Errorf("app = %+v", app)
	}
}

func TestCompletion(t *testing.T) {
	c := Completion()
	for _, name := range []string{"cap", "convert", "vested", "validate", "fmt", "topic"} {
		if _, ok := c.Sub[name]; !ok {
			t.Errorf("no completion for %q", name)
		}
	}
	if _, ok := c.Flags["record"]; !ok {
		t.Errorf("no completion for -record")
	}
}
