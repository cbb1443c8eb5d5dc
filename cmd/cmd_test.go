package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/collection-log-advisor/internal/advisor"
	"github.com/Tiliavir/collection-log-advisor/internal/catalog"
	"github.com/Tiliavir/collection-log-advisor/internal/estimate"
	"github.com/Tiliavir/collection-log-advisor/internal/kvstore"
	"github.com/Tiliavir/collection-log-advisor/internal/model"
	"github.com/Tiliavir/collection-log-advisor/internal/rates"
)

func TestReportFlagsOptions(t *testing.T) {
	tests := []struct {
		name    string
		flags   reportFlags
		want    advisor.Options
		wantErr bool
	}{
		{"defaults", reportFlags{sort: "time"}, advisor.Options{Sort: estimate.SortByTime}, false},
		{"empty sort", reportFlags{}, advisor.Options{Sort: estimate.SortByTime}, false},
		{"iron desc", reportFlags{sort: "name", desc: true, iron: true},
			advisor.Options{Sort: estimate.SortByName, Direction: estimate.Descending, Account: model.AccountIronman}, false},
		{"main extra", reportFlags{sort: "progress", main: true, extraTime: true},
			advisor.Options{Sort: estimate.SortByProgress, Account: model.AccountNormal, WithExtraTime: true}, false},
		{"bad sort", reportFlags{sort: "speed"}, advisor.Options{}, true},
	}
	for _, tt := range tests {
		got, err := tt.flags.options()
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: err = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: options() = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		obtained, total int
		want            string
	}{
		{0, 0, "[..........]"},
		{0, 10, "[..........]"},
		{5, 10, "[#####.....]"},
		{10, 10, "[##########]"},
		{1, 3, "[###.......]"},
	}
	for _, tt := range tests {
		got := progressBar(tt.obtained, tt.total, 10)
		if got != tt.want {
			t.Errorf("progressBar(%d, %d) = %q, want %q", tt.obtained, tt.total, got, tt.want)
		}
	}
}

func TestModeName(t *testing.T) {
	if got := modeName(model.AccountIronman); got != "iron" {
		t.Errorf("modeName(IRONMAN) = %q, want iron", got)
	}
	if got := modeName(model.AccountNormal); got != "main" {
		t.Errorf("modeName(NORMAL) = %q, want main", got)
	}
}

func TestPrintReport(t *testing.T) {
	zulrah := estimate.Row{
		Activity:           "Zulrah",
		CompletionsPerHour: 24,
		Time:               estimate.Value(0.25),
		FastestName:        "Tanzanite fang",
		FastestTime:        estimate.Value(0.5),
		Obtained:           1,
		Total:              8,
	}
	barrows := estimate.Row{
		Activity: "Barrows",
		Time:     estimate.Done(),
		Obtained: 25,
		Total:    25,
		Disabled: true,
	}
	report := advisor.Report{Account: model.AccountNormal, Rows: []estimate.Row{zulrah, barrows}, Next: &zulrah}

	var buf bytes.Buffer
	if err := printReport(&buf, report); err != nil {
		t.Fatalf("printReport: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"ACTIVITY",
		"06:00:00",
		"Done!",
		"Barrows (disabled)",
		"25/25",
		"Next: Tanzanite fang from Zulrah in 12:00:00 (main rates)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := printReport(&buf, advisor.Report{}); err != nil {
		t.Fatalf("printReport: %v", err)
	}
	if got := buf.String(); got != "No activities found.\n" {
		t.Errorf("printReport(empty) = %q", got)
	}
}

func TestPrintNextNone(t *testing.T) {
	var buf bytes.Buffer
	printNext(&buf, advisor.Report{})
	if got := buf.String(); got != "Next: nothing left to obtain.\n" {
		t.Errorf("printNext(nil) = %q", got)
	}
}

func TestPrintRates(t *testing.T) {
	table := []model.Rate{
		{ActivityName: "Zulrah", UserMain: 30, UserIron: 24, UserExtraTime: 1.5, DefaultMain: 24, DefaultIron: 24, DefaultExtraTime: 1.5},
		{ActivityName: "Barrows", UserMain: 10, DefaultMain: 10},
	}
	var buf bytes.Buffer
	err := printRates(&buf, table, func(name string) bool { return name == "Barrows" })
	if err != nil {
		t.Fatalf("printRates: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], "30*") || !strings.Contains(lines[1], "1h 30m") {
		t.Errorf("Zulrah line = %q", lines[1])
	}
	if strings.Contains(lines[1], "yes") {
		t.Errorf("Zulrah should not be disabled: %q", lines[1])
	}
	if !strings.HasSuffix(strings.TrimSpace(lines[2]), "yes") {
		t.Errorf("Barrows line = %q", lines[2])
	}
}

// useMemoryStore points the commands at a fresh in-memory store holding a
// one-activity catalog.
func useMemoryStore(t *testing.T) kvstore.Store {
	t.Helper()
	prev := store
	t.Cleanup(func() { store = prev })

	store = kvstore.NewMemoryStore()
	err := catalog.Save(context.Background(), store, catalog.Catalog{
		Activities: []model.Activity{
			{Index: 1, Name: "Zulrah", Items: []model.Item{{ID: 1, Name: "Pet snakeling", NeitherInverse: 0.02, DropRateAttempts: 50}}},
		},
		Rates: []model.DefaultRate{{ActivityName: "Zulrah", CompletionsPerHourMain: model.Float(10)}},
	})
	if err != nil {
		t.Fatalf("saving catalog: %v", err)
	}
	return store
}

func TestToggleRate(t *testing.T) {
	s := useMemoryStore(t)
	ctx := context.Background()

	tests := []struct {
		disable bool
		want    string
	}{
		{true, "Disabled Zulrah.\n"},
		{false, "Enabled Zulrah.\n"},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		c := &cobra.Command{}
		c.SetContext(ctx)
		c.SetOut(&buf)
		if err := toggleRate(c, "Zulrah", tt.disable); err != nil {
			t.Fatalf("toggleRate(disable=%v): %v", tt.disable, err)
		}
		if got := buf.String(); got != tt.want {
			t.Errorf("toggleRate(disable=%v) printed %q, want %q", tt.disable, got, tt.want)
		}

		adv, err := advisor.Open(ctx, s)
		if err != nil {
			t.Fatalf("advisor.Open: %v", err)
		}
		if got := adv.Rates().IsDisabled("Zulrah"); got != tt.disable {
			t.Errorf("after toggleRate(disable=%v) IsDisabled = %v", tt.disable, got)
		}
	}

	c := &cobra.Command{}
	c.SetContext(ctx)
	c.SetOut(&bytes.Buffer{})
	if err := toggleRate(c, "Vorkath", true); !errors.Is(err, rates.ErrUnknownActivity) {
		t.Errorf("toggleRate(Vorkath) = %v, want ErrUnknownActivity", err)
	}
}

func TestRatesSubcommandsAreWired(t *testing.T) {
	for _, name := range []string{"list", "set", "reset", "disable", "enable"} {
		sub, _, err := ratesCmd.Find([]string{name})
		if err != nil || sub.Name() != name || sub.RunE == nil {
			t.Errorf("rates %s not wired (err %v)", name, err)
		}
	}
}

func TestRunClosesStoreOnCommandError(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf("[storage]\nbackend = \"sqlite\"\npath = %q\ncache_size = 0\n", filepath.Join(dir, "store.db"))
	if err := os.WriteFile(cfgFile, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	prevConfig, prevStore := configPath, store
	t.Cleanup(func() { configPath, store = prevConfig, prevStore })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := run(context.Background(), []string{"--config", cfgFile, "rates", "set", "Zulrah"})
	if err == nil || !strings.Contains(err.Error(), "nothing to set") {
		t.Fatalf("run() = %v, want the missing-flag error", err)
	}
	if _, _, err := store.Get(context.Background(), kvstore.KeyIsIron); err == nil {
		t.Error("store still open after a failed command")
	}
}
