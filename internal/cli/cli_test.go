// CarMatch - Vehicle Listing Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carmatch

package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/carmatch/internal/recommend"
)

const testCSV = "price,mileage,year,condition,model,fuel_type,vehicle_category,available_seating,doors," +
	"engine,transmission,drivetrain,mpg,exterior_color,interior_color,dealership_name,dealer_city," +
	"dealer_state,dealer_zip,distance_from_richardson_mi\n" +
	"31250,12400,2023,Used,RAV4 XLE Hybrid,Hybrid,SUV,5,4,2.5L I4,CVT,AWD,41/38,Blue,Black,Toyota of Richardson,Richardson,TX,75080,2.3\n" +
	"24500,30100,2020,Used,Camry LE,Gasoline,Sedan,5,4,,,FWD,28/39,,,,,,,\n" +
	"44900,,2024,New,Sienna XLE,Hybrid,Minivan,8,4,,,FWD,36/36,Silver,Gray,Toyota of Plano,Plano,TX,75024,11.8\n" +
	"52000,,2024,New,Highlander Platinum,Gasoline,SUV,8,4,,,AWD,22/29,,,,,,,\n"

func writeTestCSV(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cars.csv")
	if err := os.WriteFile(path, []byte(testCSV), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd("1.2.3")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCmd_Subcommands(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd("dev")
	for _, name := range []string{"recommend", "extract", "canonical", "version"} {
		if c, _, err := cmd.Find([]string{name}); err != nil || c.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.Contains(out, "1.2.3") {
		t.Errorf("output = %q, want version", out)
	}
}

func TestCanonicalCmd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"canonical", "2022 Toyota RAV4 XLE Hybrid"}, "rav4"},
		{[]string{"canonical", "RAV4", "LE"}, "rav4"},
	}

	for _, tt := range tests {
		out, err := execute(t, tt.args...)
		if err != nil {
			t.Fatalf("%v error = %v", tt.args, err)
		}
		if got := strings.TrimSpace(out); got != tt.want {
			t.Errorf("%v = %q, want %q", tt.args, got, tt.want)
		}
	}

	if _, err := execute(t, "canonical"); err == nil {
		t.Error("canonical without args should fail")
	}
}

func TestExtractCmd(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "extract", "awd suv")
	if err != nil {
		t.Fatalf("extract error = %v", err)
	}
	if want := strings.TrimSpace(recommend.Describe(recommend.Extract("awd suv"))); strings.TrimSpace(out) != want {
		t.Errorf("output = %q, want %q", out, want)
	}

	out, err = execute(t, "extract", "--json", "awd", "suv")
	if err != nil {
		t.Fatalf("extract --json error = %v", err)
	}
	var c recommend.NoteConstraints
	if err := json.Unmarshal([]byte(out), &c); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if !c.RequireAWD {
		t.Errorf("constraints = %+v, want RequireAWD", c)
	}
}

func TestRecommendCmd_Table(t *testing.T) {
	t.Parallel()

	path := writeTestCSV(t)
	out, err := execute(t, "recommend", "--catalog", path, "--budget-max", "35000", "--limit", "2")
	if err != nil {
		t.Fatalf("recommend error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "RANK") {
		t.Errorf("header = %q", lines[0])
	}
}

func TestRecommendCmd_JSONWithFeedback(t *testing.T) {
	t.Parallel()

	path := writeTestCSV(t)
	out, err := execute(t, "recommend", "--catalog", path, "--like", "3", "--reject", "2", "--json")
	if err != nil {
		t.Fatalf("recommend error = %v", err)
	}

	var results []recommend.ScoredResult
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results, want the full catalog of 4", len(results))
	}
	if results[0].ID != 3 {
		t.Errorf("top result = %d (%s), want the liked listing 3", results[0].ID, results[0].Model)
	}
}

func TestRecommendCmd_Errors(t *testing.T) {
	t.Parallel()

	if _, err := execute(t, "recommend", "--catalog", filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("missing catalog should fail")
	}

	path := writeTestCSV(t)
	if _, err := execute(t, "recommend", "--catalog", path, "--like", "99"); err == nil {
		t.Error("unknown listing id should fail")
	}
}
