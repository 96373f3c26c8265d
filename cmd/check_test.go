package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestCheckCmd(t *testing.T) {
	cmd := newCheckCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"The Stand: Complete & Uncut", "--against", "The Stand"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	got := out.String()
	for _, want := range []string{`key:  "stand complete uncut"`, `base: "stand"`, "exists: true (base_key)"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected %q in output:\n%s", want, got)
		}
	}
}

func TestEvalCmdSweep(t *testing.T) {
	cmd := newEvalCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--dataset", "../internal/evaluation/testdata/cases.jsonl", "--sweep", "0.85,0.95"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("Expected a header and 2 rows, got:\n%s", out.String())
	}
	if !strings.HasPrefix(lines[1], "0.850,1.000,1.000") {
		t.Errorf("Unexpected row for 0.85: %s", lines[1])
	}
	if !strings.HasSuffix(lines[2], ",0,1") {
		t.Errorf("Expected one false negative at 0.95: %s", lines[2])
	}
}
