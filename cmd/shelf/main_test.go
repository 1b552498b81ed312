package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunExitStatus(t *testing.T) {
	env := setupCLITestEnv(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"--config", env.configPath, "config", "validate"}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("config validate exited %d: %s", code, stderr.String())
	}
	requireContains(t, stdout.String(), "Configuration valid")

	stdout.Reset()
	stderr.Reset()
	code = run([]string{"--config", env.configPath, "borrow", "missing"}, strings.NewReader(""), &stdout, &stderr)
	if code != 1 {
		t.Fatalf("expected exit status 1 for unknown book, got %d", code)
	}
	requireContains(t, stderr.String(), "shelf: borrow missing: book not found")
}

func TestRunShellSaveAndExitIsSuccess(t *testing.T) {
	env := setupCLITestEnv(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"--config", env.configPath}, strings.NewReader(lines("7")), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("save and exit returned %d: %s", code, stderr.String())
	}
	requireContains(t, stdout.String(), "Data saved")
}
