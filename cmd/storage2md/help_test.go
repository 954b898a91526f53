package main

import (
	"bytes"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRunHelp - Per-command help
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantStdout []string
		wantStderr []string
	}{
		{name: "no command", wantStdout: []string{"Usage: storage2md <command>", "completion"}},
		{name: "convert", args: []string{"convert"}, wantStdout: []string{"Usage: storage2md convert <input>", "--images-dir", "--manifest"}},
		{name: "completion", args: []string{"completion"}, wantStdout: []string{"Supported shells:"}},
		{name: "version", args: []string{"version"}, wantStdout: []string{"Usage: storage2md version"}},
		{name: "help", args: []string{"help"}, wantStdout: []string{"Usage: storage2md help [command]"}},
		{name: "unknown", args: []string{"deploy"}, wantStderr: []string{"Unknown command: deploy", "Commands:"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv()
			runHelp(tt.args, env)
			assertContains(t, "stdout", stdout.String(), tt.wantStdout)
			assertContains(t, "stderr", stderr.String(), tt.wantStderr)
		})
	}
}

// ---------------------------------------------------------------------------
// TestPrintConvertUsage_ListsEveryFlag - Help stays in sync with the FlagSet
// ---------------------------------------------------------------------------

func TestPrintConvertUsage_ListsEveryFlag(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	printConvertUsage(&buf)
	usage := buf.String()

	for _, f := range extractFlags(newConvertFlagSet(&convertFlags{})) {
		assertContains(t, "usage", usage, []string{"--" + f.Long})
	}
}
