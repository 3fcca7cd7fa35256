package main

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestUpdateHelpDescribesResetToReady(t *testing.T) {
	// Editing a timer always returns it to ready; the help must not
	// promise that metadata edits keep the current state.
	long := newUpdateCmd().Long
	if !strings.Contains(long, "resets the timer back to ready") {
		t.Errorf("update long help = %q, must say edits reset the timer to ready", long)
	}
	if strings.Contains(long, "keep the current state") {
		t.Errorf("update long help = %q, claims edits keep the current state", long)
	}
}

func TestJournalCommandNamesConfigKey(t *testing.T) {
	orig := configPath
	configPath = filepath.Join(t.TempDir(), "config.yaml")
	defer func() { configPath = orig }()

	cmd := newJournalCmd()
	err := cmd.RunE(cmd, nil)
	if err == nil {
		t.Fatal("journal with nothing configured: error = nil, want error")
	}
	// The message points at the actual YAML key, which is "journal".
	if !strings.Contains(err.Error(), "journal") || strings.Contains(err.Error(), "journal_path") {
		t.Errorf("error = %q, must name the journal config key", err)
	}
}
