package main

import "testing"

func TestNewRootCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRootCmd()

	if cmd.Use != "readtime" {
		t.Errorf("expected use 'readtime', got %q", cmd.Use)
	}
	if cmd.Version == "" {
		t.Error("expected non-empty version")
	}

	verbose := cmd.PersistentFlags().Lookup("verbose")
	if verbose == nil {
		t.Fatal("expected verbose flag")
	}
	if verbose.Shorthand != "v" || verbose.DefValue != "false" {
		t.Errorf("unexpected verbose flag %+v", verbose)
	}
	if cmd.PersistentFlags().Lookup("log-format") == nil {
		t.Fatal("expected log-format flag")
	}

	want := map[string]bool{"estimate": false, "build": false, "version": false}
	for _, sub := range cmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected %s subcommand", name)
		}
	}
}
