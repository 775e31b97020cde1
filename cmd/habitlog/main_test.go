package main

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitlog/internal/constants"
)

func newParser(t *testing.T) *kong.Kong {
	t.Helper()
	grammar := CLI
	parser, err := kong.New(&grammar,
		kong.Name(constants.AppName),
		kong.Vars{"version": constants.Version},
		kong.Exit(func(code int) { t.Fatalf("unexpected exit with code %d", code) }),
	)
	if err != nil {
		t.Fatalf("failed to build parser: %v", err)
	}
	return parser
}

func TestCommandGrammar(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, "dashboard"},
		{[]string{"dashboard", "--tui"}, "dashboard"},
		{[]string{"auth", "login", "ana", "--password", "x"}, "auth login"},
		{[]string{"habit", "add", "No sugar", "--goal", "14"}, "habit add"},
		{[]string{"habit", "edit", "3", "--pause"}, "habit edit"},
		{[]string{"trigger", "rename", "4", "Boredom"}, "trigger rename"},
		{[]string{"log", "add", "5", "relapse", "--trigger", "2", "--date", "2025-03-01"}, "log add"},
		{[]string{"log", "edit", "9", "--clear-trigger"}, "log edit"},
		{[]string{"log", "export", "--format", "json"}, "log export"},
		{[]string{"--debug", "doctor"}, "doctor"},
		{[]string{"debug", "db-path"}, "debug db-path"},
		{[]string{"settings", "set", "timezone", "UTC"}, "settings set"},
		{[]string{"backup", "list"}, "backup list"},
		{[]string{"init", "--force"}, "init"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			parser := newParser(t)
			ctx, err := parser.Parse(tt.args)
			if err != nil {
				t.Fatalf("Parse(%v) failed: %v", tt.args, err)
			}
			if !strings.HasPrefix(ctx.Command(), tt.want) {
				t.Errorf("Command() = %q, want prefix %q", ctx.Command(), tt.want)
			}
		})
	}
}

func TestCommandGrammarRejects(t *testing.T) {
	tests := [][]string{
		{"log", "add", "5", "maybe"},
		{"log", "add", "5", "success", "--trigger", "2"},
		{"settings", "set", "color", "red"},
		{"habit", "add", "x", "--goal", "0"},
	}

	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			parser := newParser(t)
			if _, err := parser.Parse(args); err == nil {
				t.Errorf("Parse(%v) succeeded, want error", args)
			}
		})
	}
}
