package main

import (
	"testing"

	"github.com/vanderheijden86/histscope/internal/scope"
	"github.com/vanderheijden86/histscope/pkg/config"
)

func boolPtr(b bool) *bool { return &b }

func TestStartingScopeFlagWins(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DefaultScope = "machine"

	if got := startingScope("everywhere", cfg); got != scope.Everywhere {
		t.Fatalf("flag should win, got %v", got)
	}
}

func TestStartingScopeBadFlagFallsBack(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RememberScope = boolPtr(false)
	cfg.DefaultScope = "machine"

	if got := startingScope("galaxy", cfg); got != scope.Machine {
		t.Fatalf("bad flag should fall back to config default, got %v", got)
	}
}

func TestStartingScopeConfigDefault(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RememberScope = boolPtr(false)

	if got := startingScope("", cfg); got != scope.Directory {
		t.Fatalf("expected configured directory default, got %v", got)
	}
}

func TestStartingScopeBadConfigUsesBuiltin(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RememberScope = boolPtr(false)
	cfg.DefaultScope = "nope"

	if got := startingScope("", cfg); got != scope.Default {
		t.Fatalf("expected built-in default, got %v", got)
	}
}

func TestStartingScopeRemembersLastRun(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	if err := config.SaveState(config.State{LastScope: "everywhere"}); err != nil {
		t.Fatalf("SaveState: %v", err)
	}

	cfg := config.DefaultConfig()
	if got := startingScope("", cfg); got != scope.Everywhere {
		t.Fatalf("expected remembered scope, got %v", got)
	}
}
