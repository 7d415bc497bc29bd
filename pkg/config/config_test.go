package config

import (
	"testing"

	"github.com/spf13/pflag"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Root != "." {
		t.Errorf("root = %q, want .", cfg.Root)
	}
	if cfg.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Port)
	}
	if !cfg.Augment.Enabled || !cfg.Augment.AllRoots {
		t.Errorf("augment defaults = %+v, want enabled with all roots", cfg.Augment)
	}
	if cfg.Format != "json" {
		t.Errorf("format = %q, want json", cfg.Format)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SWIFT_DEP_GRAPH_PORT", "9090")
	t.Setenv("SWIFT_DEP_GRAPH_HIDE_TRANSIENT", "true")
	t.Setenv("SWIFT_DEP_GRAPH_AUGMENT__ALL_ROOTS", "false")

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Port)
	}
	if !cfg.HideTransient {
		t.Error("hide-transient env override not applied")
	}
	if cfg.Augment.AllRoots {
		t.Error("augment.all-roots env override not applied")
	}
}

func TestLoadFlagsWinOverEnv(t *testing.T) {
	t.Setenv("SWIFT_DEP_GRAPH_PORT", "9090")

	f := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f.Int("port", 8080, "")
	f.Bool("stable-ids", false, "")
	if err := f.Parse([]string{"--port=7000", "--stable-ids"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(f)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != 7000 {
		t.Errorf("port = %d, want flag value 7000", cfg.Port)
	}
	if !cfg.StableIDs {
		t.Error("stable-ids flag not applied")
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	t.Setenv("SWIFT_DEP_GRAPH_FORMAT", "gexf")

	if _, err := Load(nil); err == nil {
		t.Error("expected error for unsupported format")
	}
}
