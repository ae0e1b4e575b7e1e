package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/biaslab/internal/model"
)

func TestFlatten(t *testing.T) {
	tree := map[string]any{
		"output": map[string]any{"dir": "analysis", "plots": false},
		"top":    1,
	}
	got := flatten("", tree)

	want := map[string]any{"output.dir": "analysis", "output.plots": false, "top": 1}
	if len(got) != len(want) {
		t.Fatalf("Expected %d keys, got %v", len(want), got)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %v, want %v", k, got[k], v)
		}
	}
}

func TestSetDefaults_EnvOverride(t *testing.T) {
	v := viper.New()
	if err := setDefaults(v, model.DefaultConfig()); err != nil {
		t.Fatalf("setDefaults failed: %v", err)
	}
	v.SetEnvPrefix("BIASLAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	t.Setenv("BIASLAB_OUTPUT_DIR", "/tmp/elsewhere")
	t.Setenv("BIASLAB_COLLECT_RUNS", "3")

	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if cfg.Output.Dir != "/tmp/elsewhere" {
		t.Errorf("Expected env override for output.dir, got %s", cfg.Output.Dir)
	}
	if cfg.Collect.Runs != 3 {
		t.Errorf("Expected env override for collect.runs, got %d", cfg.Collect.Runs)
	}
	if cfg.Cache.DiskTTL != 30*24*time.Hour {
		t.Errorf("Expected default disk TTL to survive, got %v", cfg.Cache.DiskTTL)
	}
	if cfg.GroundTruth.GoalDiff != 1 || len(cfg.Analysis.Comparisons) != 2 {
		t.Errorf("Defaults lost: %+v", cfg.GroundTruth)
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".biaslab", "config.yaml")

	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("writeDefaultConfig failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	var cfg model.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("Written config is not valid YAML: %v", err)
	}
	if cfg.GroundTruth.Wins != 10 || cfg.Input.Pattern != "Run*_*_responses.json" {
		t.Errorf("Unexpected config contents: %+v", cfg.Input)
	}

	if err := writeDefaultConfig(path); err == nil {
		t.Error("Expected error when the config file already exists")
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)

	if got := buf.String(); got != "biaslab v"+Version+"\n" {
		t.Errorf("Unexpected version output %q", got)
	}
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"validate", "analyze", "design", "collect", "config", "version"} {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("Command %s not registered", name)
		}
	}
}

func TestApplyInputFlags(t *testing.T) {
	cfg := model.DefaultConfig()
	if err := validateCmd.Flags().Set("output-dir", "out"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		_ = validateCmd.Flags().Set("output-dir", "")
		validateCmd.Flags().Lookup("output-dir").Changed = false
	})

	applyInputFlags(validateCmd, cfg)

	if cfg.Output.Dir != "out" {
		t.Errorf("Expected flag to override output dir, got %s", cfg.Output.Dir)
	}
	if cfg.Input.Dir != "results" {
		t.Errorf("Unset flag must not override config, got %s", cfg.Input.Dir)
	}
}
