package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nextflow.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
namespace: workflows
head_image: nextflow/head:25.04
head_cpus: 4
head_memory: 8Gi
head_prescript: /opt/setup.sh
driver: /usr/local/bin/k8s-driver
volume_mounts:
  - data-claim:/data
  - ref-claim:/ref
history:
  backend: redis
  redis_url: redis://localhost:6379/0
profiles:
  staging:
    namespace: staging
    head_cpus: 2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Namespace != "workflows" || cfg.HeadCPUs != 4 {
		t.Errorf("cfg = %+v, want parsed fields", cfg)
	}
	if len(cfg.VolumeMounts) != 2 || cfg.VolumeMounts[0] != "data-claim:/data" {
		t.Errorf("volume mounts = %v", cfg.VolumeMounts)
	}
	if cfg.History.Backend != "redis" {
		t.Errorf("history backend = %q", cfg.History.Backend)
	}
	if _, ok := cfg.Profiles["staging"]; !ok {
		t.Error("staging profile not parsed")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("NF_NAMESPACE", "team-a")
	path := writeConfig(t, "namespace: ${NF_NAMESPACE}\nhead_memory: ${NF_MEMORY:-4Gi}\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Namespace != "team-a" {
		t.Errorf("namespace = %q, want env value", cfg.Namespace)
	}
	if cfg.HeadMemory != "4Gi" {
		t.Errorf("head_memory = %q, want default", cfg.HeadMemory)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "namespace: [unclosed\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestMerge_OverlayWins(t *testing.T) {
	base := &Config{Namespace: "base", HeadCPUs: 2, HeadMemory: "4Gi"}
	base.Merge(&Config{Namespace: "overlay", HeadCPUs: 8})

	if base.Namespace != "overlay" || base.HeadCPUs != 8 {
		t.Errorf("cfg = %+v, want overlay values", base)
	}
	if base.HeadMemory != "4Gi" {
		t.Errorf("head_memory = %q, zero overlay fields must not clobber", base.HeadMemory)
	}
}

func TestApplyProfile(t *testing.T) {
	cfg := &Config{
		Namespace: "default",
		Profiles: map[string]Profile{
			"staging": {Namespace: "staging", HeadCPUs: 2},
		},
	}

	if err := cfg.ApplyProfile("staging"); err != nil {
		t.Fatalf("ApplyProfile: %v", err)
	}
	if cfg.Namespace != "staging" || cfg.HeadCPUs != 2 {
		t.Errorf("cfg = %+v, want profile overlay applied", cfg)
	}
}

func TestApplyProfile_Unknown(t *testing.T) {
	cfg := &Config{Profiles: map[string]Profile{"a": {}, "b": {}}}

	err := cfg.ApplyProfile("missing")
	if err == nil {
		t.Fatal("expected error for unknown profile")
	}
}

func TestApplyProfile_EmptyIsNoop(t *testing.T) {
	cfg := &Config{Namespace: "keep"}
	if err := cfg.ApplyProfile(""); err != nil {
		t.Fatalf("ApplyProfile: %v", err)
	}
	if cfg.Namespace != "keep" {
		t.Error("empty profile must not change the config")
	}
}
