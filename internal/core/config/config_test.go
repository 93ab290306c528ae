package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kksharma1618/svncherrypicker/internal/core/picker"
)

func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{"SVNCHERRYPICKER_DATA_DIR", "SVNCHERRYPICKER_BACKEND", "SVNCHERRYPICKER_FETCH_WORKERS", "SVN_USERNAME", "SVN_PASSWORD"} {
		t.Setenv(k, "")
	}
	// .env is read from the working directory
	t.Chdir(home)
	return home
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Backend != BackendJSON {
		t.Errorf("Backend = %q, want json", cfg.Backend)
	}
	if cfg.FetchWorkers != 4 {
		t.Errorf("FetchWorkers = %d, want 4", cfg.FetchWorkers)
	}
	if cfg.MergeTemplate != picker.DefaultMergeTemplate {
		t.Errorf("unexpected default template %q", cfg.MergeTemplate)
	}
	want := filepath.Join(home, ".config", "svncherrypicker", "data")
	if cfg.DataDir != want {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, want)
	}
}

func TestLoad_File(t *testing.T) {
	home := isolate(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
data_dir = "~/svn-data"
backend = "sqlite"
fetch_workers = 8
display = "j"
svn_username = "alice"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DataDir != filepath.Join(home, "svn-data") {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Backend != BackendSQLite || cfg.FetchWorkers != 8 || cfg.Display != "j" || cfg.SVNUsername != "alice" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if cfg.Fields != "a,d,p,m" {
		t.Errorf("unset keys should keep defaults, Fields = %q", cfg.Fields)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("SVNCHERRYPICKER_DATA_DIR", "/tmp/cp")
	t.Setenv("SVNCHERRYPICKER_BACKEND", "sqlite")
	t.Setenv("SVN_PASSWORD", "secret")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DataDir != "/tmp/cp" || cfg.Backend != BackendSQLite || cfg.SVNPassword != "secret" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	home := isolate(t)

	if err := os.WriteFile(filepath.Join(home, ".env"), []byte("SVN_USERNAME=fromdotenv\n"), 0644); err != nil {
		t.Fatal(err)
	}
	// godotenv does not override variables that are already set
	_ = os.Unsetenv("SVN_USERNAME")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SVNUsername != "fromdotenv" {
		t.Errorf("SVNUsername = %q, want fromdotenv", cfg.SVNUsername)
	}
	_ = os.Unsetenv("SVN_USERNAME")
}

func TestLoad_MergeTemplateFile(t *testing.T) {
	home := isolate(t)

	dir := filepath.Join(home, ".config", "svncherrypicker")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	tmpl := "svn merge --dry-run {{{source}}} {{{destination}}}\n"
	if err := os.WriteFile(filepath.Join(dir, "merge_template.txt"), []byte(tmpl), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MergeTemplate != "svn merge --dry-run {{{source}}} {{{destination}}}" {
		t.Errorf("MergeTemplate = %q", cfg.MergeTemplate)
	}
}

func TestLoad_Invalid(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`backend = "postgres"`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown backend")
	}

	if err := os.WriteFile(path, []byte(`backend = `), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed toml")
	}

	t.Setenv("SVNCHERRYPICKER_FETCH_WORKERS", "zero")
	if _, err := Load(""); err == nil {
		t.Error("expected error for invalid worker count")
	}
}
