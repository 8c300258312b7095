package settings

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadMissingGivesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.MaxImageDimension != 3000 || s.ExportFormat != "png" {
		t.Errorf("defaults = %+v", s)
	}
	if len(s.HiddenRegions) != 0 || s.MapPath != "" {
		t.Errorf("unexpected values: %+v", s)
	}
	if s.Path() != path {
		t.Errorf("Path = %q", s.Path())
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	s.MapPath = "/maps/felucca.png"
	s.RegionPath = "/data/regions.dfn"
	s.HiddenRegions = []string{"Britain", "Yew"}
	s.ExportFormat = "svg"
	s.MaxImageDimension = 2048
	if err := s.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.MapPath != s.MapPath || got.RegionPath != s.RegionPath {
		t.Errorf("paths = %q %q", got.MapPath, got.RegionPath)
	}
	if !reflect.DeepEqual(got.HiddenRegions, s.HiddenRegions) {
		t.Errorf("HiddenRegions = %v", got.HiddenRegions)
	}
	if got.ExportFormat != "svg" || got.MaxImageDimension != 2048 {
		t.Errorf("options = %q %d", got.ExportFormat, got.MaxImageDimension)
	}
}

func TestMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	os.WriteFile(path, []byte("{not json"), 0o644)
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed settings")
	}
}

func TestInvalidExportFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	os.WriteFile(path, []byte(`{"export_format":"gif"}`), 0o644)
	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.ExportFormat != "png" {
		t.Errorf("ExportFormat = %q, want png", s.ExportFormat)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("ATLAS_MAP_PATH", "/env/map.png")
	path := filepath.Join(t.TempDir(), "settings.json")
	os.WriteFile(path, []byte(`{"map_path":"/file/map.png"}`), 0o644)
	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.MapPath != "/env/map.png" {
		t.Errorf("MapPath = %q, want env value", s.MapPath)
	}
}

func TestLoadDotEnv(t *testing.T) {
	const key = "ATLAS_DOTENV_TEST_LOG"
	os.Unsetenv(key)
	t.Cleanup(func() { os.Unsetenv(key) })

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	os.WriteFile(envFile, []byte(key+"=/tmp/atlas.log\n"), 0o644)

	if err := LoadDotEnv(filepath.Join(dir, "missing.env"), envFile); err != nil {
		t.Fatal(err)
	}
	if got := os.Getenv(key); got != "/tmp/atlas.log" {
		t.Errorf("%s = %q", key, got)
	}
	if err := LoadDotEnv(filepath.Join(dir, "none.env")); err != nil {
		t.Errorf("missing file should be skipped: %v", err)
	}
}
