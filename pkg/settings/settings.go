// Package settings persists editor preferences: the last opened map and
// region files, hidden regions and export options.
//
// Settings live in a JSON file, by default settings.json under the user
// config directory. Every key can be overridden from the environment with
// the ATLAS_ prefix, e.g. ATLAS_MAP_PATH.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "ATLAS"

// Keys
const (
	KeyMapPath           = "map_path"
	KeyRegionPath        = "region_path"
	KeyHiddenRegions     = "hidden_regions"
	KeyMaxImageDimension = "max_image_dimension"
	KeyExportFormat      = "export_format"
	KeyLastDir           = "last_dir"
	KeyLogFile           = "log_file"
)

// Settings holds persistent editor settings.
type Settings struct {
	MapPath           string
	RegionPath        string
	HiddenRegions     []string
	MaxImageDimension int
	ExportFormat      string // "png" or "svg"
	LastDir           string
	LogFile           string

	path string
	v    *viper.Viper
}

// DefaultPath returns the settings file location in the user config
// directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "atlas-settings.json"
	}
	return filepath.Join(dir, "atlas", "settings.json")
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	cwd, _ := os.Getwd()
	v.SetDefault(KeyMapPath, "")
	v.SetDefault(KeyRegionPath, "")
	v.SetDefault(KeyHiddenRegions, []string{})
	v.SetDefault(KeyMaxImageDimension, 3000)
	v.SetDefault(KeyExportFormat, "png")
	v.SetDefault(KeyLastDir, cwd)
	v.SetDefault(KeyLogFile, "")
	return v
}

// Load reads settings from path, or DefaultPath when path is empty.
// A missing file yields defaults; a malformed file is an error.
func Load(path string) (*Settings, error) {
	if path == "" {
		path = DefaultPath()
	}
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("settings %s: %w", path, err)
		}
	}

	s := &Settings{
		MapPath:           v.GetString(KeyMapPath),
		RegionPath:        v.GetString(KeyRegionPath),
		HiddenRegions:     v.GetStringSlice(KeyHiddenRegions),
		MaxImageDimension: v.GetInt(KeyMaxImageDimension),
		ExportFormat:      strings.ToLower(v.GetString(KeyExportFormat)),
		LastDir:           v.GetString(KeyLastDir),
		LogFile:           v.GetString(KeyLogFile),
		path:              path,
		v:                 v,
	}
	if s.ExportFormat != "png" && s.ExportFormat != "svg" {
		s.ExportFormat = "png"
	}
	if s.MaxImageDimension < 0 {
		s.MaxImageDimension = 0
	}
	return s, nil
}

// Path returns the file the settings were loaded from.
func (s *Settings) Path() string { return s.path }

// Save writes the settings back, creating the directory if needed.
func (s *Settings) Save() error {
	if s.v == nil {
		s.v = newViper(s.path)
	}
	hidden := s.HiddenRegions
	if hidden == nil {
		hidden = []string{}
	}
	s.v.Set(KeyMapPath, s.MapPath)
	s.v.Set(KeyRegionPath, s.RegionPath)
	s.v.Set(KeyHiddenRegions, hidden)
	s.v.Set(KeyMaxImageDimension, s.MaxImageDimension)
	s.v.Set(KeyExportFormat, s.ExportFormat)
	s.v.Set(KeyLastDir, s.LastDir)
	s.v.Set(KeyLogFile, s.LogFile)

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("settings %s: %w", s.path, err)
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("settings %s: %w", s.path, err)
	}
	return nil
}

// LoadDotEnv loads environment variables from the given .env files,
// or ./.env when none are given. Missing files are skipped; variables
// already set in the environment win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}
