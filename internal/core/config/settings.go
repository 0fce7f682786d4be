package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Settings holds user-tunable engine settings persisted in settings.json.
// Titles extend it by embedding Settings in their own struct.
type Settings struct {
	FPSLimit     uint    `json:"fps_limit"`
	AudioGeneral float32 `json:"audio_general"`

	physicsTickInterval float32
}

// SettingsObject is implemented by *Settings and by any struct embedding it.
type SettingsObject interface {
	Base() *Settings
}

func NewSettings() *Settings {
	return &Settings{
		FPSLimit:            60,
		AudioGeneral:        1,
		physicsTickInterval: 1.0 / 60.0,
	}
}

func (s *Settings) Base() *Settings { return s }

func (s *Settings) PhysicsTickInterval() float32 {
	if s.physicsTickInterval <= 0 {
		return 1.0 / 60.0
	}
	return s.physicsTickInterval
}

// LoadSettings overlays the JSON file at path onto target. A missing file is
// not an error. A malformed file leaves target untouched and returns
// ErrInvalidSettings so the caller can log it and continue with defaults.
func LoadSettings(path string, target SettingsObject) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read settings %s: %w", path, err)
	}
	if !json.Valid(data) {
		return fmt.Errorf("%w: %s", ErrInvalidSettings, path)
	}
	if err = json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidSettings, path, err)
	}
	return nil
}

// SaveSettings writes target back so that newly introduced keys show up in the file.
func SaveSettings(path string, target SettingsObject) error {
	data, err := json.MarshalIndent(target, "", "    ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create settings dir: %w", err)
		}
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write settings %s: %w", path, err)
	}
	return nil
}
