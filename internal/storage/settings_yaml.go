// Package storage loads and saves user settings. Precedence:
// built-in defaults, then the YAML settings file, then the optional
// dotenv file next to it, then POMODORINO_* process environment
// variables.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"pomodorino/internal/core/model"
)

const (
	settingsFileName = "settings.yaml"
	envFileName      = "env"
)

// Settings bundles the timer configuration with app-level options.
type Settings struct {
	Timer     model.Config
	Autostart bool
}

// DefaultSettings returns the out-of-the-box configuration.
func DefaultSettings() Settings {
	return Settings{Timer: model.DefaultConfig()}
}

type yamlSettings struct {
	ActivityMinutes    int    `yaml:"activity_minutes"`
	ShortBreakMinutes  int    `yaml:"short_break_minutes"`
	LongBreakMinutes   int    `yaml:"long_break_minutes"`
	BreaksUntilLong    int    `yaml:"breaks_until_long_break"`
	SkipPrompt         *bool  `yaml:"skip_prompt"`
	WarningLeadSeconds *int   `yaml:"warning_lead_seconds"`
	LockOnBreak        *bool  `yaml:"lock_on_break"`
	AudioPath          string `yaml:"audio_path"`
	Autostart          *bool  `yaml:"autostart"`
}

// ConfigDir resolves the per-app configuration directory.
func ConfigDir(appName string) (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appName), nil
}

// LoadSettings reads settings from the standard location for appName.
// A missing settings file yields defaults, not an error.
func LoadSettings(appName string) (Settings, error) {
	dir, err := ConfigDir(appName)
	if err != nil {
		return DefaultSettings(), err
	}
	return LoadSettingsFrom(dir)
}

// LoadSettingsFrom reads settings from an explicit directory.
func LoadSettingsFrom(dir string) (Settings, error) {
	settings := DefaultSettings()

	rawData, err := os.ReadFile(filepath.Join(dir, settingsFileName))
	switch {
	case errors.Is(err, os.ErrNotExist):
		// keep defaults
	case err != nil:
		return settings, fmt.Errorf("read settings file: %w", err)
	default:
		var fileData yamlSettings
		if err := yaml.Unmarshal(rawData, &fileData); err != nil {
			return settings, fmt.Errorf("parse settings yaml: %w", err)
		}
		applyYamlSettings(&settings, fileData)
	}

	// A dotenv file populates the environment without overriding
	// variables already set on the process.
	if err := godotenv.Load(filepath.Join(dir, envFileName)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return settings, fmt.Errorf("load env file: %w", err)
	}
	applyEnvSettings(&settings)

	return settings, nil
}

// SettingsFileExists reports whether dir already has a settings file.
func SettingsFileExists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, settingsFileName))
	return err == nil
}

// SaveSettings writes settings to the standard location for appName.
func SaveSettings(appName string, settings Settings) error {
	dir, err := ConfigDir(appName)
	if err != nil {
		return err
	}
	return SaveSettingsTo(dir, settings)
}

// SaveSettingsTo writes settings to an explicit directory.
func SaveSettingsTo(dir string, settings Settings) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	skipPrompt := settings.Timer.SkipPromptEnabled
	warningSeconds := int(settings.Timer.WarningLead / time.Second)
	lockOnBreak := settings.Timer.LockOnBreak
	autostart := settings.Autostart
	fileData := yamlSettings{
		ActivityMinutes:    int(settings.Timer.ActivityDuration / time.Minute),
		ShortBreakMinutes:  int(settings.Timer.ShortBreakDuration / time.Minute),
		LongBreakMinutes:   int(settings.Timer.LongBreakDuration / time.Minute),
		BreaksUntilLong:    settings.Timer.BreaksUntilLong,
		SkipPrompt:         &skipPrompt,
		WarningLeadSeconds: &warningSeconds,
		LockOnBreak:        &lockOnBreak,
		AudioPath:          settings.Timer.AudioPath,
		Autostart:          &autostart,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, settingsFileName), serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

func applyYamlSettings(settings *Settings, fileData yamlSettings) {
	if fileData.ActivityMinutes > 0 {
		settings.Timer.ActivityDuration = time.Duration(fileData.ActivityMinutes) * time.Minute
	}
	if fileData.ShortBreakMinutes > 0 {
		settings.Timer.ShortBreakDuration = time.Duration(fileData.ShortBreakMinutes) * time.Minute
	}
	if fileData.LongBreakMinutes > 0 {
		settings.Timer.LongBreakDuration = time.Duration(fileData.LongBreakMinutes) * time.Minute
	}
	if fileData.BreaksUntilLong > 0 {
		settings.Timer.BreaksUntilLong = fileData.BreaksUntilLong
	}
	if fileData.SkipPrompt != nil {
		settings.Timer.SkipPromptEnabled = *fileData.SkipPrompt
	}
	if fileData.WarningLeadSeconds != nil && *fileData.WarningLeadSeconds >= 0 {
		settings.Timer.WarningLead = time.Duration(*fileData.WarningLeadSeconds) * time.Second
	}
	if fileData.LockOnBreak != nil {
		settings.Timer.LockOnBreak = *fileData.LockOnBreak
	}
	if fileData.AudioPath != "" {
		settings.Timer.AudioPath = fileData.AudioPath
	}
	if fileData.Autostart != nil {
		settings.Autostart = *fileData.Autostart
	}
}

func applyEnvSettings(settings *Settings) {
	if minutes, ok := envInt("POMODORINO_ACTIVITY_MINUTES"); ok && minutes > 0 {
		settings.Timer.ActivityDuration = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := envInt("POMODORINO_SHORT_BREAK_MINUTES"); ok && minutes > 0 {
		settings.Timer.ShortBreakDuration = time.Duration(minutes) * time.Minute
	}
	if minutes, ok := envInt("POMODORINO_LONG_BREAK_MINUTES"); ok && minutes > 0 {
		settings.Timer.LongBreakDuration = time.Duration(minutes) * time.Minute
	}
	if count, ok := envInt("POMODORINO_BREAKS_UNTIL_LONG"); ok && count > 0 {
		settings.Timer.BreaksUntilLong = count
	}
	if enabled, ok := envBool("POMODORINO_SKIP_PROMPT"); ok {
		settings.Timer.SkipPromptEnabled = enabled
	}
	if seconds, ok := envInt("POMODORINO_WARNING_SECONDS"); ok && seconds >= 0 {
		settings.Timer.WarningLead = time.Duration(seconds) * time.Second
	}
	if enabled, ok := envBool("POMODORINO_LOCK"); ok {
		settings.Timer.LockOnBreak = enabled
	}
	if path := os.Getenv("POMODORINO_JINGLE"); path != "" {
		settings.Timer.AudioPath = path
	}
	if enabled, ok := envBool("POMODORINO_AUTOSTART"); ok {
		settings.Autostart = enabled
	}
}

func envInt(key string) (int, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return value, true
}

func envBool(key string) (bool, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return false, false
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return value, true
}
