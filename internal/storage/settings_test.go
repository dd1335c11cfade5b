package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// neutralizeEnv blanks every settings variable so ambient environment
// does not leak into a test. Empty values are treated as unset.
func neutralizeEnv(t *testing.T) {
	t.Helper()
	keys := []string{
		"POMODORINO_ACTIVITY_MINUTES",
		"POMODORINO_SHORT_BREAK_MINUTES",
		"POMODORINO_LONG_BREAK_MINUTES",
		"POMODORINO_BREAKS_UNTIL_LONG",
		"POMODORINO_SKIP_PROMPT",
		"POMODORINO_WARNING_SECONDS",
		"POMODORINO_LOCK",
		"POMODORINO_JINGLE",
		"POMODORINO_AUTOSTART",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}

func writeSettingsFile(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, settingsFileName), []byte(content), 0o644); err != nil {
		t.Fatalf("write settings file: %v", err)
	}
}

func TestLoadSettingsFromMissingFile(t *testing.T) {
	neutralizeEnv(t)

	settings, err := LoadSettingsFrom(t.TempDir())
	if err != nil {
		t.Fatalf("LoadSettingsFrom() failed: %v", err)
	}
	if settings != DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", settings)
	}
}

func TestLoadSettingsFromYaml(t *testing.T) {
	neutralizeEnv(t)
	dir := t.TempDir()
	writeSettingsFile(t, dir, `
activity_minutes: 50
short_break_minutes: 10
long_break_minutes: 20
breaks_until_long_break: 3
skip_prompt: false
warning_lead_seconds: 45
lock_on_break: true
audio_path: /usr/share/sounds/bell.ogg
autostart: true
`)

	settings, err := LoadSettingsFrom(dir)
	if err != nil {
		t.Fatalf("LoadSettingsFrom() failed: %v", err)
	}

	if settings.Timer.ActivityDuration != 50*time.Minute {
		t.Errorf("ActivityDuration = %v, want 50m", settings.Timer.ActivityDuration)
	}
	if settings.Timer.ShortBreakDuration != 10*time.Minute {
		t.Errorf("ShortBreakDuration = %v, want 10m", settings.Timer.ShortBreakDuration)
	}
	if settings.Timer.LongBreakDuration != 20*time.Minute {
		t.Errorf("LongBreakDuration = %v, want 20m", settings.Timer.LongBreakDuration)
	}
	if settings.Timer.BreaksUntilLong != 3 {
		t.Errorf("BreaksUntilLong = %d, want 3", settings.Timer.BreaksUntilLong)
	}
	if settings.Timer.SkipPromptEnabled {
		t.Error("SkipPromptEnabled = true, want false")
	}
	if settings.Timer.WarningLead != 45*time.Second {
		t.Errorf("WarningLead = %v, want 45s", settings.Timer.WarningLead)
	}
	if !settings.Timer.LockOnBreak {
		t.Error("LockOnBreak = false, want true")
	}
	if settings.Timer.AudioPath != "/usr/share/sounds/bell.ogg" {
		t.Errorf("AudioPath = %q", settings.Timer.AudioPath)
	}
	if !settings.Autostart {
		t.Error("Autostart = false, want true")
	}
}

func TestPartialYamlKeepsDefaults(t *testing.T) {
	neutralizeEnv(t)
	dir := t.TempDir()
	writeSettingsFile(t, dir, "activity_minutes: 30\n")

	settings, err := LoadSettingsFrom(dir)
	if err != nil {
		t.Fatalf("LoadSettingsFrom() failed: %v", err)
	}
	if settings.Timer.ActivityDuration != 30*time.Minute {
		t.Errorf("ActivityDuration = %v, want 30m", settings.Timer.ActivityDuration)
	}
	if settings.Timer.ShortBreakDuration != 5*time.Minute {
		t.Errorf("ShortBreakDuration = %v, want default 5m", settings.Timer.ShortBreakDuration)
	}
	if !settings.Timer.SkipPromptEnabled {
		t.Error("SkipPromptEnabled should keep its default when absent")
	}
}

func TestMalformedYamlFails(t *testing.T) {
	neutralizeEnv(t)
	dir := t.TempDir()
	writeSettingsFile(t, dir, "activity_minutes: [not a number\n")

	if _, err := LoadSettingsFrom(dir); err == nil {
		t.Error("LoadSettingsFrom() should fail on malformed yaml")
	}
}

func TestEnvOverridesYaml(t *testing.T) {
	neutralizeEnv(t)
	dir := t.TempDir()
	writeSettingsFile(t, dir, "activity_minutes: 30\nlock_on_break: false\n")
	t.Setenv("POMODORINO_ACTIVITY_MINUTES", "40")
	t.Setenv("POMODORINO_LOCK", "true")
	t.Setenv("POMODORINO_WARNING_SECONDS", "0")

	settings, err := LoadSettingsFrom(dir)
	if err != nil {
		t.Fatalf("LoadSettingsFrom() failed: %v", err)
	}
	if settings.Timer.ActivityDuration != 40*time.Minute {
		t.Errorf("ActivityDuration = %v, want env override 40m", settings.Timer.ActivityDuration)
	}
	if !settings.Timer.LockOnBreak {
		t.Error("LockOnBreak = false, want env override true")
	}
	if settings.Timer.WarningLead != 0 {
		t.Errorf("WarningLead = %v, want 0 (warning disabled)", settings.Timer.WarningLead)
	}
}

func TestEnvFileApplied(t *testing.T) {
	neutralizeEnv(t)
	dir := t.TempDir()
	envContent := "POMODORINO_SHORT_BREAK_MINUTES=7\nPOMODORINO_LONG_BREAK_MINUTES=10\n"
	if err := os.WriteFile(filepath.Join(dir, envFileName), []byte(envContent), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	// Loading the env file mutates the process environment; undo it.
	t.Cleanup(func() {
		os.Unsetenv("POMODORINO_SHORT_BREAK_MINUTES")
		os.Unsetenv("POMODORINO_LONG_BREAK_MINUTES")
	})
	os.Unsetenv("POMODORINO_SHORT_BREAK_MINUTES")
	// Process environment wins over the env file.
	t.Setenv("POMODORINO_LONG_BREAK_MINUTES", "25")

	settings, err := LoadSettingsFrom(dir)
	if err != nil {
		t.Fatalf("LoadSettingsFrom() failed: %v", err)
	}
	if settings.Timer.ShortBreakDuration != 7*time.Minute {
		t.Errorf("ShortBreakDuration = %v, want 7m from env file", settings.Timer.ShortBreakDuration)
	}
	if settings.Timer.LongBreakDuration != 25*time.Minute {
		t.Errorf("LongBreakDuration = %v, want 25m (process env beats env file)", settings.Timer.LongBreakDuration)
	}
}

func TestSaveAndReload(t *testing.T) {
	neutralizeEnv(t)
	dir := t.TempDir()

	saved := DefaultSettings()
	saved.Timer.ActivityDuration = 50 * time.Minute
	saved.Timer.BreaksUntilLong = 3
	saved.Timer.SkipPromptEnabled = false
	saved.Timer.WarningLead = 45 * time.Second
	saved.Timer.LockOnBreak = true
	saved.Timer.AudioPath = "/tmp/jingle.ogg"
	saved.Autostart = true

	if err := SaveSettingsTo(dir, saved); err != nil {
		t.Fatalf("SaveSettingsTo() failed: %v", err)
	}
	if !SettingsFileExists(dir) {
		t.Fatal("SettingsFileExists() = false after save")
	}

	loaded, err := LoadSettingsFrom(dir)
	if err != nil {
		t.Fatalf("LoadSettingsFrom() failed: %v", err)
	}
	if loaded != saved {
		t.Errorf("loaded = %+v, want %+v", loaded, saved)
	}
}

func TestSettingsFileExists(t *testing.T) {
	dir := t.TempDir()
	if SettingsFileExists(dir) {
		t.Error("SettingsFileExists() = true for empty dir")
	}
	writeSettingsFile(t, dir, "activity_minutes: 25\n")
	if !SettingsFileExists(dir) {
		t.Error("SettingsFileExists() = false after writing the file")
	}
}
