package config

import (
	"os"
	"path/filepath"
	"runtime"
)

const (
	// SettingsFileName is the canonical project settings file name.
	SettingsFileName = "cSpell.json"
	// settingsFileNameLower is the lower-case variant most projects use.
	settingsFileNameLower = "cspell.json"
	// EditorDir is the hidden editor configuration directory inside a folder.
	EditorDir = ".vscode"
	// EditorSettingsFileName holds the editor's own settings inside EditorDir.
	EditorSettingsFileName = "settings.json"
)

// Locate returns the candidate settings files for a folder root, highest priority first:
// <root>/.vscode/cspell.json, <root>/.vscode/cSpell.json, <root>/cspell.json, <root>/cSpell.json.
func Locate(root string) []string {
	return []string{
		filepath.Join(root, EditorDir, settingsFileNameLower),
		filepath.Join(root, EditorDir, SettingsFileName),
		filepath.Join(root, settingsFileNameLower),
		filepath.Join(root, SettingsFileName),
	}
}

// IsSettingsFileName reports whether base is one of the names Locate produces.
func IsSettingsFileName(base string) bool {
	return base == settingsFileNameLower || base == SettingsFileName
}

// DefaultSettingsPath is where AddWords creates a settings file when a folder has none.
func DefaultSettingsPath(root string) string {
	return filepath.Join(root, settingsFileNameLower)
}

// EditorSettingsPath returns <root>/.vscode/settings.json.
func EditorSettingsPath(root string) string {
	return filepath.Join(root, EditorDir, EditorSettingsFileName)
}

// Paths contains the standard paths used by cspell-settings.
type Paths struct {
	Config       string // ~/.config/cspell-settings
	State        string // ~/.local/state/cspell-settings
	UserSettings string // ~/.config/Code/User/settings.json
}

// GetPaths returns the standard paths.
func GetPaths() *Paths {
	configHome := getEnvOrDefault("XDG_CONFIG_HOME", defaultConfigHome())
	return &Paths{
		Config:       filepath.Join(configHome, "cspell-settings"),
		State:        filepath.Join(getEnvOrDefault("XDG_STATE_HOME", defaultStateHome()), "cspell-settings"),
		UserSettings: filepath.Join(configHome, "Code", "User", EditorSettingsFileName),
	}
}

// EnsurePaths creates the directories cspell-settings writes to.
func (p *Paths) EnsurePaths() error {
	for _, dir := range []string{p.Config, p.State} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// LogDir returns the directory for log files.
func (p *Paths) LogDir() string {
	return filepath.Join(p.State, "log")
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func defaultConfigHome() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("APPDATA")
	}
	return filepath.Join(os.Getenv("HOME"), ".config")
}

func defaultStateHome() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("APPDATA")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "state")
}
