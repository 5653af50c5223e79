package event

// SettingsResetData is the data for settings.reset events.
type SettingsResetData struct {
	Version uint64 `json:"version"`
}

// ConfigRegisteredData is the data for config.registered events.
type ConfigRegisteredData struct {
	Path string `json:"path"`
}

// ConfigChangedData is the data for config.changed events.
type ConfigChangedData struct {
	Paths []string `json:"paths"`
}

// WordsAddedData is the data for words.added events.
type WordsAddedData struct {
	Path  string   `json:"path"`
	Words []string `json:"words"`
}
