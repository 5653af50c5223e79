package types

// WorkspaceFolder is a root location open in the editor.
type WorkspaceFolder struct {
	URI  string `json:"uri"`  // "file:///home/user/project"
	Name string `json:"name"` // Display name
}

// TextDocument identifies a document whose settings are requested.
type TextDocument struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId,omitempty"`
}
