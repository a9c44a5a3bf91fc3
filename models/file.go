package models

// FileInfo is the contract returned by file intake for every stored file.
// The repository records it verbatim and never validates file contents.
type FileInfo struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
	Checksum string `json:"checksum"`
	Width    *int   `json:"width,omitempty"`
	Height   *int   `json:"height,omitempty"`
}
