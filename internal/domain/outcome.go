package domain

// DownloadOutcome is the terminal result of one channel worker. Exactly one
// outcome is produced per processed channel.
type DownloadOutcome struct {
	Channel int    `json:"channel"`
	Success bool   `json:"success"`
	Files   int    `json:"files"`
	Err     string `json:"error,omitempty"`
}
