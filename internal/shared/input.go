package shared

import (
	"encoding/json"
	"os"

	"roomreviews/internal/domain"
)

// Input is the scrape request file: which rooms to pull, how many
// reviews per room, and optionally where the export goes. Flags beat
// the file; the file beats env defaults.
type Input struct {
	RoomURLs []string    `json:"roomUrls"`
	MaxItems int         `json:"maxItems,omitempty"`
	Output   *OutputSpec `json:"output,omitempty"`
}

type OutputSpec struct {
	Format string `json:"format,omitempty"`
	Path   string `json:"path,omitempty"`
}

func LoadInput(path string) (Input, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Input{}, &domain.ConfigError{Reason: "input file: " + err.Error()}
	}
	var in Input
	if err := json.Unmarshal(b, &in); err != nil {
		return Input{}, &domain.ConfigError{Reason: "input file " + path + ": " + err.Error()}
	}
	if len(in.RoomURLs) == 0 {
		return Input{}, &domain.ConfigError{Reason: "input file " + path + ": roomUrls is empty"}
	}
	if in.MaxItems < 0 {
		return Input{}, &domain.ConfigError{Reason: "input file " + path + ": maxItems must not be negative"}
	}
	return in, nil
}
