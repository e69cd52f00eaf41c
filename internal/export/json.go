package export

import (
	"encoding/json"
	"os"

	"roomreviews/internal/domain"
)

// writeJSON emits the per-room results as-is, error markers included.
func writeJSON(results []domain.RoomResult, path string) error {
	b, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(b, '\n'), 0o644)
}

// jsonlReview is the flat per-review line shape: the room URL riding
// alongside the record fields.
type jsonlReview struct {
	RoomURL string `json:"roomUrl"`
	domain.ReviewRecord
}

func writeJSONL(results []domain.RoomResult, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	for _, res := range results {
		for _, rec := range res.Reviews {
			if err := enc.Encode(jsonlReview{RoomURL: res.RoomURL, ReviewRecord: rec}); err != nil {
				f.Close()
				return err
			}
		}
	}
	return f.Close()
}
