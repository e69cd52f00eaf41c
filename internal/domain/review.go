package domain

import "time"

// ReviewRecord is one admitted review, shaped exactly as it is exported.
type ReviewRecord struct {
	ID            string        `json:"reviewId"`
	Rating        int           `json:"rating"` // integral 1..5
	Comment       string        `json:"comment"`
	Language      string        `json:"language"`
	CreatedAt     *time.Time    `json:"createdAt,omitempty"`
	LocalizedDate string        `json:"localizedDate,omitempty"`
	Response      *string       `json:"response,omitempty"`
	Photos        []string      `json:"reviewPhotos"`
	Reviewer      PersonProfile `json:"reviewer"`
	Host          PersonProfile `json:"host"`
}

type PersonProfile struct {
	ID          string  `json:"id"`
	FirstName   string  `json:"firstName"`
	ProfilePath string  `json:"profilePath"`
	PictureURL  string  `json:"pictureUrl"`
	Location    *string `json:"location,omitempty"` // reviewers only, hosts never carry one
	IsSuperhost bool    `json:"isSuperhost"`
}

// RoomResult is the per-room outcome. Reviews holds whatever was admitted
// before the run for this room finished or failed; Err is nil on full success.
type RoomResult struct {
	RoomURL string         `json:"roomUrl"` // echoed verbatim from the input
	Reviews []ReviewRecord `json:"reviews"`
	Err     *RoomError     `json:"error,omitempty"`
}

func (r RoomResult) Failed() bool { return r.Err != nil }
