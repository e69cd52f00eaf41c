package export

import (
	"strings"
	"time"

	"roomreviews/internal/domain"
)

// photoSep joins photo URLs into one tabular cell.
const photoSep = "|"

// Row is one review flattened for tabular formats. Column names keep
// the dotted paths the nested JSON shape would normalize to.
type Row struct {
	RoomURL             string `csv:"roomUrl"`
	ReviewID            string `csv:"reviewId"`
	Rating              int    `csv:"rating"`
	Comment             string `csv:"comment"`
	Language            string `csv:"language"`
	CreatedAt           string `csv:"createdAt"`
	LocalizedDate       string `csv:"localizedDate"`
	Response            string `csv:"response"`
	ReviewPhotos        string `csv:"reviewPhotos"`
	ReviewerID          string `csv:"reviewer.id"`
	ReviewerFirstName   string `csv:"reviewer.firstName"`
	ReviewerProfilePath string `csv:"reviewer.profilePath"`
	ReviewerPictureURL  string `csv:"reviewer.pictureUrl"`
	ReviewerLocation    string `csv:"reviewer.location"`
	ReviewerIsSuperhost bool   `csv:"reviewer.isSuperhost"`
	HostID              string `csv:"host.id"`
	HostFirstName       string `csv:"host.firstName"`
	HostProfilePath     string `csv:"host.profilePath"`
	HostPictureURL      string `csv:"host.pictureUrl"`
	HostIsSuperhost     bool   `csv:"host.isSuperhost"`
}

// Flatten turns results into rows, one per review, keeping room order
// and then feed order within each room.
func Flatten(results []domain.RoomResult) []Row {
	total := 0
	for _, res := range results {
		total += len(res.Reviews)
	}
	rows := make([]Row, 0, total)
	for _, res := range results {
		for _, rec := range res.Reviews {
			rows = append(rows, flattenOne(res.RoomURL, rec))
		}
	}
	return rows
}

func flattenOne(roomURL string, rec domain.ReviewRecord) Row {
	createdAt := ""
	if rec.CreatedAt != nil {
		createdAt = rec.CreatedAt.UTC().Format(time.RFC3339)
	}
	return Row{
		RoomURL:             roomURL,
		ReviewID:            rec.ID,
		Rating:              rec.Rating,
		Comment:             rec.Comment,
		Language:            rec.Language,
		CreatedAt:           createdAt,
		LocalizedDate:       rec.LocalizedDate,
		Response:            derefStr(rec.Response),
		ReviewPhotos:        strings.Join(rec.Photos, photoSep),
		ReviewerID:          rec.Reviewer.ID,
		ReviewerFirstName:   rec.Reviewer.FirstName,
		ReviewerProfilePath: rec.Reviewer.ProfilePath,
		ReviewerPictureURL:  rec.Reviewer.PictureURL,
		ReviewerLocation:    derefStr(rec.Reviewer.Location),
		ReviewerIsSuperhost: rec.Reviewer.IsSuperhost,
		HostID:              rec.Host.ID,
		HostFirstName:       rec.Host.FirstName,
		HostProfilePath:     rec.Host.ProfilePath,
		HostPictureURL:      rec.Host.PictureURL,
		HostIsSuperhost:     rec.Host.IsSuperhost,
	}
}

func derefStr(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// headerStrings matches Row's csv tags, in column order. The excel and
// html writers reuse it so all tabular formats stay aligned.
func headerStrings() []string {
	return []string{
		"roomUrl", "reviewId", "rating", "comment", "language",
		"createdAt", "localizedDate", "response", "reviewPhotos",
		"reviewer.id", "reviewer.firstName", "reviewer.profilePath",
		"reviewer.pictureUrl", "reviewer.location", "reviewer.isSuperhost",
		"host.id", "host.firstName", "host.profilePath",
		"host.pictureUrl", "host.isSuperhost",
	}
}

func (r Row) cells() []any {
	return []any{
		r.RoomURL, r.ReviewID, r.Rating, r.Comment, r.Language,
		r.CreatedAt, r.LocalizedDate, r.Response, r.ReviewPhotos,
		r.ReviewerID, r.ReviewerFirstName, r.ReviewerProfilePath,
		r.ReviewerPictureURL, r.ReviewerLocation, r.ReviewerIsSuperhost,
		r.HostID, r.HostFirstName, r.HostProfilePath,
		r.HostPictureURL, r.HostIsSuperhost,
	}
}
