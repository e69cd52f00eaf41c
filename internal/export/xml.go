package export

import (
	"encoding/xml"
	"os"
	"time"

	"roomreviews/internal/domain"
)

// XML keeps the nested shape: a flat <review> stream under <reviews>,
// each carrying its room URL plus nested reviewer/host elements and
// photo <item> children.
type xmlReviews struct {
	XMLName xml.Name    `xml:"reviews"`
	Items   []xmlReview `xml:"review"`
}

type xmlReview struct {
	RoomURL       string    `xml:"roomUrl"`
	ReviewID      string    `xml:"reviewId"`
	Rating        int       `xml:"rating"`
	Comment       string    `xml:"comment"`
	Language      string    `xml:"language"`
	CreatedAt     string    `xml:"createdAt,omitempty"`
	LocalizedDate string    `xml:"localizedDate,omitempty"`
	Response      string    `xml:"response,omitempty"`
	Photos        xmlPhotos `xml:"reviewPhotos"`
	Reviewer      xmlPerson `xml:"reviewer"`
	Host          xmlPerson `xml:"host"`
}

type xmlPhotos struct {
	Items []string `xml:"item"`
}

type xmlPerson struct {
	ID          string `xml:"id"`
	FirstName   string `xml:"firstName"`
	ProfilePath string `xml:"profilePath"`
	PictureURL  string `xml:"pictureUrl"`
	Location    string `xml:"location,omitempty"`
	IsSuperhost bool   `xml:"isSuperhost"`
}

func writeXML(results []domain.RoomResult, path string) error {
	doc := xmlReviews{}
	for _, res := range results {
		for _, rec := range res.Reviews {
			doc.Items = append(doc.Items, toXMLReview(res.RoomURL, rec))
		}
	}

	b, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	out := append([]byte(xml.Header), b...)
	return os.WriteFile(path, append(out, '\n'), 0o644)
}

func toXMLReview(roomURL string, rec domain.ReviewRecord) xmlReview {
	createdAt := ""
	if rec.CreatedAt != nil {
		createdAt = rec.CreatedAt.UTC().Format(time.RFC3339)
	}
	return xmlReview{
		RoomURL:       roomURL,
		ReviewID:      rec.ID,
		Rating:        rec.Rating,
		Comment:       rec.Comment,
		Language:      rec.Language,
		CreatedAt:     createdAt,
		LocalizedDate: rec.LocalizedDate,
		Response:      derefStr(rec.Response),
		Photos:        xmlPhotos{Items: rec.Photos},
		Reviewer:      toXMLPerson(rec.Reviewer),
		Host:          toXMLPerson(rec.Host),
	}
}

func toXMLPerson(p domain.PersonProfile) xmlPerson {
	return xmlPerson{
		ID:          p.ID,
		FirstName:   p.FirstName,
		ProfilePath: p.ProfilePath,
		PictureURL:  p.PictureURL,
		Location:    derefStr(p.Location),
		IsSuperhost: p.IsSuperhost,
	}
}
