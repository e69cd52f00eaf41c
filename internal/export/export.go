package export

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"roomreviews/internal/domain"
)

// Format is one of the supported output encodings.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
	FormatExcel Format = "excel"
	FormatXML   Format = "xml"
	FormatHTML  Format = "html"
)

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatJSON, FormatJSONL, FormatCSV, FormatExcel, FormatXML, FormatHTML:
		return f, nil
	case "xlsx": // how most people spell excel files
		return FormatExcel, nil
	default:
		return "", &domain.ConfigError{Reason: "unsupported output format " + s}
	}
}

// DefaultPath places output under data/ with a format-typical extension.
func DefaultPath(f Format) string {
	ext := string(f)
	if f == FormatExcel {
		ext = "xlsx"
	}
	return filepath.Join("data", "reviews."+ext)
}

// Write exports results to path in the given format, creating parent
// directories as needed. JSON keeps the per-room nesting and error
// markers; every other format flattens to one row or element per
// review, failed rooms contributing whatever was admitted before the
// failure.
func Write(results []domain.RoomResult, f Format, path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	var err error
	switch f {
	case FormatJSON:
		err = writeJSON(results, path)
	case FormatJSONL:
		err = writeJSONL(results, path)
	case FormatCSV:
		err = writeCSV(results, path)
	case FormatExcel:
		err = writeExcel(results, path)
	case FormatXML:
		err = writeXML(results, path)
	case FormatHTML:
		err = writeHTML(results, path)
	default:
		return &domain.ConfigError{Reason: "unsupported output format " + string(f)}
	}
	if err != nil {
		return err
	}

	log.Info().
		Str("format", string(f)).
		Str("path", path).
		Int("reviews", countReviews(results)).
		Msg("export written")
	return nil
}

func countReviews(results []domain.RoomResult) int {
	n := 0
	for _, r := range results {
		n += len(r.Reviews)
	}
	return n
}
