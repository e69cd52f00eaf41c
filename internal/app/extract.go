package app

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"roomreviews/internal/domain"
)

/********** alias registries (single source of truth) **********/

var pageAliases = map[string][]string{
	"reviews":    {"reviews", "data.reviews", "items"},
	"nextCursor": {"paging.nextCursor", "paging.next_cursor", "nextCursor", "pageInfo.endCursor"},
}

var reviewAliases = map[string][]string{
	"id":            {"id", "reviewId", "review_id"},
	"rating":        {"rating", "rate", "stars", "overallRating", "rating.value"},
	"comment":       {"comments", "comment", "text", "body", "content"},
	"language":      {"language", "lang", "locale", "languageCode"},
	"createdAt":     {"createdAt", "created_at", "date", "submittedAt"},
	"localizedDate": {"localizedDate", "localized_date", "dateText"},
	"response":      {"response", "hostResponse", "host_response", "ownerResponse"},
	"photos":        {"reviewPhotos", "photos", "images", "media"},
	"reviewer":      {"reviewer", "user", "author", "guest"},
	"host":          {"host", "owner", "listingOwner"},
}

var personAliases = map[string][]string{
	"id":          {"id", "userId", "user_id"},
	"firstName":   {"firstName", "first_name", "name", "smartName"},
	"profilePath": {"profilePath", "profile_path", "profileUrl", "profile_url"},
	"pictureUrl":  {"pictureUrl", "picture_url", "profilePicture", "avatar", "thumbnail"},
	"location":    {"location", "localizedLocation", "hometown"},
	"isSuperhost": {"isSuperhost", "is_superhost", "superhost"},
}

/********** page extraction **********/

// extractedPage is one feed page reduced to usable records. skipped
// counts entries dropped for per-entry defects. An empty nextCursor
// means the feed is exhausted; that is the only exhaustion signal.
type extractedPage struct {
	records    []domain.ReviewRecord
	skipped    int
	nextCursor string
}

func extractPage(payload []byte) (extractedPage, error) {
	var root any
	if err := json.Unmarshal(payload, &root); err != nil {
		return extractedPage{}, &domain.PageShapeError{Reason: "payload is not json"}
	}
	obj, ok := root.(map[string]any)
	if !ok {
		return extractedPage{}, &domain.PageShapeError{Reason: "top level is not an object"}
	}

	var list []any
	found := false
	for _, p := range pageAliases["reviews"] {
		if raw, ok := lookupAny(obj, p).([]any); ok {
			list, found = raw, true
			break
		}
	}
	if !found {
		return extractedPage{}, &domain.PageShapeError{Reason: "no reviews array under any known key"}
	}

	page := extractedPage{}
	for _, p := range pageAliases["nextCursor"] {
		if s := lookupStr(obj, p); s != "" {
			page.nextCursor = s
			break
		}
	}

	for _, it := range list {
		entry, ok := it.(map[string]any)
		if !ok {
			page.skipped++
			log.Warn().Msg("skipping non-object review entry")
			continue
		}
		rec, reason := mapReview(entry)
		if reason != "" {
			page.skipped++
			log.Warn().Str("reason", reason).Msg("skipping review entry")
			continue
		}
		page.records = append(page.records, rec)
	}
	return page, nil
}

// mapReview normalizes one feed entry. A non-empty reason means the
// entry is unusable and gets skipped; it never fails the whole page.
func mapReview(entry map[string]any) (domain.ReviewRecord, string) {
	id := idString(entry, reviewAliases["id"]...)
	if id == "" {
		return domain.ReviewRecord{}, "missing review id"
	}
	f := getFloatFlexible(entry, reviewAliases["rating"]...)
	if f == nil {
		return domain.ReviewRecord{}, "missing rating"
	}
	rating := int(*f)
	if float64(rating) != *f || rating < 1 || rating > 5 {
		return domain.ReviewRecord{}, "rating out of range"
	}

	rec := domain.ReviewRecord{
		ID:       id,
		Rating:   rating,
		Comment:  deref(firstNonEmptyAlias(entry, reviewAliases, "comment")),
		Language: deref(firstNonEmptyAlias(entry, reviewAliases, "language")),
		Photos:   dedupStrings(firstSliceStrings(entry, reviewAliases["photos"]...)),
	}
	if rec.Photos == nil {
		rec.Photos = []string{}
	}

	rec.CreatedAt, rec.LocalizedDate = mapDates(entry)

	if s := firstNonEmptyAlias(entry, reviewAliases, "response"); s != nil {
		rec.Response = ptrStr(truncateResponse(*s))
	}

	rec.Reviewer = mapReviewer(firstMapAlias(entry, reviewAliases["reviewer"]...))
	rec.Host = mapHost(firstMapAlias(entry, reviewAliases["host"]...))
	return rec, ""
}

// mapDates resolves createdAt and localizedDate. An explicit
// localizedDate from the feed wins; otherwise it is derived from the
// parsed timestamp. An unparsable date survives as localizedDate only.
func mapDates(entry map[string]any) (*time.Time, string) {
	raw := deref(firstNonEmptyAlias(entry, reviewAliases, "createdAt"))
	loc := deref(firstNonEmptyAlias(entry, reviewAliases, "localizedDate"))

	t := parseWhen(raw)
	if t == nil {
		if loc == "" {
			loc = raw // keep whatever the feed showed
		}
		return nil, loc
	}
	if loc == "" {
		loc = t.Format("January 2006")
	}
	return t, loc
}

var whenLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"January 2, 2006",
	"January 2006",
}

func parseWhen(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range whenLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			u := t.UTC()
			return &u
		}
	}
	return nil
}

/********** person mapping **********/

var profileIDRe = regexp.MustCompile(`/users/show/(\d+)`)

func mapReviewer(m map[string]any) domain.PersonProfile {
	p := mapPerson(m)
	if m != nil {
		p.Location = firstNonEmptyAlias(m, personAliases, "location")
	}
	return p
}

func mapHost(m map[string]any) domain.PersonProfile {
	p := mapPerson(m)
	// feeds label host names as "Response from <name>" in places
	p.FirstName = stripResponsePrefix(p.FirstName)
	return p
}

// mapPerson fills the fields reviewers and hosts share. A missing id
// is recovered from the /users/show/<id> profile path when possible.
func mapPerson(m map[string]any) domain.PersonProfile {
	if m == nil {
		return domain.PersonProfile{}
	}
	p := domain.PersonProfile{
		ID:          idString(m, personAliases["id"]...),
		FirstName:   deref(firstNonEmptyAlias(m, personAliases, "firstName")),
		ProfilePath: deref(firstNonEmptyAlias(m, personAliases, "profilePath")),
		PictureURL:  deref(firstNonEmptyAlias(m, personAliases, "pictureUrl")),
	}
	if p.ID == "" && p.ProfilePath != "" {
		if match := profileIDRe.FindStringSubmatch(p.ProfilePath); match != nil {
			p.ID = match[1]
		}
	}
	if b := firstBoolFlexible(m, personAliases["isSuperhost"]...); b != nil {
		p.IsSuperhost = *b
	}
	return p
}

func stripResponsePrefix(name string) string {
	const prefix = "response from "
	if len(name) >= len(prefix) && strings.EqualFold(name[:len(prefix)], prefix) {
		return strings.TrimSpace(name[len(prefix):])
	}
	return name
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) *string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return &s
		}
	}
	return nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func ptrStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// getFloatFlexible: number from several paths (float64/int/string like "4,0").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// firstBoolFlexible: bool from several paths (bool/string/number).
func firstBoolFlexible(m map[string]any, paths ...string) *bool {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case bool:
			b := v
			return &b
		case string:
			s := strings.TrimSpace(strings.ToLower(v))
			if s == "" {
				continue
			}
			if b, err := strconv.ParseBool(s); err == nil {
				return &b
			}
		case float64:
			b := v != 0
			return &b
		}
	}
	return nil
}

// idString: identifier from string or numeric fields. Numeric ids are
// formatted plainly, never in scientific notation.
func idString(m map[string]any, paths ...string) string {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// firstMapAlias: first nested object among paths.
func firstMapAlias(m map[string]any, paths ...string) map[string]any {
	for _, k := range paths {
		if obj, ok := lookupAny(m, k).(map[string]any); ok {
			return obj
		}
	}
	return nil
}

// firstSliceStrings: accept []any with either strings or {url/src/name}.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		if raw, ok := lookupAny(m, k).([]any); ok {
			out := make([]string, 0, len(raw))
			for _, it := range raw {
				switch t := it.(type) {
				case string:
					if t != "" {
						out = append(out, t)
					}
				case map[string]any:
					if u, ok := t["url"].(string); ok && u != "" {
						out = append(out, u)
						continue
					}
					if u, ok := t["src"].(string); ok && u != "" {
						out = append(out, u)
						continue
					}
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

func dedupStrings(in []string) []string {
	if len(in) < 2 {
		return in
	}
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// truncateResponse cuts very long host responses at a word boundary.
func truncateResponse(s string) string {
	const max = 2000
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
