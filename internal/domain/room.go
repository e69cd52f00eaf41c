package domain

import (
	"net/url"
	"strings"
)

// RoomRef identifies one room listing to pull reviews for.
type RoomRef struct {
	Raw string // input URL, kept verbatim for the result echo
	URL *url.URL
	ID  string // listing id, the path segment after "rooms"
}

func (r RoomRef) Host() string { return r.URL.Host }

// ParseRoomURL validates a room URL and extracts the listing id.
// Accepted shapes: .../rooms/<id> and .../rooms/<id>/reviews, with any
// host. Failures come back as *ConfigError.
func ParseRoomURL(raw string) (RoomRef, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return RoomRef{}, &ConfigError{Reason: "empty room url"}
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return RoomRef{}, &ConfigError{Reason: "room url " + trimmed + ": " + err.Error()}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return RoomRef{}, &ConfigError{Reason: "room url " + trimmed + ": scheme must be http or https"}
	}
	if u.Host == "" {
		return RoomRef{}, &ConfigError{Reason: "room url " + trimmed + ": missing host"}
	}
	id := roomIDFromPath(u.Path)
	if id == "" {
		return RoomRef{}, &ConfigError{Reason: "room url " + trimmed + ": no room id in path"}
	}
	return RoomRef{Raw: raw, URL: u, ID: id}, nil
}

func roomIDFromPath(path string) string {
	segs := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segs {
		if s == "rooms" && i+1 < len(segs) && segs[i+1] != "" {
			return segs[i+1]
		}
	}
	return ""
}
