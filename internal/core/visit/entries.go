package visit

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// TimestampLayout is the layout of reports.timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// UserEntry is one attended (or not attended) user within a visit.
// Name is a snapshot of the user at capture time, not a foreign key.
type UserEntry struct {
	Name          string   `json:"name"`
	Attended      bool     `json:"attended"`
	Detail        string   `json:"detail"`
	Photos        []string `json:"photos"`
	SignaturePath string   `json:"signature_path,omitempty"`
}

// UserSignatureName returns the image file name for one user's signature.
func UserSignatureName(user string, now time.Time) string {
	safe := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == os.PathSeparator {
			return '_'
		}
		return r
	}, user)
	return fmt.Sprintf("firma_%s_%d.png", safe, now.Unix())
}

// FlattenPhotos returns the order-preserving concatenation of every entry's photos.
// This is the only way reports.photo_paths_json is produced.
func FlattenPhotos(entries []UserEntry) []string {
	photos := []string{}
	for _, e := range entries {
		photos = append(photos, e.Photos...)
	}
	return photos
}

// MarshalEntries encodes entries for reports.user_entries_json.
func MarshalEntries(entries []UserEntry) (string, error) {
	out := make([]UserEntry, len(entries))
	for i, e := range entries {
		if e.Photos == nil {
			e.Photos = []string{}
		}
		out[i] = e
	}
	data, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to encode user entries: %w", err)
	}
	return string(data), nil
}

// UnmarshalEntries decodes reports.user_entries_json. Empty input yields no entries.
func UnmarshalEntries(raw string) ([]UserEntry, error) {
	if raw == "" {
		return []UserEntry{}, nil
	}
	var entries []UserEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("failed to decode user entries: %w", err)
	}
	return entries, nil
}

// MarshalPhotos encodes reports.photo_paths_json.
func MarshalPhotos(photos []string) (string, error) {
	if photos == nil {
		photos = []string{}
	}
	data, err := json.Marshal(photos)
	if err != nil {
		return "", fmt.Errorf("failed to encode photo paths: %w", err)
	}
	return string(data), nil
}

// UnmarshalPhotos decodes reports.photo_paths_json.
func UnmarshalPhotos(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var photos []string
	if err := json.Unmarshal([]byte(raw), &photos); err != nil {
		return nil, fmt.Errorf("failed to decode photo paths: %w", err)
	}
	return photos, nil
}
