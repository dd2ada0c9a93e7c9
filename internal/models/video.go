package models

// VideoReference identifies a single YouTube video after URL resolution.
// DurationSeconds is 0 when the metadata provider could not supply it;
// Title and Author are best-effort and may be empty.
type VideoReference struct {
	URL             string
	VideoID         string
	Title           string
	Author          string
	DurationSeconds int
}

// HasDuration reports whether a usable duration was resolved.
func (v *VideoReference) HasDuration() bool {
	return v.DurationSeconds > 0
}
