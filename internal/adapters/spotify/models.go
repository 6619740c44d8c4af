package spotify

// Artist is the slice of the full artist object we keep
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
	Followers  struct {
		Total int64 `json:"total"`
	} `json:"followers"`
}

// Album is the slice of the full album object we keep
type Album struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
	TotalTracks int    `json:"total_tracks"`
	Label       string `json:"label"`
}

// Track is the slice of the full track object we keep
type Track struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	DurationMS int64  `json:"duration_ms"`
	Explicit   bool   `json:"explicit"`
	Popularity int    `json:"popularity"`
}
