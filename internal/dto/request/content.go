package request

// ContentRequest holds the upload form's text and selection slots. Each
// field is a storage slot, not a form label: several labelled controls on
// the page write into the same slot.
type ContentRequest struct {
	Title       string   `form:"title"`
	Description string   `form:"description"`
	ReleaseYear string   `form:"release_year"`
	Genres      []string `form:"genres" validate:"dive,oneof=Romance Mystery Fantasy Thriller Adventure"`
	WatchAge    string   `form:"watch_age" validate:"omitempty,oneof=PG PG-13 R"`
}
