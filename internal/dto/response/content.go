package response

import "catalog-console/internal/dto/request"

type Option struct {
	Value string
	Label string
}

// UploadPage is the upload screen with whatever the user typed so far.
type UploadPage struct {
	Form           request.ContentRequest
	Message        string
	IsError        bool
	GenreOptions   []Option
	WatchAges      []Option
	ContentTypes   []Option
	ReleaseTypes   []Option
	SelectedGenres map[string]bool
}

func NewUploadPage(form request.ContentRequest, message string, isError bool, genreOptions []string) UploadPage {
	page := UploadPage{
		Form:    form,
		Message: message,
		IsError: isError,
		WatchAges: []Option{
			{"PG", "PG"}, {"PG-13", "PG-13"}, {"R", "R"},
		},
		ContentTypes: []Option{
			{"Movie", "Movie"}, {"Series", "Series"},
		},
		ReleaseTypes: []Option{
			{"Theatrical", "Theatrical"}, {"Streaming", "Streaming"},
		},
		SelectedGenres: map[string]bool{},
	}
	for _, g := range genreOptions {
		page.GenreOptions = append(page.GenreOptions, Option{g, g})
	}
	for _, g := range form.Genres {
		page.SelectedGenres[g] = true
	}
	return page
}
