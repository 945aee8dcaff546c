package response

import (
	"strconv"

	"catalog-console/internal/data/entity"
)

type GenreResponse struct {
	ID   int64
	Name string
}

// GenrePage is the genre screen: the list plus the add/edit box.
type GenrePage struct {
	Genres    []GenreResponse
	Name      string
	IsEditing bool
	EditID    string
}

func GenreToResponse(genre entity.Genre) GenreResponse {
	return GenreResponse{
		ID:   genre.ID,
		Name: genre.Name,
	}
}

func NewGenrePage(genres []entity.Genre, name string, editID *int64) GenrePage {
	page := GenrePage{
		Genres: make([]GenreResponse, len(genres)),
		Name:   name,
	}
	for i, g := range genres {
		page.Genres[i] = GenreToResponse(g)
	}
	if editID != nil {
		page.IsEditing = true
		page.EditID = strconv.FormatInt(*editID, 10)
	}
	return page
}
