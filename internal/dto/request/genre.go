package request

type GenreRequest struct {
	Name string `form:"name" validate:"notblank"`
}
