package request

type WatchAgeRequest struct {
	Label string `form:"label" validate:"notblank"`
}
