package response

import "catalog-console/internal/data/entity"

// WatchAgePage is the watch-age screen. State is the serialized list that
// round-trips through the page's forms.
type WatchAgePage struct {
	Items []entity.WatchAge
	Label string
	State string
}
