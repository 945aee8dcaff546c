package entity

// RowMode is the per-row edit toggle of the watch-age list.
type RowMode string

const (
	RowViewing RowMode = "viewing"
	RowEditing RowMode = "editing"
)

// WatchAge is an age-rating label that only lives as long as the page does.
type WatchAge struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Mode  RowMode `json:"mode,omitempty"`
	// Draft is the text in the row's edit box while Mode is RowEditing.
	Draft string `json:"draft,omitempty"`
}

func (w WatchAge) Editing() bool {
	return w.Mode == RowEditing
}
