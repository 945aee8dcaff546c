package entity

// Genre is a row of the remote "genres" table. IDs are assigned by the backend.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
