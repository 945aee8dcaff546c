package entity

// GenreCategories is the fixed option list of the upload form's genre picker.
var GenreCategories = []string{"Romance", "Mystery", "Fantasy", "Thriller", "Adventure"}

// AssetKind is one of the three file slots of an upload.
type AssetKind string

const (
	AssetPoster   AssetKind = "poster"
	AssetBackdrop AssetKind = "backdrop"
	AssetVideo    AssetKind = "video"
)

// AssetKinds is the order files are uploaded in.
var AssetKinds = []AssetKind{AssetPoster, AssetBackdrop, AssetVideo}

// Folder is the storage folder objects of this kind are written to.
func (k AssetKind) Folder() string {
	switch k {
	case AssetPoster:
		return "posters"
	case AssetBackdrop:
		return "backdrops"
	case AssetVideo:
		return "videos"
	default:
		return string(k)
	}
}

// ContentRecord is the row inserted into the "content" table for one upload.
// URLs are nil when the matching file was not provided.
type ContentRecord struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ReleaseYear string   `json:"release_year"`
	Genres      []string `json:"genres"`
	WatchAge    string   `json:"watch_age"`
	PosterURL   *string  `json:"poster_url"`
	BackdropURL *string  `json:"backdrop_url"`
	VideoURL    *string  `json:"video_url"`
}

// UploadedAsset is a stored file and where it can be fetched from.
type UploadedAsset struct {
	Kind        AssetKind
	StoragePath string
	PublicURL   string
}
