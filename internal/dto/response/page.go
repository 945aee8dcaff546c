package response

const (
	ToastSuccess = "success"
	ToastError   = "error"
)

// Toast is a transient notification shown at the top of a page.
type Toast struct {
	Kind    string
	Message string
}

// Page is what every template receives.
type Page struct {
	Title  string
	Path   string
	Email  string
	Toasts []Toast
	Data   any
}

// NavItem is one sidebar link.
type NavItem struct {
	Path  string
	Label string
}

var Navigation = []NavItem{
	{Path: "/dashboard", Label: "Dashboard"},
	{Path: "/upload", Label: "Upload Content"},
	{Path: "/genres", Label: "Manage Genres"},
	{Path: "/watch-age", Label: "Manage Watch Age"},
}

func (p Page) Nav() []NavItem {
	return Navigation
}
