package constant

const (
	// DefaultSite is the host serving episode pages.
	DefaultSite = "jut.su"

	// NotFoundMarker appears in the body of any episode page that does not exist.
	NotFoundMarker = "Страницы не существует или она была удалена."

	// DefaultExtension is used when a media URL has no file extension.
	DefaultExtension = "mp4"
)
