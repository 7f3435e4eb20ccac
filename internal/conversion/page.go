package conversion

// PageImage is one rasterized PDF page. Number is 1-based and matches the
// page's position in the source document.
type PageImage struct {
	Number  int    `json:"number"`
	Path    string `json:"path"`
	Data    []byte `json:"-"`
	Base64  string `json:"-"`
	DataURI string `json:"-"`
}

// DataURIs returns the data URIs of pages in order.
func DataURIs(pages []PageImage) []string {
	uris := make([]string, len(pages))
	for i, p := range pages {
		uris[i] = p.DataURI
	}
	return uris
}
