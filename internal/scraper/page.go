package scraper

// Page is the fixed-shape record produced by automatic scraping
type Page struct {
	Title      string   `json:"title"`
	Headings   []string `json:"headings"`
	Paragraphs []string `json:"paragraphs"`
	Links      []Link   `json:"links"`
	Images     []Image  `json:"images"`
}

// Link is an anchor; Href is nil when the attribute is absent
type Link struct {
	Text string  `json:"text"`
	Href *string `json:"href,omitempty"`
}

// Image is an img element; either attribute may be absent
type Image struct {
	Alt *string `json:"alt,omitempty"`
	Src *string `json:"src,omitempty"`
}
