package crawler

// FormMap is the analyzed form structure of a page
type FormMap struct {
	URL      string    `json:"url"`
	Title    string    `json:"title"`
	Controls []Control `json:"controls"`
}

// Control is a form control or clickable element on the page
type Control struct {
	Selector    string   `json:"selector"`
	Tag         string   `json:"tag"`            // input, select, textarea, button, a, div
	Type        string   `json:"type,omitempty"` // input type attribute
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name,omitempty"`
	Label       string   `json:"label,omitempty"` // Text of the associated label
	Placeholder string   `json:"placeholder,omitempty"`
	Classes     []string `json:"classes,omitempty"`
	Visible     bool     `json:"visible"`
}
