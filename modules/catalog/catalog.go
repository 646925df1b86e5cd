package catalog

// Container holds a list of numbers.
type Container struct {
	Items []int `json:"items"`
}

type Book struct {
	Title  string   `json:"title"`
	Author string   `json:"author,omitempty"`
	Year   int      `json:"year,omitzero"`
	Tags   []string `json:"tags,omitempty"`
}

// Untitled is the factory for books whose title is not known yet.
func Untitled(author string) Book {
	return Book{Title: "Untitled", Author: author}
}

// Shelf groups books. Featured usually refers to one of Books by name.
type Shelf struct {
	Name     string            `json:"name"`
	Labels   map[string]string `json:"labels,omitempty"`
	Books    []*Book           `json:"books,omitempty"`
	Featured *Book             `json:"featured,omitempty"`
}
