package model

// Correspondent is the party a document came from or was sent to.
type Correspondent struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
