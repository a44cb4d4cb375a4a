package filter

import "docvault/internal/repository"

// Correspondents is the list policy of /api/correspondents.
var Correspondents = Set{
	Fields:          []string{"name", "slug"},
	Ordering:        []string{"name", "slug"},
	DefaultOrdering: []repository.OrderBy{{Field: "name"}},
}

// Tags is the list policy of /api/tags.
var Tags = Set{
	Fields:          []string{"name", "slug"},
	Ordering:        []string{"name", "slug"},
	DefaultOrdering: []repository.OrderBy{{Field: "name"}},
}

// Documents is the list policy of /api/documents. Search matches title,
// correspondent name and content.
var Documents = Set{
	Fields: []string{
		"title", "content",
		"correspondent__name", "correspondent__slug",
		"tags__name", "tags__slug",
	},
	Ordering:        []string{"id", "title", "correspondent__name", "created", "modified"},
	DefaultOrdering: []repository.OrderBy{{Field: "correspondent__name"}, {Field: "title"}},
	Search:          true,
}

// Logs is the list policy of /api/logs. Groups are not filterable.
var Logs = Set{
	Ordering:        []string{"time"},
	DefaultOrdering: []repository.OrderBy{{Field: "time", Desc: true}},
}
