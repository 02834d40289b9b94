// Package ingest imports composition metadata from external sources into
// the catalog. Sources produce Candidates; the Importer matches them
// against the (title, composer, year) natural key and inserts the rest.
package ingest

// Candidate is a composition record proposed by an external source before
// it has been matched against the catalog.
type Candidate struct {
	Title           string
	Composer        string
	Year            *int
	DurationSeconds *int
	Description     *string
	Source          string
}
