package index

import "github.com/starford/ansuz/internal/models"

// CorpusIndex defines the interface for document indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type CorpusIndex interface {
	UpsertDocument(d DocumentRow, body string, refs []string) error
	DeleteDocument(path string) error
	GetChecksum(path string) (string, error)
	GetDocument(path string) (*DocumentRow, error)
	ListDocuments(limit, offset int, kind, sort string) ([]DocumentRow, int, error)
	ListSkills() ([]DocumentRow, error)
	Search(query string, limit int) ([]SearchResult, error)
	RefGraph() ([]RefNode, []models.Reference, error)
	Referencing(target string) ([]string, error)
	AllPaths() (map[string]struct{}, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

// Verify *DB satisfies CorpusIndex at compile time.
var _ CorpusIndex = (*DB)(nil)
