package resource

// ListQuery is the storage-level listing request built by the engine.
type ListQuery struct {
	Search       string
	SearchFields []string
	Where        map[string]any
	SortBy       string
	SortOrder    string
	Limit        int
	Offset       int
}

// Store abstracts record storage for the generic engine. Implementations must
// stay table-name-agnostic: no branching on resource identity.
type Store interface {
	List(table string, q ListQuery) ([]map[string]any, int, error)
	Get(table string, id string) (map[string]any, error)
	Insert(table string, data map[string]any) (map[string]any, error)
	InsertMany(table string, items []map[string]any) ([]map[string]any, error)
	Update(table string, id string, data map[string]any) (map[string]any, error)
	Delete(table string, id string) error
	SoftDelete(table string, id string) error
	DeleteMany(table string, ids []string) (int64, error)
}
