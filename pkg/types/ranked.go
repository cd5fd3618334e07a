package types

// Kind names a ranked entity type. Each kind keeps one position ranking per
// scope: columns are ranked within a board, tasks within a column.
type Kind string

// Ranked entity kinds.
const (
	KindColumn Kind = "column"
	KindTask   Kind = "task"
)

// Kinds lists every ranked kind for enumeration.
var Kinds = []Kind{KindColumn, KindTask}

// ScopeKind returns the name of the entity that groups siblings of kind k.
func (k Kind) ScopeKind() string {
	switch k {
	case KindColumn:
		return "board"
	case KindTask:
		return KindColumn.String()
	default:
		return ""
	}
}

func (k Kind) String() string { return string(k) }

// Valid reports whether k is a known ranked kind.
func (k Kind) Valid() bool {
	return k == KindColumn || k == KindTask
}

// Ranked is the placement of one ranked entity: the scope it belongs to and
// its 1-based position among the scope's live members. Position 0 is used
// only transiently while an entity is parked during a move.
type Ranked struct {
	ID       string `json:"id"`
	ScopeID  string `json:"scope_id"`
	Position int    `json:"position"`
}
