package graph

// NodeKind identifies a node label in the knowledge graph
type NodeKind string

const (
	NodeMovie  NodeKind = "Movie"
	NodePerson NodeKind = "Person"
	NodeGenre  NodeKind = "Genre"
)

// EdgeKind identifies a directed relationship type in the knowledge graph
type EdgeKind string

const (
	EdgeActedIn  EdgeKind = "ACTED_IN"
	EdgeDirected EdgeKind = "DIRECTED"
	EdgeHasGenre EdgeKind = "HAS_GENRE"
)

// Role tags carried on Person nodes, per edge context
const (
	RoleActor    = "Acting"
	RoleDirector = "Directing"
)

var nodeKinds = map[NodeKind]bool{
	NodeMovie:  true,
	NodePerson: true,
	NodeGenre:  true,
}

var edgeEndpoints = map[EdgeKind][2]NodeKind{
	EdgeActedIn:  {NodePerson, NodeMovie},
	EdgeDirected: {NodePerson, NodeMovie},
	EdgeHasGenre: {NodeMovie, NodeGenre},
}

// KnownNodeKind reports whether kind is a declared node label
func KnownNodeKind(kind NodeKind) bool {
	return nodeKinds[kind]
}

// EdgeEndpoints returns the declared (from, to) node kinds of an edge kind
func EdgeEndpoints(kind EdgeKind) (from, to NodeKind, ok bool) {
	ep, ok := edgeEndpoints[kind]
	if !ok {
		return "", "", false
	}
	return ep[0], ep[1], true
}

// KeyAttribute returns the attribute used as the merge key for a node kind.
// Movie titles and person/genre names are the sole identity within the corpus.
func KeyAttribute(kind NodeKind) string {
	if kind == NodeMovie {
		return "title"
	}
	return "name"
}

// Record is one raw movie row as delivered by the external metadata provider
type Record struct {
	Title     string   `json:"title"`
	Overview  string   `json:"overview"`
	Rating    float64  `json:"rating"`
	Genres    []string `json:"genres"`
	Cast      []string `json:"cast"`
	Directors []string `json:"directors"`
}

// Document is the flat text unit indexed by the vector retriever. It is
// derived from a Record during corpus build and regenerated wholesale when
// the source record is re-processed.
type Document struct {
	Title  string `json:"title"`
	Text   string `json:"text"`
	Source Record `json:"source"`
}

// MovieRow is one aggregated traversal result: a movie together with the
// relationship attributes collected across its genre, cast and director
// edges. Rows are suitable for direct injection into a generation prompt.
type MovieRow struct {
	Title     string   `json:"title"`
	Overview  string   `json:"overview"`
	Rating    float64  `json:"rating"`
	Genres    []string `json:"genres"`
	Actors    []string `json:"actors"`
	Directors []string `json:"directors"`
}

// Stats holds node and edge counts keyed by label or relationship type
type Stats map[string]int64
