package remote

// QueryKind discriminates the supported document query filters.
type QueryKind string

const (
	QueryEqual       QueryKind = "equal"
	QuerySearch      QueryKind = "search"
	QueryOrderDesc   QueryKind = "orderDesc"
	QueryLimit       QueryKind = "limit"
	QueryCursorAfter QueryKind = "cursorAfter"
)

// Attributes owned by the store rather than the document fields. They are
// addressable in sorts the way regular attributes are.
const (
	AttrCreatedAt = "$createdAt"
	AttrUpdatedAt = "$updatedAt"
)

// Query is one filter, sort, limit, or cursor term of a document listing.
type Query struct {
	Kind      QueryKind
	Attribute string
	Value     any
	Limit     int
	Cursor    string
}

// Equal matches documents whose attribute equals value.
func Equal(attribute string, value any) Query {
	return Query{Kind: QueryEqual, Attribute: attribute, Value: value}
}

// Search matches documents whose string attribute contains term.
func Search(attribute, term string) Query {
	return Query{Kind: QuerySearch, Attribute: attribute, Value: term}
}

// OrderDesc sorts results by attribute, newest/highest first.
func OrderDesc(attribute string) Query {
	return Query{Kind: QueryOrderDesc, Attribute: attribute}
}

// Limit caps the number of returned documents.
func Limit(n int) Query {
	return Query{Kind: QueryLimit, Limit: n}
}

// CursorAfter returns documents positioned after the document with the given
// ID in the sorted result set.
func CursorAfter(documentID string) Query {
	return Query{Kind: QueryCursorAfter, Cursor: documentID}
}
