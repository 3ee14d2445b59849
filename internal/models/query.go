package models

// Sort order values accepted at the API boundary.
const (
	SortOrderAsc  = "asc"
	SortOrderDesc = "desc"
)

// sortFields is the allow-list of columns that may appear in an ORDER BY
// or an index sort. Anything else is rejected before being interpolated.
var sortFields = map[string]struct{}{
	"id":            {},
	"title":         {},
	"like_count":    {},
	"collect_count": {},
	"created_at":    {},
	"updated_at":    {},
}

// ValidSortField reports whether field may be used as a sort column.
func ValidSortField(field string) bool {
	_, ok := sortFields[field]
	return ok
}

// searchSortFields is the subset of sortFields that exist as sortable fields
// in the index mapping. Counters are not projected into documents and title
// is analyzed text, so those sort only on the relational path.
var searchSortFields = map[string]struct{}{
	"id":         {},
	"created_at": {},
	"updated_at": {},
}

// ValidSearchSortField reports whether field may sort an index query.
func ValidSearchSortField(field string) bool {
	_, ok := searchSortFields[field]
	return ok
}

// PostQuery carries the filter, sort, and pagination parameters shared by
// the structured (relational) and full-text (index) query paths.
// Page is 1-based at this boundary.
type PostQuery struct {
	ID         *int64   `json:"id"`
	NotID      *int64   `json:"not_id"`
	SearchText string   `json:"search_text"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Tags       []string `json:"tags"`    // results must carry every tag
	OrTags     []string `json:"or_tags"` // results must carry at least one
	UserID     *int64   `json:"user_id"`
	SortField  string   `json:"sort_field"`
	SortOrder  string   `json:"sort_order"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
}

// Offset translates the 1-based page into a 0-based row offset.
func (q PostQuery) Offset() int {
	page := q.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * q.PageSize
}

// PostPage is one page of posts plus the total match count.
type PostPage struct {
	Records  []*Post `json:"records"`
	Total    int64   `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}
