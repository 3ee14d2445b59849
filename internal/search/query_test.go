package search

import (
	"testing"
	"time"

	"zephyr/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64p(v int64) *int64 { return &v }

func TestBuildQueryBodyAlwaysFiltersDeleted(t *testing.T) {
	body := buildQueryBody(models.PostQuery{Page: 1, PageSize: 10})

	boolQuery := body["query"].(map[string]any)["bool"].(map[string]any)
	filters := boolQuery["filter"].([]map[string]any)
	require.NotEmpty(t, filters)
	assert.Equal(t, map[string]any{"term": map[string]any{"is_deleted": false}}, filters[0])

	_, hasShould := boolQuery["should"]
	assert.False(t, hasShould)
	_, hasSort := body["sort"]
	assert.False(t, hasSort)
}

func TestBuildQueryBodySearchText(t *testing.T) {
	body := buildQueryBody(models.PostQuery{SearchText: "golang", Page: 1, PageSize: 10})

	boolQuery := body["query"].(map[string]any)["bool"].(map[string]any)
	should := boolQuery["should"].([]map[string]any)
	require.Len(t, should, 2)
	assert.Equal(t, map[string]any{"match": map[string]any{"title": "golang"}}, should[0])
	assert.Equal(t, map[string]any{"match": map[string]any{"content": "golang"}}, should[1])
	assert.Equal(t, 1, boolQuery["minimum_should_match"])

	// relevance order by default when searching
	sort := body["sort"].([]map[string]any)
	require.Len(t, sort, 1)
	assert.Contains(t, sort[0], "_score")
}

func TestBuildQueryBodyExplicitSortWinsOverScore(t *testing.T) {
	body := buildQueryBody(models.PostQuery{
		SearchText: "golang",
		SortField:  "created_at",
		SortOrder:  models.SortOrderAsc,
		Page:       1,
		PageSize:   10,
	})

	sort := body["sort"].([]map[string]any)
	require.Len(t, sort, 1)
	assert.Equal(t, map[string]any{"order": "asc"}, sort[0]["created_at"])
}

func TestBuildQueryBodyTermFilters(t *testing.T) {
	body := buildQueryBody(models.PostQuery{
		ID:       int64p(5),
		NotID:    int64p(6),
		UserID:   int64p(7),
		Tags:     []string{"go", "db"},
		OrTags:   []string{"redis", "es"},
		Page:     2,
		PageSize: 10,
	})

	boolQuery := body["query"].(map[string]any)["bool"].(map[string]any)
	filters := boolQuery["filter"].([]map[string]any)

	assert.Contains(t, filters, map[string]any{"term": map[string]any{"id": int64(5)}})
	assert.Contains(t, filters, map[string]any{"term": map[string]any{"user_id": int64(7)}})
	assert.Contains(t, filters, map[string]any{"term": map[string]any{"tags": "go"}})
	assert.Contains(t, filters, map[string]any{"term": map[string]any{"tags": "db"}})

	mustNot := boolQuery["must_not"].([]map[string]any)
	assert.Contains(t, mustNot, map[string]any{"term": map[string]any{"id": int64(6)}})

	var orBlock map[string]any
	for _, f := range filters {
		if b, ok := f["bool"]; ok {
			orBlock = b.(map[string]any)
		}
	}
	require.NotNil(t, orBlock, "or-tags should build a nested bool filter")
	assert.Equal(t, 1, orBlock["minimum_should_match"])
	assert.Len(t, orBlock["should"].([]map[string]any), 2)

	// 1-based page 2 with size 10 starts at row 10
	assert.Equal(t, 10, body["from"])
	assert.Equal(t, 10, body["size"])
}

func TestDocumentFromPostExcludesCounters(t *testing.T) {
	now := time.Now()
	post := &models.Post{
		ID:           42,
		Title:        "title",
		Content:      "content",
		Tags:         []string{"go"},
		UserID:       7,
		LikeCount:    100,
		CollectCount: 50,
		IsDeleted:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	doc := DocumentFromPost(post)
	assert.Equal(t, Document{
		ID:        42,
		Title:     "title",
		Content:   "content",
		Tags:      []string{"go"},
		UserID:    7,
		IsDeleted: true,
		CreatedAt: now,
		UpdatedAt: now,
	}, doc)
}
