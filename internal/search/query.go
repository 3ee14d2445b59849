package search

import "zephyr/internal/models"

// buildQueryBody translates a PostQuery into an Elasticsearch request body.
//
// Shape of the bool query:
//   - filter: is_deleted=false always, plus exact-match terms (id, user_id,
//     every required tag) and a nested should for or-tags
//   - must_not: the excluded id
//   - should: full-text matches over title and content when search text is
//     present, with minimum_should_match=1 so at least one field matches
//
// Sorting: relevance order when search text is present and no explicit sort
// field was given, otherwise the validated sort field.
func buildQueryBody(q models.PostQuery) map[string]any {
	filters := []map[string]any{
		{"term": map[string]any{"is_deleted": false}},
	}
	var mustNot []map[string]any
	var should []map[string]any

	if q.ID != nil {
		filters = append(filters, map[string]any{"term": map[string]any{"id": *q.ID}})
	}
	if q.NotID != nil {
		mustNot = append(mustNot, map[string]any{"term": map[string]any{"id": *q.NotID}})
	}
	if q.UserID != nil {
		filters = append(filters, map[string]any{"term": map[string]any{"user_id": *q.UserID}})
	}
	for _, tag := range q.Tags {
		filters = append(filters, map[string]any{"term": map[string]any{"tags": tag}})
	}
	if len(q.OrTags) > 0 {
		orShould := make([]map[string]any, 0, len(q.OrTags))
		for _, tag := range q.OrTags {
			orShould = append(orShould, map[string]any{"term": map[string]any{"tags": tag}})
		}
		filters = append(filters, map[string]any{
			"bool": map[string]any{
				"should":               orShould,
				"minimum_should_match": 1,
			},
		})
	}
	if q.Title != "" {
		filters = append(filters, map[string]any{"match": map[string]any{"title": q.Title}})
	}
	if q.Content != "" {
		filters = append(filters, map[string]any{"match": map[string]any{"content": q.Content}})
	}
	if q.SearchText != "" {
		should = append(should,
			map[string]any{"match": map[string]any{"title": q.SearchText}},
			map[string]any{"match": map[string]any{"content": q.SearchText}},
		)
	}

	boolQuery := map[string]any{"filter": filters}
	if len(mustNot) > 0 {
		boolQuery["must_not"] = mustNot
	}
	if len(should) > 0 {
		boolQuery["should"] = should
		boolQuery["minimum_should_match"] = 1
	}

	body := map[string]any{
		"query": map[string]any{"bool": boolQuery},
		"from":  q.Offset(),
		"size":  q.PageSize,
		// only IDs and scores are consumed; rows are re-read from the DB
		"_source": false,
	}

	if q.SortField != "" {
		body["sort"] = []map[string]any{
			{q.SortField: map[string]any{"order": sortOrder(q.SortOrder)}},
		}
	} else if q.SearchText != "" {
		body["sort"] = []map[string]any{
			{"_score": map[string]any{"order": "desc"}},
		}
	}

	return body
}

func sortOrder(order string) string {
	if order == models.SortOrderAsc {
		return "asc"
	}
	return "desc"
}
