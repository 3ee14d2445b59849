package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"zephyr/internal/middleware"
	"zephyr/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ElasticIndex implements Index on top of an Elasticsearch cluster.
type ElasticIndex struct {
	client *elasticsearch.Client
	index  string
	logger *slog.Logger
}

// NewElasticIndex connects to the cluster and returns an index bound to the
// named index.
func NewElasticIndex(addresses []string, index string) (*ElasticIndex, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addresses,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &ElasticIndex{
		client: client,
		index:  index,
		logger: middleware.Logger.With("component", "search"),
	}, nil
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Upsert writes one document, replacing any previous version with the same ID.
func (e *ElasticIndex) Upsert(ctx context.Context, doc Document) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	res, err := e.client.Index(
		e.index,
		bytes.NewReader(body),
		e.client.Index.WithDocumentID(docID(doc.ID)),
		e.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index document %d: %w", doc.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index document %d: %s", doc.ID, res.String())
	}
	return nil
}

// BulkUpsert writes a batch of documents in one bulk request. Replaying the
// same batch is harmless: each document overwrites itself.
func (e *ElasticIndex) BulkUpsert(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for _, doc := range docs {
		action := fmt.Sprintf(`{"index":{"_index":%q,"_id":%q}}`, e.index, docID(doc.ID))
		buf.WriteString(action)
		buf.WriteByte('\n')

		body, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		buf.Write(body)
		buf.WriteByte('\n')
	}

	res, err := e.client.Bulk(
		bytes.NewReader(buf.Bytes()),
		e.client.Bulk.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("bulk upsert %d documents: %w", len(docs), err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk upsert %d documents: %s", len(docs), res.String())
	}

	var bulkResp struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			Status int `json:"status"`
			Error  struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"items"`
	}
	if err := json.NewDecoder(res.Body).Decode(&bulkResp); err != nil {
		return fmt.Errorf("decode bulk response: %w", err)
	}
	if bulkResp.Errors {
		for _, item := range bulkResp.Items {
			for _, op := range item {
				if op.Status >= 300 {
					return fmt.Errorf("bulk upsert item failed: %s: %s", op.Error.Type, op.Error.Reason)
				}
			}
		}
		return fmt.Errorf("bulk upsert reported errors")
	}
	return nil
}

// Delete removes a document. A missing document is not an error so that
// reconciliation can retry safely.
func (e *ElasticIndex) Delete(ctx context.Context, id int64) error {
	res, err := e.client.Delete(
		e.index,
		docID(id),
		e.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("delete document %d: %w", id, err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("delete document %d: %s", id, res.String())
	}
	return nil
}

// Search runs the query and returns matching post IDs with scores. Documents
// are never returned whole; callers re-hydrate rows from the primary store.
func (e *ElasticIndex) Search(ctx context.Context, q models.PostQuery) (Result, error) {
	body, err := json.Marshal(buildQueryBody(q))
	if err != nil {
		return Result{}, err
	}

	res, err := e.client.Search(
		e.client.Search.WithContext(ctx),
		e.client.Search.WithIndex(e.index),
		e.client.Search.WithBody(bytes.NewReader(body)),
		e.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return Result{}, fmt.Errorf("search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return Result{}, fmt.Errorf("search: %s", res.String())
	}

	return decodeSearchResponse(res)
}

func decodeSearchResponse(res *esapi.Response) (Result, error) {
	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID    string   `json:"_id"`
				Score *float64 `json:"_score"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return Result{}, fmt.Errorf("decode search response: %w", err)
	}

	out := Result{Total: parsed.Hits.Total.Value}
	for _, h := range parsed.Hits.Hits {
		id, err := strconv.ParseInt(h.ID, 10, 64)
		if err != nil {
			// non-numeric IDs should not exist; skip rather than fail the page
			continue
		}
		hit := Hit{ID: id}
		if h.Score != nil {
			hit.Score = *h.Score
		}
		out.Hits = append(out.Hits, hit)
	}
	return out, nil
}
