package remote

import (
	"context"
	"fmt"
	"regexp"

	"github.com/dmitrijs2005/gophnotes/internal/client/models"
	surrealdb "github.com/surrealdb/surrealdb.go"
)

// docIDField holds our document id; SurrealDB keeps its own record id in "id".
const docIDField = "docId"

var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

type SurrealOptions struct {
	URL       string `json:"url" yaml:"url"`
	Namespace string `json:"namespace" yaml:"namespace"`
	Database  string `json:"database" yaml:"database"`
	Username  string `json:"username" yaml:"username"`
	Password  string `json:"password" yaml:"password"`
}

// SurrealStore keeps each collection in a table of the same name, keyed by
// type::thing(collection, id).
type SurrealStore struct {
	db *surrealdb.DB
}

func NewSurrealStore(ctx context.Context, opts SurrealOptions) (*SurrealStore, error) {
	db, err := surrealdb.FromEndpointURLString(ctx, opts.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to SurrealDB: %v", ErrUnavailable, err)
	}

	if opts.Username != "" && opts.Password != "" {
		if _, err := db.SignIn(ctx, map[string]any{
			"user": opts.Username,
			"pass": opts.Password,
		}); err != nil {
			_ = db.Close(ctx)
			return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
		}
	}

	if err := db.Use(ctx, opts.Namespace, opts.Database); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("failed to use namespace/database: %w", err)
	}

	return &SurrealStore{db: db}, nil
}

func (s *SurrealStore) Set(ctx context.Context, collection, id string, fields models.Fields) error {
	content := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		if k == "id" {
			continue
		}
		content[k] = v
	}
	content[docIDField] = id

	_, err := surrealdb.Query[any](ctx, s.db, `UPSERT type::thing($tb, $id) CONTENT $content`, map[string]any{
		"tb":      collection,
		"id":      id,
		"content": content,
	})
	if err != nil {
		return fmt.Errorf("failed to set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *SurrealStore) Get(ctx context.Context, collection, id string) (models.Fields, error) {
	res, err := surrealdb.Query[[]map[string]any](ctx, s.db, `SELECT * FROM type::thing($tb, $id)`, map[string]any{
		"tb": collection,
		"id": id,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s/%s: %w", collection, id, err)
	}
	docs := surrealDocuments(res)
	if len(docs) == 0 {
		return nil, nil
	}
	return docs[0], nil
}

func (s *SurrealStore) Delete(ctx context.Context, collection, id string) error {
	_, err := surrealdb.Query[any](ctx, s.db, `DELETE type::thing($tb, $id)`, map[string]any{
		"tb": collection,
		"id": id,
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *SurrealStore) Query(ctx context.Context, collection, field string, value any) ([]models.Fields, error) {
	if !fieldName.MatchString(field) {
		return nil, fmt.Errorf("invalid field name %q", field)
	}
	res, err := surrealdb.Query[[]map[string]any](ctx, s.db,
		`SELECT * FROM type::table($tb) WHERE `+field+` = $value`,
		map[string]any{
			"tb":    collection,
			"value": value,
		})
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", collection, err)
	}
	return surrealDocuments(res), nil
}

func (s *SurrealStore) Ping(ctx context.Context) error {
	if _, err := surrealdb.Query[any](ctx, s.db, `RETURN true`, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *SurrealStore) Close() error {
	return s.db.Close(context.Background())
}

func surrealDocuments(res *[]surrealdb.QueryResult[[]map[string]any]) []models.Fields {
	if res == nil || len(*res) == 0 {
		return nil
	}
	rows := (*res)[0].Result
	out := make([]models.Fields, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromSurrealRow(row))
	}
	return out
}

// fromSurrealRow replaces the record id with our document id.
func fromSurrealRow(row map[string]any) models.Fields {
	f := make(models.Fields, len(row))
	for k, v := range row {
		switch k {
		case "id":
		case docIDField:
			if s, ok := v.(string); ok {
				f["id"] = s
			}
		default:
			f[k] = v
		}
	}
	return f
}
