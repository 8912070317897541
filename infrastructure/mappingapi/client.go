// Package mappingapi implements the mapping service client. The mapping
// service is the sole arbiter of the one-mapping-per-source-id constraint, so
// this client's job is to surface its uniqueness conflicts as values and to
// retry transient failures on the mutating calls, which are idempotent given
// the same destination id.
package mappingapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/ministryofjustice/hmpps-contacts-sync/domain/contact"
	"github.com/ministryofjustice/hmpps-contacts-sync/domain/mapping"
	"github.com/ministryofjustice/hmpps-contacts-sync/infrastructure/httpclient"
)

// Client talks to the mapping service.
type Client struct {
	http   *httpclient.Client
	policy httpclient.RetryPolicy
	logger *slog.Logger
}

// NewClient creates a mapping service client.
func NewClient(http *httpclient.Client, policy httpclient.RetryPolicy, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{http: http, policy: policy, logger: logger}
}

// GetBySource implements mapping.Client.
func (c *Client) GetBySource(ctx context.Context, key mapping.SourceKey) (mapping.Mapping, bool, error) {
	var dto mappingDTO
	err := c.http.Get(ctx, keyPath(key), &dto)
	if err != nil {
		if httpclient.IsNotFound(err) {
			return mapping.Mapping{}, false, nil
		}
		return mapping.Mapping{}, false, fmt.Errorf("get mapping %s: %w", key, err)
	}
	return dto.toDomain(), true, nil
}

// Create implements mapping.Client. Transient failures are retried; a 409 is
// decoded into the structured conflict and returned as a value.
func (c *Client) Create(ctx context.Context, m mapping.Mapping) (mapping.CreateResult, error) {
	err := httpclient.Retry(ctx, c.policy, func() error {
		return c.http.Post(ctx, "/mappings", fromDomain(m), nil)
	})
	if err != nil {
		if conflict := decodeConflict(err); conflict != nil {
			c.logger.Warn("mapping create conflict",
				slog.String("source", m.Source.String()),
				slog.String("existing_dps_id", conflict.Existing.DestinationID.String()),
				slog.String("duplicate_dps_id", conflict.Duplicate.DestinationID.String()),
			)
			return mapping.CreateResult{Conflict: conflict}, nil
		}
		return mapping.CreateResult{}, fmt.Errorf("create mapping %s: %w", m.Source, err)
	}
	return mapping.CreateResult{}, nil
}

// DeleteBySource implements mapping.Client. Deleting an absent mapping is
// treated as success.
func (c *Client) DeleteBySource(ctx context.Context, key mapping.SourceKey) error {
	err := httpclient.Retry(ctx, c.policy, func() error {
		return c.http.Delete(ctx, keyPath(key))
	})
	if err != nil && !httpclient.IsNotFound(err) {
		return fmt.Errorf("delete mapping %s: %w", key, err)
	}
	return nil
}

// CreateGraph implements mapping.Client.
func (c *Client) CreateGraph(ctx context.Context, g mapping.Graph) (mapping.CreateResult, error) {
	err := httpclient.Retry(ctx, c.policy, func() error {
		return c.http.Post(ctx, "/mappings/person-graph", graphFromDomain(g), nil)
	})
	if err != nil {
		if conflict := decodeConflict(err); conflict != nil {
			return mapping.CreateResult{Conflict: conflict}, nil
		}
		return mapping.CreateResult{}, fmt.Errorf("create mapping graph for %s: %w", g.Person.Source, err)
	}
	return mapping.CreateResult{}, nil
}

// ReplaceForOwner implements mapping.Client.
func (c *Client) ReplaceForOwner(ctx context.Context, owner string, add []mapping.Mapping, remove []contact.DestinationID) error {
	body := replaceRequest{
		Add:          make([]mappingDTO, 0, len(add)),
		RemoveDpsIDs: make([]string, 0, len(remove)),
	}
	for _, m := range add {
		body.Add = append(body.Add, fromDomain(m))
	}
	for _, id := range remove {
		body.RemoveDpsIDs = append(body.RemoveDpsIDs, id.String())
	}

	err := httpclient.Retry(ctx, c.policy, func() error {
		return c.http.Put(ctx, "/mappings/prisoner/"+url.PathEscape(owner), body, nil)
	})
	if err != nil {
		return fmt.Errorf("replace mappings for %s: %w", owner, err)
	}
	return nil
}

func keyPath(key mapping.SourceKey) string {
	if key.Kind.SequenceKeyed() {
		return fmt.Sprintf("/mappings/%s/nomis-person-id/%d/sequence/%d", key.Kind, key.ID, key.Sequence)
	}
	return fmt.Sprintf("/mappings/%s/nomis-id/%d", key.Kind, key.ID)
}

// decodeConflict extracts the structured duplicate conflict from a 409
// response body, or returns nil when err is not a conflict.
func decodeConflict(err error) *mapping.Conflict {
	body := httpclient.ConflictBody(err)
	if body == nil {
		return nil
	}
	var dto conflictDTO
	if jsonErr := json.Unmarshal(body, &dto); jsonErr != nil {
		// A 409 without the structured body is still a duplicate; the id
		// pair detail is just unavailable.
		return &mapping.Conflict{}
	}
	return &mapping.Conflict{
		Existing:  dto.Existing.toDomain(),
		Duplicate: dto.Duplicate.toDomain(),
	}
}

var _ mapping.Client = (*Client)(nil)
