package core

import (
	"context"
	"net/http"

	"go.opentelemetry.io/otel/attribute"

	"eventreg/pkg/domain"
)

// Body is the registry's view of an organisational unit.
type Body struct {
	ID   domain.BodyID `json:"id"`
	Name string        `json:"name"`
	Type string        `json:"type"`
}

// BodyCache stores registry answers. Implementations report a miss with
// found=false and a nil error.
type BodyCache interface {
	Get(ctx context.Context, id domain.BodyID) (body *Body, found bool, err error)
	Set(ctx context.Context, body *Body) error
}

// Body looks up a body in the registry. A missing body and a broken registry
// are both dependency failures: callers only reach this for ids they expect
// to exist.
func (c *Client) Body(ctx context.Context, token string, id domain.BodyID) (*Body, error) {
	if c.cache != nil {
		cached, found, err := c.cache.Get(ctx, id)
		if err != nil {
			c.logger.WarnContext(ctx, "body cache read failed", "body_id", id, "error", err)
		} else if found {
			return cached, nil
		}
	}

	body, err := c.fetchBody(ctx, token, id)
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, body); err != nil {
			c.logger.WarnContext(ctx, "body cache write failed", "body_id", id, "error", err)
		}
	}
	return body, nil
}

func (c *Client) fetchBody(ctx context.Context, token string, id domain.BodyID) (body *Body, err error) {
	ctx, finish := c.begin(ctx, "body", attribute.Int64("core.body_id", int64(id)))
	defer func() { finish("", err) }()

	resp, err := c.do(ctx, "body", http.MethodGet, "/bodies/"+id.String(), token, nil)
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, statusError("body", resp.status)
	}

	var payload Body
	if err := decodeData("body", resp, &payload); err != nil {
		return nil, err
	}
	if payload.ID == 0 {
		payload.ID = id
	}
	return &payload, nil
}
