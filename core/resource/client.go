// Package resource is the thin client protected views use to list entities
// (users, students, ...) from the remote API. Per-entity schemas are the
// remote's business; rows come back as raw JSON objects.
package resource

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/omaradel/manaboard/core"
	"github.com/omaradel/manaboard/core/session"
)

// Lister fetches the row set behind one destination path.
type Lister interface {
	List(ctx context.Context, path string) ([]map[string]interface{}, error)
}

type client struct {
	baseURL string
	http    *http.Client
	store   *session.Store
}

var _ Lister = (*client)(nil)

func NewClient(conf *core.Config, store *session.Store) Lister {
	return &client{
		baseURL: conf.RemoteAPI,
		http: &http.Client{
			Timeout:   conf.RequestTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		store: store,
	}
}

func (c *client) List(ctx context.Context, path string) ([]map[string]interface{}, error) {
	token := c.store.Token()
	if token == "" {
		return nil, errors.New("not authenticated")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building list request")
	}
	req.Header.Set("token", token)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, errors.Errorf("listing %s: %s", path, resp.Status)
	}

	var body struct {
		Success bool                     `json:"success"`
		Message string                   `json:"message"`
		Data    []map[string]interface{} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrapf(err, "decoding %s response", path)
	}
	if !body.Success {
		return nil, errors.Errorf("listing %s: %s", path, body.Message)
	}
	return body.Data, nil
}
