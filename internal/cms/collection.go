// ABOUTME: Generic REST collection and singleton document endpoints
// ABOUTME: Per-resource body encoders choose JSON or multipart per call

package cms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// bodyFunc turns an entity into a request body: a JSON value or a *Form.
type bodyFunc[T any] func(v T) any

// Collection is a list resource with server-assigned ids.
type Collection[T any] struct {
	c            *Client
	path         string
	updateMethod string
	createBody   bodyFunc[T]
	updateBody   bodyFunc[T]
}

func newCollection[T any](c *Client, path, updateMethod string) *Collection[T] {
	return &Collection[T]{c: c, path: path, updateMethod: updateMethod}
}

// Path returns the collection path relative to the API root.
func (r *Collection[T]) Path() string {
	return r.path
}

func (r *Collection[T]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

// List fetches every entity.
func (r *Collection[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	if err := r.c.get(ctx, r.path, &out); err != nil {
		return nil, fmt.Errorf("listing %s: %w", r.path, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Create posts a new entity and returns the stored version.
func (r *Collection[T]) Create(ctx context.Context, v T) (T, error) {
	var body any = v
	if r.createBody != nil {
		body = r.createBody(v)
	}

	var out T
	if err := r.c.post(ctx, r.path, body, &out); err != nil {
		return out, fmt.Errorf("creating in %s: %w", r.path, err)
	}
	return out, nil
}

// Update replaces the entity with the given id and returns the stored version.
func (r *Collection[T]) Update(ctx context.Context, id string, v T) (T, error) {
	var body any = v
	if r.updateBody != nil {
		body = r.updateBody(v)
	}

	var out T
	if err := r.c.do(ctx, r.updateMethod, r.itemPath(id), body, &out); err != nil {
		return out, fmt.Errorf("updating %s: %w", r.itemPath(id), err)
	}
	return out, nil
}

// Delete removes the entity with the given id.
func (r *Collection[T]) Delete(ctx context.Context, id string) error {
	if err := r.c.delete(ctx, r.itemPath(id)); err != nil {
		return fmt.Errorf("deleting %s: %w", r.itemPath(id), err)
	}
	return nil
}

// Document is a singleton resource read with GET and replaced with PUT.
type Document[T any] struct {
	c    *Client
	path string
	body bodyFunc[T]
}

// Get fetches the document.
func (d *Document[T]) Get(ctx context.Context) (T, error) {
	var out T
	if err := d.c.get(ctx, d.path, &out); err != nil {
		return out, fmt.Errorf("fetching %s: %w", d.path, err)
	}
	return out, nil
}

// Put replaces the document and returns the stored version.
func (d *Document[T]) Put(ctx context.Context, v T) (T, error) {
	var body any = v
	if d.body != nil {
		body = d.body(v)
	}

	var out T
	if err := d.c.do(ctx, http.MethodPut, d.path, body, &out); err != nil {
		return out, fmt.Errorf("saving %s: %w", d.path, err)
	}
	return out, nil
}
