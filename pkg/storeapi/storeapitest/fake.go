// Package storeapitest provides an in-memory storeapi.Requester for tests.
package storeapitest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/angelmondragon/storefront/pkg/storeapi"
)

// Call is one recorded request.
type Call struct {
	Request storeapi.Request
	Body    []byte
}

// Response is what the fake answers for a route.
type Response struct {
	Body any
	Err  error
	// Hook runs before the response is returned; it may block on ctx.
	Hook func(ctx context.Context) error
}

// Requester answers requests by "METHOD path" with scripted responses.
type Requester struct {
	mu     sync.Mutex
	routes map[string][]Response
	calls  []Call
}

func New() *Requester {
	return &Requester{routes: make(map[string][]Response)}
}

// On queues a response for method and path. Queued responses are consumed in
// order; the last one repeats.
func (r *Requester) On(method, path string, resp Response) *Requester {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := method + " " + path
	r.routes[key] = append(r.routes[key], resp)
	return r
}

func (r *Requester) Do(ctx context.Context, req storeapi.Request, out any) error {
	var body []byte
	if req.Body != nil {
		body, _ = json.Marshal(req.Body)
	}

	r.mu.Lock()
	r.calls = append(r.calls, Call{Request: req, Body: body})
	key := req.Method + " " + req.Path
	queue := r.routes[key]
	if len(queue) == 0 {
		r.mu.Unlock()
		return fmt.Errorf("storeapitest: no response for %s", key)
	}
	resp := queue[0]
	if len(queue) > 1 {
		r.routes[key] = queue[1:]
	}
	r.mu.Unlock()

	if resp.Hook != nil {
		if err := resp.Hook(ctx); err != nil {
			return err
		}
	}
	if resp.Err != nil {
		return resp.Err
	}
	if out == nil || resp.Body == nil {
		return nil
	}
	raw, err := json.Marshal(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// Calls returns every recorded request.
func (r *Requester) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// CallsTo returns the recorded requests for method and path.
func (r *Requester) CallsTo(method, path string) []Call {
	var out []Call
	for _, c := range r.Calls() {
		if c.Request.Method == method && c.Request.Path == path {
			out = append(out, c)
		}
	}
	return out
}
