package spotify

import (
	"context"
	"fmt"
	"net/http"
)

// pageDecoder turns a raw response into a page. Envelope endpoints (search, browse) supply one that
// unwraps the named key so that following a link yields the same shape.
type pageDecoder[P any] func(*Response) (*P, error)

// Page is one window of an offset-paginated collection. Empty Next or Previous means there is no such page.
type Page[T any] struct {
	Href     string `json:"href"`
	Items    []T    `json:"items"`
	Limit    int    `json:"limit"`
	Offset   int    `json:"offset"`
	Total    int    `json:"total"`
	Next     string `json:"next"`
	Previous string `json:"previous"`

	d      *Dispatcher
	decode pageDecoder[Page[T]]
}

// bind attaches the dispatcher used to follow links. A nil decode means the page is the top-level body.
func (p *Page[T]) bind(d *Dispatcher, decode pageDecoder[Page[T]]) *Page[T] {
	p.d = d
	p.decode = decode
	return p
}

// NextPage fetches the page after p, or returns nil when p is the last page.
func (p *Page[T]) NextPage(ctx context.Context) (*Page[T], error) {
	if p.Next == "" {
		return nil, nil
	}
	return p.follow(ctx, p.Next)
}

// PreviousPage fetches the page before p, or returns nil when p is the first page.
func (p *Page[T]) PreviousPage(ctx context.Context) (*Page[T], error) {
	if p.Previous == "" {
		return nil, nil
	}
	return p.follow(ctx, p.Previous)
}

// AllItems returns every item of the collection in provider order, starting from any page.
// Items of earlier pages come first. A failure on any page fails the whole call.
func (p *Page[T]) AllItems(ctx context.Context) ([]T, error) {
	var earlier [][]T
	total := len(p.Items)
	for cur := p; cur.Previous != ""; {
		prev, err := cur.PreviousPage(ctx)
		if err != nil {
			return nil, err
		}
		earlier = append(earlier, prev.Items)
		total += len(prev.Items)
		cur = prev
	}

	items := make([]T, 0, total)
	for i := len(earlier) - 1; i >= 0; i-- {
		items = append(items, earlier[i]...)
	}
	items = append(items, p.Items...)

	for cur := p; cur.Next != ""; {
		next, err := cur.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, next.Items...)
		cur = next
	}

	return items, nil
}

func (p *Page[T]) follow(ctx context.Context, link string) (*Page[T], error) {
	if p.d == nil {
		return nil, fmt.Errorf("%w: page is not bound to a client", ErrInvalidInput)
	}

	resp, err := p.d.Send(ctx, NewRequest(http.MethodGet, link))
	if err != nil {
		return nil, err
	}

	var page *Page[T]
	if p.decode != nil {
		page, err = p.decode(resp)
	} else {
		page = new(Page[T])
		err = resp.Decode(page)
	}
	if err != nil {
		return nil, err
	}
	return page.bind(p.d, p.decode), nil
}

// Cursors mark the position of a [CursorPage] within its collection.
type Cursors struct {
	After  string `json:"after"`
	Before string `json:"before"`
}

// CursorPage is one window of a cursor-paginated collection. It can only be walked forward.
type CursorPage[T any] struct {
	Href    string  `json:"href"`
	Items   []T     `json:"items"`
	Limit   int     `json:"limit"`
	Next    string  `json:"next"`
	Cursors Cursors `json:"cursors"`
	Total   int     `json:"total"`

	d      *Dispatcher
	decode pageDecoder[CursorPage[T]]
}

func (p *CursorPage[T]) bind(d *Dispatcher, decode pageDecoder[CursorPage[T]]) *CursorPage[T] {
	p.d = d
	p.decode = decode
	return p
}

// NextPage fetches the page after p, or returns nil when p is the last page.
func (p *CursorPage[T]) NextPage(ctx context.Context) (*CursorPage[T], error) {
	if p.Next == "" {
		return nil, nil
	}
	if p.d == nil {
		return nil, fmt.Errorf("%w: page is not bound to a client", ErrInvalidInput)
	}

	resp, err := p.d.Send(ctx, NewRequest(http.MethodGet, p.Next))
	if err != nil {
		return nil, err
	}

	var page *CursorPage[T]
	if p.decode != nil {
		page, err = p.decode(resp)
	} else {
		page = new(CursorPage[T])
		err = resp.Decode(page)
	}
	if err != nil {
		return nil, err
	}
	return page.bind(p.d, p.decode), nil
}

// AllItems returns the items of p followed by those of every later page.
func (p *CursorPage[T]) AllItems(ctx context.Context) ([]T, error) {
	items := append([]T(nil), p.Items...)

	for cur := p; cur.Next != ""; {
		next, err := cur.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		items = append(items, next.Items...)
		cur = next
	}

	return items, nil
}

// getPage fetches a top-level page body.
func getPage[T any](ctx context.Context, d *Dispatcher, req *Request) (*Page[T], error) {
	var page Page[T]
	if err := d.sendJSON(ctx, req, &page); err != nil {
		return nil, err
	}
	return page.bind(d, nil), nil
}

// envelopeDecoder builds a decoder for pages nested under an envelope key; unwrap selects the page.
func envelopeDecoder[E, T any](unwrap func(*E) *Page[T]) pageDecoder[Page[T]] {
	return func(resp *Response) (*Page[T], error) {
		var env E
		if err := resp.Decode(&env); err != nil {
			return nil, err
		}
		page := unwrap(&env)
		if page == nil {
			return nil, fmt.Errorf("%w: response has no page under the expected key", ErrDecode)
		}
		return page, nil
	}
}

// getEnvelopePage fetches a page nested under an envelope and returns the decoded envelope with it.
func getEnvelopePage[E, T any](ctx context.Context, d *Dispatcher, req *Request, unwrap func(*E) *Page[T]) (*Page[T], *E, error) {
	resp, err := d.Send(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	var env E
	if err := resp.Decode(&env); err != nil {
		return nil, nil, err
	}
	page := unwrap(&env)
	if page == nil {
		return nil, nil, fmt.Errorf("%w: response has no page under the expected key", ErrDecode)
	}
	return page.bind(d, envelopeDecoder(unwrap)), &env, nil
}

func getCursorPage[T any](ctx context.Context, d *Dispatcher, req *Request) (*CursorPage[T], error) {
	var page CursorPage[T]
	if err := d.sendJSON(ctx, req, &page); err != nil {
		return nil, err
	}
	return page.bind(d, nil), nil
}

func getEnvelopeCursorPage[E, T any](ctx context.Context, d *Dispatcher, req *Request, unwrap func(*E) *CursorPage[T]) (*CursorPage[T], error) {
	decode := func(resp *Response) (*CursorPage[T], error) {
		var env E
		if err := resp.Decode(&env); err != nil {
			return nil, err
		}
		page := unwrap(&env)
		if page == nil {
			return nil, fmt.Errorf("%w: response has no page under the expected key", ErrDecode)
		}
		return page, nil
	}

	resp, err := d.Send(ctx, req)
	if err != nil {
		return nil, err
	}
	page, err := decode(resp)
	if err != nil {
		return nil, err
	}
	return page.bind(d, decode), nil
}
