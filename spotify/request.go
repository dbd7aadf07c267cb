package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Param is a single query parameter. Order is preserved and keys may repeat.
type Param struct {
	Key   string
	Value string
}

// Query is an ordered list of query parameters.
type Query []Param

// Add appends a parameter and returns the extended query.
func (q Query) Add(key, value string) Query {
	return append(q, Param{Key: key, Value: value})
}

// Append appends params in order.
func (q Query) Append(params ...Param) Query {
	return append(q, params...)
}

// AddInt appends an integer parameter.
func (q Query) AddInt(key string, value int) Query {
	return q.Add(key, strconv.Itoa(value))
}

// AddList appends a comma-joined parameter, skipping empty lists.
func (q Query) AddList(key string, values []string) Query {
	if len(values) == 0 {
		return q
	}
	return q.Add(key, strings.Join(values, ","))
}

// Get returns the first value for key.
func (q Query) Get(key string) string {
	for _, p := range q {
		if p.Key == key {
			return p.Value
		}
	}
	return ""
}

// Encode renders the query in insertion order.
//
// Unlike [url.Values.Encode] keys are not sorted, so repeated keys keep their relative positions.
func (q Query) Encode() string {
	var b strings.Builder
	for i, p := range q {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// Request describes a single logical API call.
//
// A Request may be sent more than once (initial attempt plus retries after a token refresh), so it never
// holds a live [http.Request] or a consumed body reader. A fresh [http.Request] is built for every attempt.
type Request struct {
	Method string
	URL    string
	Query  Query
	Body   any // encoded as JSON on every attempt when non-nil
}

// NewRequest creates a Request for method and absolute URL.
func NewRequest(method, rawURL string) *Request {
	return &Request{Method: method, URL: rawURL}
}

// WithQuery replaces the query and returns the request.
func (r *Request) WithQuery(q Query) *Request {
	r.Query = q
	return r
}

// WithBody sets the JSON body and returns the request.
func (r *Request) WithBody(body any) *Request {
	r.Body = body
	return r
}

// Clone returns a copy of the request that shares no mutable state with the original.
func (r *Request) Clone() *Request {
	c := *r
	if r.Query != nil {
		c.Query = make(Query, len(r.Query))
		copy(c.Query, r.Query)
	}
	return &c
}

// FullURL returns the URL with the encoded query appended.
func (r *Request) FullURL() string {
	if len(r.Query) == 0 {
		return r.URL
	}
	sep := "?"
	if strings.Contains(r.URL, "?") {
		sep = "&"
	}
	return r.URL + sep + r.Query.Encode()
}

// build creates the outgoing [http.Request] carrying token as its bearer credential.
func (r *Request) build(ctx context.Context, token string) (*http.Request, error) {
	var body io.Reader
	if r.Body != nil {
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to encode request body: %v", ErrInvalidInput, err)
		}
		body = bytes.NewReader(data)
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, r.FullURL(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}
