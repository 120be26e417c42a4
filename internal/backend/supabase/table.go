package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mahdyhasan/augmind/internal/backend"
)

// tableQuery builds one request against the table REST API.
type tableQuery struct {
	c       *Client
	table   string
	selects string
	filters [][2]string // column -> operator expression
	order   string
	limit   int
	single  bool
}

func (q *tableQuery) Select(columns ...string) backend.TableQuery {
	if len(columns) > 0 {
		q.selects = strings.Join(columns, ",")
	}
	return q
}

func (q *tableQuery) Eq(column string, value interface{}) backend.TableQuery {
	q.filters = append(q.filters, [2]string{column, fmt.Sprintf("eq.%v", value)})
	return q
}

func (q *tableQuery) In(column string, values ...interface{}) backend.TableQuery {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%v", v)
	}
	q.filters = append(q.filters, [2]string{column, "in.(" + strings.Join(parts, ",") + ")"})
	return q
}

func (q *tableQuery) Order(column string, ascending bool) backend.TableQuery {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.order = column + "." + dir
	return q
}

func (q *tableQuery) Limit(n int) backend.TableQuery {
	q.limit = n
	return q
}

func (q *tableQuery) Single() backend.TableQuery {
	q.single = true
	return q
}

func (q *tableQuery) path() string {
	params := url.Values{}
	params.Set("select", q.selects)
	for _, f := range q.filters {
		params.Add(f[0], f[1])
	}
	if q.order != "" {
		params.Set("order", q.order)
	}
	if q.limit > 0 {
		params.Set("limit", strconv.Itoa(q.limit))
	}
	return "/rest/v1/" + q.table + "?" + params.Encode()
}

func (q *tableQuery) Get(ctx context.Context, dest interface{}) error {
	headers := map[string]string{}
	if q.single {
		headers["Accept"] = "application/vnd.pgrst.object+json"
	}
	resp, err := q.c.do(ctx, http.MethodGet, q.path(), nil, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return q.c.decode(resp, dest)
}

func (q *tableQuery) Count(ctx context.Context) (int64, error) {
	resp, err := q.c.do(ctx, http.MethodHead, q.path(), nil, map[string]string{
		"Prefer": "count=exact",
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if err := q.c.checkStatus(resp); err != nil {
		return 0, err
	}

	// Content-Range: 0-24/3573 — the total rides after the slash.
	cr := resp.Header.Get("Content-Range")
	idx := strings.LastIndex(cr, "/")
	if idx < 0 || idx == len(cr)-1 {
		return 0, &backend.Error{Code: backend.CodeUnavailable, Status: resp.StatusCode, Message: "missing count in response"}
	}
	total, err := strconv.ParseInt(cr[idx+1:], 10, 64)
	if err != nil {
		return 0, &backend.Error{Code: backend.CodeUnavailable, Status: resp.StatusCode, Message: "malformed count in response"}
	}
	return total, nil
}

func (q *tableQuery) Insert(ctx context.Context, record interface{}, dest interface{}) error {
	body, err := json.Marshal(record)
	if err != nil {
		return err
	}
	prefer := "return=minimal"
	if dest != nil {
		prefer = "return=representation"
	}
	resp, err := q.c.do(ctx, http.MethodPost, q.path(), bytes.NewReader(body), map[string]string{
		"Content-Type": "application/json",
		"Prefer":       prefer,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return q.c.decode(resp, dest)
}

func (q *tableQuery) Update(ctx context.Context, partial interface{}) error {
	body, err := json.Marshal(partial)
	if err != nil {
		return err
	}
	resp, err := q.c.do(ctx, http.MethodPatch, q.path(), bytes.NewReader(body), map[string]string{
		"Content-Type": "application/json",
		"Prefer":       "return=minimal",
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return q.c.checkStatus(resp)
}

func (q *tableQuery) Delete(ctx context.Context) error {
	resp, err := q.c.do(ctx, http.MethodDelete, q.path(), nil, map[string]string{
		"Prefer": "return=minimal",
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return q.c.checkStatus(resp)
}
