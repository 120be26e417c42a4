// Package gormdb serves the table surface of the backend contract straight
// from Postgres. The hosted service is Postgres underneath its REST shim, and
// deployments holding a database DSN skip the shim for table traffic. Auth and
// storage still delegate to the hosted provider.
package gormdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mahdyhasan/augmind/internal/backend"
	"github.com/mahdyhasan/augmind/internal/entity"
)

// models maps table names onto entity prototypes so deletes and schema
// parsing have a concrete type to work with.
var models = map[string]func() interface{}{
	"user_profiles":     func() interface{} { return &entity.UserProfile{} },
	"documents":         func() interface{} { return &entity.Document{} },
	"conversations":     func() interface{} { return &entity.Conversation{} },
	"messages":          func() interface{} { return &entity.Message{} },
	"preset_questions":  func() interface{} { return &entity.PresetQuestion{} },
	"client_prospects":  func() interface{} { return &entity.ClientProspect{} },
	"prospect_analyses": func() interface{} { return &entity.ProspectAnalysis{} },
	"system_settings":   func() interface{} { return &entity.SystemSetting{} },
}

// Client overrides the table surface of a REST-backed client with direct
// database access. Everything else passes through.
type Client struct {
	backend.Client
	db *gorm.DB
}

func New(db *gorm.DB, rest backend.Client) *Client {
	return &Client{Client: rest, db: db}
}

func (c *Client) From(table string) backend.TableQuery {
	return &tableQuery{db: c.db, table: table}
}

func (c *Client) Probe(ctx context.Context) error {
	_, err := c.From("user_profiles").Count(ctx)
	return err
}

// WithToken is a pass-through for auth/storage; table scoping is enforced in
// the service layer when talking to the database directly.
func (c *Client) WithToken(accessToken string) backend.Client {
	return &Client{Client: c.Client.WithToken(accessToken), db: c.db}
}

type tableQuery struct {
	db     *gorm.DB
	table  string
	conds  []func(*gorm.DB) *gorm.DB
	order  string
	limit  int
	single bool
}

func (q *tableQuery) Select(columns ...string) backend.TableQuery {
	if len(columns) > 0 {
		cols := columns
		q.conds = append(q.conds, func(db *gorm.DB) *gorm.DB { return db.Select(cols) })
	}
	return q
}

func (q *tableQuery) Eq(column string, value interface{}) backend.TableQuery {
	q.conds = append(q.conds, func(db *gorm.DB) *gorm.DB {
		return db.Where(fmt.Sprintf("%s = ?", column), value)
	})
	return q
}

func (q *tableQuery) In(column string, values ...interface{}) backend.TableQuery {
	q.conds = append(q.conds, func(db *gorm.DB) *gorm.DB {
		return db.Where(fmt.Sprintf("%s IN ?", column), values)
	})
	return q
}

func (q *tableQuery) Order(column string, ascending bool) backend.TableQuery {
	dir := "DESC"
	if ascending {
		dir = "ASC"
	}
	q.order = fmt.Sprintf("%s %s", column, dir)
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

func (q *tableQuery) session(ctx context.Context) *gorm.DB {
	db := q.db.WithContext(ctx).Table(q.table)
	for _, cond := range q.conds {
		db = cond(db)
	}
	if q.order != "" {
		db = db.Order(q.order)
	}
	if q.limit > 0 {
		db = db.Limit(q.limit)
	}
	return db
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &backend.Error{Code: backend.CodeNotFound, Status: 404, Message: "record not found"}
	}
	return err
}

func (q *tableQuery) Get(ctx context.Context, dest interface{}) error {
	if q.single {
		return wrap(q.session(ctx).First(dest).Error)
	}
	return wrap(q.session(ctx).Find(dest).Error)
}

func (q *tableQuery) Count(ctx context.Context) (int64, error) {
	var n int64
	err := q.session(ctx).Count(&n).Error
	return n, wrap(err)
}

func (q *tableQuery) Insert(ctx context.Context, record interface{}, dest interface{}) error {
	if err := q.db.WithContext(ctx).Table(q.table).Create(record).Error; err != nil {
		return wrap(err)
	}
	if dest != nil && dest != record {
		// Create fills defaults on the record itself; mirror the REST
		// adapter's return=representation behavior.
		return assign(record, dest)
	}
	return nil
}

func assign(src, dest interface{}) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}

func (q *tableQuery) Update(ctx context.Context, partial interface{}) error {
	return wrap(q.session(ctx).Updates(partial).Error)
}

func (q *tableQuery) Delete(ctx context.Context) error {
	proto, ok := models[q.table]
	if !ok {
		return &backend.Error{Code: backend.CodeNotFound, Status: 404, Message: "unknown table " + q.table}
	}
	return wrap(q.session(ctx).Delete(proto()).Error)
}
