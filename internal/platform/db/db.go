package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open returns a verified postgres connection pool capped at maxConns.
func Open(ctx context.Context, databaseURL string, maxConns int) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("openDB: open postgres database: %w", err)
	}

	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("openDB: verify postgres connection: %w", err)
	}

	return db, nil
}

// Pool opens the database on first use and keeps it for the process lifetime.
// It is owned by the process entry point, which calls Close on shutdown.
type Pool struct {
	url      string
	maxConns int
	open     func(ctx context.Context, url string, maxConns int) (*sql.DB, error)

	mu sync.Mutex
	db *sql.DB
}

func NewPool(databaseURL string, maxConns int) *Pool {
	return &Pool{url: databaseURL, maxConns: maxConns, open: Open}
}

// FromDB wraps an already opened handle.
func FromDB(db *sql.DB) *Pool {
	return &Pool{db: db}
}

// DB returns the shared handle, opening it if this is the first call.
// A failed open is not cached; the next call tries again.
func (p *Pool) DB(ctx context.Context) (*sql.DB, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.db != nil {
		return p.db, nil
	}
	if p.open == nil {
		return nil, errors.New("db pool: closed")
	}

	log.Printf("[DB] creating connection pool max_conns=%d", p.maxConns)
	db, err := p.open(ctx, p.url, p.maxConns)
	if err != nil {
		return nil, err
	}
	p.db = db
	return db, nil
}

// Close drains and releases the pool. Safe to call more than once; later
// DB calls fail instead of reopening.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.open = nil
	if p.db == nil {
		return nil
	}
	log.Printf("[DB] closing connection pool")
	err := p.db.Close()
	p.db = nil
	return err
}
