// Package leads persists captured submissions to per-product append-only CSV
// logs.
//
// One file per product keeps exports trivial and bounds contention: a write
// for one product never blocks another. A lead is recorded before any email
// send is attempted and is never retracted by a later delivery failure.
package leads

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/funnelkit/leadmail/pkg/logger"
)

// ErrStorage indicates the lead log could not be created or appended.
var ErrStorage = errors.New("failed to persist lead")

const csvHeader = `"Timestamp","Name","Email","Product"` + "\n"

// Config carries the lead storage settings read from the environment.
type Config struct {
	Dir string `env:"LEADS_DIR" envDefault:"leads"`
}

// Recorder appends lead records to per-product CSV files.
type Recorder struct {
	dir string
	log *slog.Logger

	// mu guards locks; each per-slug mutex serializes appends to one file so
	// concurrent submissions cannot interleave partial lines.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewRecorder creates a recorder writing under dir, creating the directory
// if needed.
func NewRecorder(cfg Config, log *slog.Logger) (*Recorder, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, errors.Join(ErrStorage, err)
	}
	return &Recorder{
		dir:   cfg.Dir,
		log:   log,
		locks: make(map[string]*sync.Mutex),
	}, nil
}

// Record appends one lead line to the product's log file, creating the file
// with a header row on first use. The append is durable before Record
// returns; any failure aborts the caller's request before an email is sent.
func (r *Recorder) Record(ctx context.Context, slug, name, email string) error {
	lock := r.lockFor(slug)
	lock.Lock()
	defer lock.Unlock()

	path := filepath.Join(r.dir, slug+"-leads.csv")

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Join(ErrStorage, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errors.Join(ErrStorage, err)
	}
	if info.Size() == 0 {
		if _, err := f.WriteString(csvHeader); err != nil {
			return errors.Join(ErrStorage, err)
		}
	}

	line := fmt.Sprintf("%s,%s,%s,%s\n",
		quote(time.Now().UTC().Format(time.RFC3339)),
		quote(name),
		quote(email),
		quote(slug),
	)
	if _, err := f.WriteString(line); err != nil {
		return errors.Join(ErrStorage, err)
	}
	if err := f.Sync(); err != nil {
		return errors.Join(ErrStorage, err)
	}

	r.log.InfoContext(ctx, "lead saved",
		logger.Component("leads"),
		logger.Product(slug),
		logger.Recipient(email),
	)
	return nil
}

func (r *Recorder) lockFor(slug string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[slug]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[slug] = lock
	}
	return lock
}

// quote wraps a field in double quotes, doubling embedded quote characters
// per the CSV convention so hostile input cannot break the line structure.
func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
