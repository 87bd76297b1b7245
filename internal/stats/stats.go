// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stats records download and share events locally in a bbolt file.
// Counts are deltas on top of the counters the backend reports; Overlay
// folds them into article rows before listing.
package stats

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/infochir/catalog/pkg/types"
)

// Kind identifies a tracked event.
type Kind string

const (
	KindDownload Kind = "download"
	KindShare    Kind = "share"
)

var (
	bDownloads = []byte("downloads")
	bShares    = []byte("shares")
)

// ErrUnknownKind is returned for events other than download and share.
var ErrUnknownKind = errors.New("unknown event kind")

// ParseKind accepts "download(s)" and "share(s)".
func ParseKind(s string) (Kind, error) {
	switch s {
	case "download", "downloads":
		return KindDownload, nil
	case "share", "shares":
		return KindShare, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

func (k Kind) bucket() ([]byte, error) {
	switch k {
	case KindDownload:
		return bDownloads, nil
	case KindShare:
		return bShares, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(k))
}

// Counts holds the locally tracked deltas for one article.
type Counts struct {
	Downloads uint64 `json:"downloads" yaml:"downloads"`
	Shares    uint64 `json:"shares" yaml:"shares"`
}

// Store is a bbolt-backed counter store.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the counter file at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("stats: missing path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating stats directory: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening stats db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bDownloads, bShares} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating stats buckets: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the bbolt file lock.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Track increments the kind counter of article id and returns the new
// local count.
func (s *Store) Track(id string, kind Kind) (uint64, error) {
	if id == "" {
		return 0, errors.New("stats: missing article id")
	}
	name, err := kind.bucket()
	if err != nil {
		return 0, err
	}

	var n uint64
	err = s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(name)
		n = decode(b.Get([]byte(id))) + 1
		return b.Put([]byte(id), encode(n))
	})
	if err != nil {
		return 0, fmt.Errorf("tracking %s of %s: %w", kind, id, err)
	}
	return n, nil
}

// Counts returns the tracked deltas for each of ids. IDs never tracked
// are absent from the map.
func (s *Store) Counts(ids []string) (map[string]Counts, error) {
	out := make(map[string]Counts)
	err := s.db.View(func(tx *bolt.Tx) error {
		dl := tx.Bucket(bDownloads)
		sh := tx.Bucket(bShares)
		for _, id := range ids {
			d := dl.Get([]byte(id))
			h := sh.Get([]byte(id))
			if d == nil && h == nil {
				continue
			}
			out[id] = Counts{Downloads: decode(d), Shares: decode(h)}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading counts: %w", err)
	}
	return out, nil
}

// Overlay returns a copy of rows with tracked deltas added to their
// download and share counters.
func (s *Store) Overlay(rows []types.ArticleRow) ([]types.ArticleRow, error) {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	counts, err := s.Counts(ids)
	if err != nil {
		return nil, err
	}

	out := make([]types.ArticleRow, len(rows))
	copy(out, rows)
	for i := range out {
		c, ok := counts[out[i].ID]
		if !ok {
			continue
		}
		out[i].Downloads += types.FlexInt(c.Downloads)
		out[i].Shares += types.FlexInt(c.Shares)
	}
	return out, nil
}

func encode(n uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, n)
	return buf
}

func decode(b []byte) uint64 {
	if len(b) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}
