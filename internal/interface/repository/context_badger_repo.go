package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"flightassist-service/internal/domain/entity"
	"flightassist-service/internal/domain/repository"

	"github.com/dgraph-io/badger/v4"
)

const badgerContextPrefix = "ctx/"

// BadgerContextRepository stores contexts in an embedded key-value store.
// Keys are ctx/{user}/{created unix nanos}/{id} so a reverse prefix scan yields newest first.
type BadgerContextRepository struct {
	db        *badger.DB
	retention time.Duration
}

// NewBadgerContextRepository creates a new Badger context repository
func NewBadgerContextRepository(db *badger.DB, retention time.Duration) repository.ContextRepository {
	return &BadgerContextRepository{
		db:        db,
		retention: retention,
	}
}

func badgerUserPrefix(userID int64) []byte {
	return []byte(badgerContextPrefix + strconv.FormatInt(userID, 10) + "/")
}

func badgerContextKey(sc *entity.SearchContext) []byte {
	return []byte(fmt.Sprintf("%s%020d/%s", badgerUserPrefix(sc.UserID), sc.CreatedAt.UnixNano(), sc.ID))
}

// Insert stores a new context entry
func (r *BadgerContextRepository) Insert(ctx context.Context, sc *entity.SearchContext) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return r.put(txn, sc)
	})
}

// DeactivateExpired deactivates a user's contexts whose expiry has passed
func (r *BadgerContextRepository) DeactivateExpired(ctx context.Context, userID int64, now time.Time) (int64, error) {
	return r.update(badgerUserPrefix(userID), func(_ int, sc *entity.SearchContext) bool {
		return sc.Active && !sc.ExpiresAt.After(now)
	})
}

// DeactivateBeyond keeps the newest keep active contexts and deactivates the older ones
func (r *BadgerContextRepository) DeactivateBeyond(ctx context.Context, userID int64, keep int) (int64, error) {
	return r.update(badgerUserPrefix(userID), func(activeRank int, sc *entity.SearchContext) bool {
		return sc.Active && activeRank >= keep
	})
}

// FindLatestActive returns the newest live context of a user
func (r *BadgerContextRepository) FindLatestActive(ctx context.Context, userID int64, now time.Time) (*entity.SearchContext, error) {
	var found *entity.SearchContext
	err := r.scan(badgerUserPrefix(userID), func(sc *entity.SearchContext) bool {
		if sc.IsLive(now) {
			found = sc
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, entity.ErrContextNotFound
	}
	return found, nil
}

// CountActive counts a user's live contexts
func (r *BadgerContextRepository) CountActive(ctx context.Context, userID int64, now time.Time) (int64, error) {
	var count int64
	err := r.scan(badgerUserPrefix(userID), func(sc *entity.SearchContext) bool {
		if sc.IsLive(now) {
			count++
		}
		return true
	})
	return count, err
}

// DeactivateAll deactivates every context of a user
func (r *BadgerContextRepository) DeactivateAll(ctx context.Context, userID int64) (int64, error) {
	return r.update(badgerUserPrefix(userID), func(_ int, sc *entity.SearchContext) bool {
		return sc.Active
	})
}

// SweepExpired deactivates expired contexts of all users
func (r *BadgerContextRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	return r.update([]byte(badgerContextPrefix), func(_ int, sc *entity.SearchContext) bool {
		return sc.Active && !sc.ExpiresAt.After(now)
	})
}

// scan walks entries under prefix newest first until fn returns false.
// Newest first only holds within one user's prefix.
func (r *BadgerContextRepository) scan(prefix []byte, fn func(sc *entity.SearchContext) bool) error {
	return r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		seek := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
			var sc entity.SearchContext
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &sc)
			})
			if err != nil {
				return fmt.Errorf("failed to decode context %s: %w", it.Item().Key(), err)
			}
			if !fn(&sc) {
				return nil
			}
		}
		return nil
	})
}

// update deactivates every entry under prefix selected by pick. activeRank counts
// the active entries seen before the current one.
func (r *BadgerContextRepository) update(prefix []byte, pick func(activeRank int, sc *entity.SearchContext) bool) (int64, error) {
	var selected []*entity.SearchContext
	rank := 0
	err := r.scan(prefix, func(sc *entity.SearchContext) bool {
		if pick(rank, sc) {
			selected = append(selected, sc)
		}
		if sc.Active {
			rank++
		}
		return true
	})
	if err != nil {
		return 0, err
	}
	if len(selected) == 0 {
		return 0, nil
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		for _, sc := range selected {
			sc.Active = false
			if err := r.put(txn, sc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate contexts: %w", err)
	}
	return int64(len(selected)), nil
}

func (r *BadgerContextRepository) put(txn *badger.Txn, sc *entity.SearchContext) error {
	data, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("failed to encode context: %w", err)
	}
	e := badger.NewEntry(badgerContextKey(sc), data)
	if r.retention > 0 {
		if ttl := time.Until(sc.ExpiresAt) + r.retention; ttl > 0 {
			e = e.WithTTL(ttl)
		}
	}
	return txn.SetEntry(e)
}
