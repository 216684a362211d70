package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"

	goredis "github.com/redis/go-redis/v9"
)

var ErrShortlistFull = errors.New("shortlist is full")

// ShortlistKind - корзина или список сравнения
type ShortlistKind string

const (
	ShortlistCart    ShortlistKind = "cart"
	ShortlistCompare ShortlistKind = "compare"
)

func (k ShortlistKind) Valid() bool {
	return k == ShortlistCart || k == ShortlistCompare
}

// ShortlistRepository - множества ID стажеров в Redis, по одному на работодателя и список.
// limit <= 0 означает без ограничения.
type ShortlistRepository interface {
	Members(ctx context.Context, employerID string, kind ShortlistKind) ([]string, error)
	Add(ctx context.Context, employerID string, kind ShortlistKind, internID string, limit int) error
	Remove(ctx context.Context, employerID string, kind ShortlistKind, internID string) error
	Replace(ctx context.Context, employerID string, kind ShortlistKind, internIDs []string, limit int) error
	Clear(ctx context.Context, employerID string, kind ShortlistKind) error
}

const maxWatchRetries = 5

type shortlistRepository struct {
	rdb    *goredis.Client
	prefix string
}

func NewShortlistRepository(rdb *goredis.Client, prefix string) ShortlistRepository {
	return &shortlistRepository{rdb: rdb, prefix: prefix}
}

func (r *shortlistRepository) key(employerID string, kind ShortlistKind) string {
	return fmt.Sprintf("%s:employer:%s:%s", r.prefix, employerID, kind)
}

func (r *shortlistRepository) Members(ctx context.Context, employerID string, kind ShortlistKind) ([]string, error) {
	ids, err := r.rdb.SMembers(ctx, r.key(employerID, kind)).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

// Add - идемпотентно; лимит проверяется под WATCH, чтобы параллельные добавления его не превысили
func (r *shortlistRepository) Add(ctx context.Context, employerID string, kind ShortlistKind, internID string, limit int) error {
	key := r.key(employerID, kind)

	txf := func(tx *goredis.Tx) error {
		isMember, err := tx.SIsMember(ctx, key, internID).Result()
		if err != nil {
			return err
		}
		if isMember {
			return nil
		}

		if limit > 0 {
			n, err := tx.SCard(ctx, key).Result()
			if err != nil {
				return err
			}
			if n >= int64(limit) {
				return ErrShortlistFull
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.SAdd(ctx, key, internID)
			return nil
		})
		return err
	}

	for i := 0; i < maxWatchRetries; i++ {
		err := r.rdb.Watch(ctx, txf, key)
		if errors.Is(err, goredis.TxFailedErr) {
			continue
		}
		return err
	}
	return goredis.TxFailedErr
}

func (r *shortlistRepository) Remove(ctx context.Context, employerID string, kind ShortlistKind, internID string) error {
	return r.rdb.SRem(ctx, r.key(employerID, kind), internID).Err()
}

func (r *shortlistRepository) Replace(ctx context.Context, employerID string, kind ShortlistKind, internIDs []string, limit int) error {
	ids := UniqueIDs(internIDs)
	if limit > 0 && len(ids) > limit {
		return ErrShortlistFull
	}

	key := r.key(employerID, kind)
	_, err := r.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, key)
		if len(ids) > 0 {
			members := make([]interface{}, len(ids))
			for i, id := range ids {
				members[i] = id
			}
			pipe.SAdd(ctx, key, members...)
		}
		return nil
	})
	return err
}

func (r *shortlistRepository) Clear(ctx context.Context, employerID string, kind ShortlistKind) error {
	return r.rdb.Del(ctx, r.key(employerID, kind)).Err()
}

// UniqueIDs - без пустых и повторов, порядок первого вхождения
func UniqueIDs(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
