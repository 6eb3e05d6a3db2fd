package searchstats

import (
	"context"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/technician-matching/internal/domain/matching"
)

const defaultTopLimit = 10

// ValkeyStore keeps category search counts in a Valkey sorted set.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "matching"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) IncrementCategory(ctx context.Context, category matching.Specialty) error {
	if category == "" {
		return nil
	}
	cmd := s.client.B().Zincrby().Key(s.categoriesKey()).Increment(1).Member(string(category)).Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) TopCategories(ctx context.Context, limit int) ([]matching.CategoryCount, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	resp := s.client.Do(ctx, s.client.B().Zrevrange().Key(s.categoriesKey()).Start(0).Stop(int64(limit-1)).Withscores().Build())
	arr, err := resp.ToArray()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]matching.CategoryCount, 0, len(arr))
	for i := 0; i < len(arr); {
		var (
			member string
			score  float64
		)
		if tuple, tupleErr := arr[i].ToArray(); tupleErr == nil && len(tuple) == 2 {
			// RESP3 returns [member, score] per element
			if member, err = tuple[0].ToString(); err != nil {
				return nil, err
			}
			if score, err = tuple[1].AsFloat64(); err != nil {
				return nil, err
			}
			i++
		} else {
			// RESP2 returns a flat alternating array.
			if i+1 >= len(arr) {
				break
			}
			if member, err = arr[i].ToString(); err != nil {
				return nil, err
			}
			if score, err = arr[i+1].AsFloat64(); err != nil {
				return nil, err
			}
			i += 2
		}
		out = append(out, matching.CategoryCount{Category: matching.Specialty(member), Count: int64(score)})
	}
	return out, nil
}

func (s *ValkeyStore) categoriesKey() string {
	return fmt.Sprintf("%s:categories:searches", s.prefix)
}

var _ matching.SearchStats = (*ValkeyStore)(nil)
