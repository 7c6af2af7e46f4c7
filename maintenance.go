package geoquiz

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// sweepConcurrency bounds the partitions checked at once by a sweep.
const sweepConcurrency = 8

// SweepOrphanedQuestions deletes question rows whose quiz row no longer
// exists and returns the number of rows removed. Orphans are left behind by
// an incomplete cascade delete or by a question added while its quiz was
// being deleted.
//
// The sweep scans the whole table.
func (r *QuizRepository) SweepOrphanedQuestions(ctx context.Context) (int, error) {
	items, err := r.store.ScanAll(ctx, Filter{
		BeginsWith: map[string]string{
			AttributeNameSource: QuizPrefix(),
			AttributeNameTarget: PrefixQuestion + KeyDelimiter,
		},
	})
	if err != nil {
		return 0, err
	}

	byPartition := make(map[string][]Key)
	for _, item := range items {
		key, err := UnmarshalTableKey(item)
		if err != nil {
			return 0, fmt.Errorf("failed to unmarshal question key: %w", err)
		}
		byPartition[key.Partition] = append(byPartition[key.Partition], key)
	}

	var removed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sweepConcurrency)
	for partition, keys := range byPartition {
		g.Go(func() error {
			// partition and sort keys of a quiz row are equal
			_, err := r.store.GetItem(gctx, Key{Partition: partition, Sort: partition})
			if err == nil {
				return nil
			} else if !isNotFound(err) {
				return err
			}

			if err := r.deleteAll(gctx, keys); err != nil {
				return err
			}
			removed.Add(int64(len(keys)))

			r.opts.Logger.InfoContext(gctx, "removed orphaned questions",
				"partition", partition,
				"count", len(keys),
			)
			return nil
		})
	}

	err = g.Wait()
	return int(removed.Load()), err
}
