package storage

import (
	"context"
	"errors"
	"time"

	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/logger"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/metrics"
	"github.com/JosueFrayreGarcia777/ScrapSystem/internal/records"
)

// CopyFn abstracts a backend's bulk insert. It inserts rows aligned to
// columns and returns the number of rows inserted.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches drains records from in, groups them into batches of batchSize
// and calls copyFn once per non-empty batch. It returns the number of rows
// reported by copyFn and the first error encountered. Each flush is logged
// and counted under job.
func LoadBatches(
	ctx context.Context,
	lg *logger.Logger,
	job string,
	in <-chan records.RawRecord,
	batchSize int,
	copyFn CopyFn,
) (int64, error) {
	if batchSize <= 0 {
		return 0, errors.New("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, errors.New("copyFn must not be nil")
	}
	if lg == nil {
		lg = logger.Nop()
	}

	var (
		total     int64
		batches   int64
		batch     = make([][]any, 0, batchSize)
		start     = time.Now()
		lastFlush = start
	)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := copyFn(ctx, records.Columns, batch)
		total += n
		metrics.RecordRow(job, "inserted", n)
		batch = batch[:0]
		if err != nil {
			lg.Error("copy failed", "inserted", n, "total", total, "err", err)
			return err
		}

		batches++
		metrics.RecordBatches(job, 1)
		now := time.Now()
		since := now.Sub(lastFlush)
		rps := float64(0)
		if since > 0 {
			rps = float64(n) / since.Seconds()
		}
		lg.Debug("batch flushed",
			"batch", batches,
			"rps", int64(rps),
			"inserted", n,
			"total", total,
			"elapsed", now.Sub(start).Truncate(time.Millisecond).String(),
		)
		lastFlush = now
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return total, ctx.Err()

		case rec, ok := <-in:
			if !ok {
				if err := flush(); err != nil {
					return total, err
				}
				lg.Info("load finished", "batches", batches, "total", total)
				return total, nil
			}
			batch = append(batch, RecordValues(rec))
			if len(batch) >= batchSize {
				if err := flush(); err != nil {
					return total, err
				}
			}
		}
	}
}
