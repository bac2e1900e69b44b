package dataset

import (
	"context"
	"encoding/json"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"os"
)

type Provider struct {
	Threads int
}

// 并发复盘 结果与输入顺序一致
func (dp *Provider) Replay(ctx context.Context, games []Game) ([]Replay, error) {
	logrus.Infof("replay %d games started", len(games))
	defer logrus.Infof("replay games finished")

	g, ctx := errgroup.WithContext(ctx)
	var jobs = make(chan int, 128)
	var results = make([]Replay, len(games))

	g.Go(func() error {
		defer close(jobs)
		for i := range games {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	threads := dp.Threads
	if threads <= 0 {
		threads = 1
	}
	for i := 0; i < threads; i++ {
		g.Go(func() error {
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					return err
				}
				results[idx] = ReplayGame(idx, games[idx])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func InvalidMoves(replays []Replay) []InvalidMove {
	var res []InvalidMove
	for _, r := range replays {
		res = append(res, r.Invalid...)
	}
	return res
}

func WriteInvalidReport(path string, replays []Replay) error {
	invalid := InvalidMoves(replays)
	if invalid == nil {
		invalid = []InvalidMove{}
	}
	data, err := json.MarshalIndent(invalid, "", "    ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	logrus.Infof("invalid move report saved: %s, count: %d", path, len(invalid))
	return nil
}
