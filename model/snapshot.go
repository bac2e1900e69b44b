package model

import (
	"encoding/gob"
	"fmt"
	"github.com/fuyuntt/xqstats/board"
	"github.com/klauspost/compress/zstd"
	"github.com/sirupsen/logrus"
	"os"
	"path/filepath"
)

// 模型文件缺失或损坏
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load model %s: %v", e.Path, e.Err)
}
func (e *LoadError) Unwrap() error {
	return e.Err
}

type freqEntry struct {
	Move  string
	Count int
}
type freqRowSnap struct {
	State string
	Moves []freqEntry
}
type winEntry struct {
	Move     string
	Outcomes []float64
}
type winRowSnap struct {
	State string
	Moves []winEntry
}

// 模型文件内容 zstd 压缩的 gob
type snapshot struct {
	ModelType string
	MoveStats []freqRowSnap
	WinStats  []winRowSnap
}

func (m *Model) snapshot() *snapshot {
	snap := &snapshot{ModelType: string(m.modelType)}
	m.freq.Range(func(s board.State, r *FreqRow) {
		row := freqRowSnap{State: s.String(), Moves: make([]freqEntry, 0, len(r.Moves))}
		for _, mv := range r.Moves {
			row.Moves = append(row.Moves, freqEntry{Move: mv.String(), Count: r.Counts[mv]})
		}
		snap.MoveStats = append(snap.MoveStats, row)
	})
	m.win.Range(func(s board.State, r *WinRow) {
		row := winRowSnap{State: s.String(), Moves: make([]winEntry, 0, len(r.Moves))}
		for _, mv := range r.Moves {
			row.Moves = append(row.Moves, winEntry{Move: mv.String(), Outcomes: r.Outcomes[mv]})
		}
		snap.WinStats = append(snap.WinStats, row)
	})
	return snap
}

// 先写临时文件再改名 保证文件完整
func (m *Model) Save(path string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	zw, err := zstd.NewWriter(tmp)
	if err != nil {
		return err
	}
	if err = gob.NewEncoder(zw).Encode(m.snapshot()); err != nil {
		zw.Close()
		return err
	}
	if err = zw.Close(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return err
	}
	logrus.Infof("model saved: %s, type: %s, states: %d", path, m.modelType, m.Size())
	return nil
}

func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()
	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer zr.Close()

	var snap snapshot
	if err := gob.NewDecoder(zr).Decode(&snap); err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	m, err := restore(&snap)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	logrus.Infof("model loaded: %s, type: %s, states: %d", path, m.modelType, m.Size())
	return m, nil
}

func restore(snap *snapshot) (*Model, error) {
	t, err := ParseType(snap.ModelType)
	if err != nil {
		return nil, err
	}
	m := New(t)
	for _, row := range snap.MoveStats {
		s, err := board.ParseState(row.State)
		if err != nil {
			return nil, err
		}
		r := m.freq.GetOrInsert(s)
		for _, e := range row.Moves {
			mv, err := board.ParseMove(e.Move)
			if err != nil {
				return nil, err
			}
			r.Add(mv, e.Count)
		}
	}
	for _, row := range snap.WinStats {
		s, err := board.ParseState(row.State)
		if err != nil {
			return nil, err
		}
		r := m.win.GetOrInsert(s)
		for _, e := range row.Moves {
			mv, err := board.ParseMove(e.Move)
			if err != nil {
				return nil, err
			}
			r.Append(mv, e.Outcomes...)
		}
	}
	return m, nil
}
