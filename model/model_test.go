package model

import (
	"context"
	"errors"
	"github.com/fuyuntt/xqstats/board"
	"github.com/fuyuntt/xqstats/dataset"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
)

func mustMove(t *testing.T, str string) board.Move {
	t.Helper()
	mv, err := board.ParseMove(str)
	if err != nil {
		t.Fatal(err)
	}
	return mv
}

func TestTrainGame(t *testing.T) {
	m := New(TypeFreq)
	replays, err := m.TrainGames(context.Background(), []dataset.Game{{Result: dataset.ResultRedWin, MoveList: "00101020"}}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(replays) != 1 || len(replays[0].Invalid) != 0 {
		t.Fatalf("unexpected replays: %+v", replays)
	}
	s0 := board.Initial()
	s1, err := s0.ApplyString("0010")
	if err != nil {
		t.Fatal(err)
	}
	var suit = []struct {
		state board.State
		move  string
	}{
		{s0, "0010"},
		{s1, "1020"},
		{s0.Mirror(), "8070"},
		{s1.Mirror(), "7060"},
	}
	for _, c := range suit {
		mv := mustMove(t, c.move)
		if n := m.Freq().Row(c.state).Counts[mv]; n != 1 {
			t.Errorf("%s %s: expect count 1, actual %d", c.state, c.move, n)
		}
		if o := m.Win().Row(c.state).Outcomes[mv]; !reflect.DeepEqual(o, []float64{1}) {
			t.Errorf("%s %s: expect outcomes [1], actual %v", c.state, c.move, o)
		}
	}
	if m.Size() != 4 {
		t.Errorf("expect 4 states, actual %d", m.Size())
	}
}

func TestTrainSkipsInvalidMove(t *testing.T) {
	m := New(TypeFreq)
	replays, err := m.TrainGames(context.Background(), []dataset.Game{{Result: dataset.ResultRedWin, MoveList: "00100020"}}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if n := m.Freq().Row(board.Initial()).Counts[mustMove(t, "0010")]; n != 1 {
		t.Errorf("expect count 1, actual %d", n)
	}
	s1, _ := board.Initial().ApplyString("0010")
	if m.Freq().Has(s1) {
		t.Errorf("state after 0010 should have no statistics")
	}
	if inv := dataset.InvalidMoves(replays); len(inv) != 1 || inv[0].Move != "0020" {
		t.Errorf("unexpected invalid moves: %+v", inv)
	}
}

func mirrorReplay(r dataset.Replay) dataset.Replay {
	res := dataset.Replay{ID: r.ID, Result: r.Result, Outcome: r.Outcome}
	for _, s := range r.States {
		res.States = append(res.States, s.Mirror())
	}
	for _, mv := range r.Moves {
		res.Moves = append(res.Moves, mv.Mirror())
	}
	return res
}

func TestMirrorSymmetry(t *testing.T) {
	games := []dataset.Game{
		{Result: dataset.ResultRedWin, MoveList: "1727727017147747"},
		{Result: dataset.ResultBlackWin, MoveList: "0001771747"},
	}
	var replays, mirrored []dataset.Replay
	for i, g := range games {
		r := dataset.ReplayGame(i, g)
		replays = append(replays, r)
		mirrored = append(mirrored, mirrorReplay(r))
	}
	a, b := New(TypeWinRate), New(TypeWinRate)
	a.Train(replays)
	b.Train(mirrored)
	if a.Size() != b.Size() {
		t.Fatalf("size differs: %d vs %d", a.Size(), b.Size())
	}
	a.Freq().Range(func(s board.State, r *FreqRow) {
		mr := b.Freq().Row(s.Mirror())
		for _, mv := range r.Moves {
			if mr.Counts[mv.Mirror()] != r.Counts[mv] {
				t.Errorf("%s %s: count %d vs %d", s, mv, r.Counts[mv], mr.Counts[mv.Mirror()])
			}
			wa, wb := a.Win().Row(s).Outcomes[mv], b.Win().Row(s.Mirror()).Outcomes[mv.Mirror()]
			if !reflect.DeepEqual(wa, wb) {
				t.Errorf("%s %s: outcomes %v vs %v", s, mv, wa, wb)
			}
		}
	})
}

func TestMirrorLiteral(t *testing.T) {
	m := New(TypeWinRate)
	m.Train([]dataset.Replay{dataset.ReplayGame(0, dataset.Game{Result: dataset.ResultRedWin, MoveList: "7747"})})
	// 左右镜像后 每个槽位的列变为 8-x 同名棋子交换位置
	mirrored, err := board.ParseState("807060504030201000" + "7212" + "8363432303" +
		"897969594939291909" + "7717" + "8666462606")
	if err != nil {
		t.Fatal(err)
	}
	if m.Size() != 2 || !m.Freq().Has(mirrored) {
		t.Fatalf("mirrored state missing, size %d", m.Size())
	}
	row := m.Freq().Row(mirrored)
	if len(row.Moves) != 1 || row.Moves[0] != mustMove(t, "1747") || row.Counts[row.Moves[0]] != 1 {
		t.Errorf("unexpected mirrored row: %v %v", row.Moves, row.Counts)
	}
	if outcomes := m.Win().Row(mirrored).Outcomes[mustMove(t, "1747")]; !reflect.DeepEqual(outcomes, []float64{1}) {
		t.Errorf("unexpected mirrored outcomes: %v", outcomes)
	}
}

func TestPredictFreq(t *testing.T) {
	m := New(TypeFreq)
	s := board.Initial()
	a, b, c := mustMove(t, "1727"), mustMove(t, "7747"), mustMove(t, "0001")
	m.Learn(s, b, 0)
	m.Learn(s, a, 0)
	m.Learn(s, a, 0)
	m.Learn(s, c, 1)
	if mv, ok := m.Predict(s); !ok || mv != a {
		t.Errorf("expect %s, actual %s %v", a, mv, ok)
	}

	// 频次相同取先出现的
	tie := New(TypeFreq)
	tie.Learn(s, b, 0)
	tie.Learn(s, a, 1)
	if mv, _ := tie.Predict(s); mv != b {
		t.Errorf("expect %s, actual %s", b, mv)
	}
}

func TestPredictWinRate(t *testing.T) {
	m := New(TypeWinRate)
	s := board.Initial()
	a, b, c := mustMove(t, "1727"), mustMove(t, "7747"), mustMove(t, "0001")
	m.Learn(s, a, 0)
	m.Learn(s, a, 0)
	m.Learn(s, b, 1)
	m.Learn(s, b, 0)
	m.Learn(s, c, 1)
	m.Learn(s, c, 0)
	if mv, ok := m.Predict(s); !ok || mv != b {
		t.Errorf("expect %s, actual %s %v", b, mv, ok)
	}
	stats := m.Stats(s)
	if len(stats) != 3 || stats[0].Move != a || stats[0].Count != 2 || stats[1].WinRate != 0.5 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestPredictFallback(t *testing.T) {
	m := New(TypeFreq)
	m.SetRand(func(n int) int { return 1 })
	mv, ok := m.Predict(board.Initial())
	if !ok {
		t.Fatal("expect fallback move")
	}
	if expect := board.LegalMoves(board.Initial())[1]; mv != expect {
		t.Errorf("expect %s, actual %s", expect, mv)
	}

	var empty board.State
	for i := range empty {
		empty[i] = board.PosCaptured
	}
	if mv, ok := New(TypeWinRate).Predict(empty); ok {
		t.Errorf("expect no move, actual %s", mv)
	}
}

func TestPredictConcurrent(t *testing.T) {
	m := New(TypeFreq)
	m.Learn(board.Initial(), mustMove(t, "1727"), 1)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, ok := m.Predict(board.Initial()); !ok {
					t.Error("expect move")
				}
				m.Predict(board.Initial().Mirror().Mirror())
			}
		}()
	}
	wg.Wait()
}

func TestSaveLoad(t *testing.T) {
	m := New(TypeWinRate)
	_, err := m.TrainGames(context.Background(), []dataset.Game{
		{Result: dataset.ResultRedWin, MoveList: "1727727017147747"},
		{Result: dataset.ResultDraw, MoveList: "77471727"},
	}, 2)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "model", "winrate.bin")
	if err := m.Save(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Type() != TypeWinRate || loaded.Size() != m.Size() {
		t.Fatalf("unexpected model: %s %d", loaded.Type(), loaded.Size())
	}
	if !reflect.DeepEqual(loaded.snapshot(), m.snapshot()) {
		t.Errorf("snapshot differs after reload")
	}
	if !loaded.Freq().Has(board.Initial()) || len(loaded.Freq().Row(board.Initial()).Moves) != 2 {
		t.Errorf("initial row not restored")
	}
	// 缺失的局面读出空行
	s, err := board.Initial().ApplyString("0001")
	if err != nil {
		t.Fatal(err)
	}
	if r := loaded.Freq().Row(s); len(r.Moves) != 0 || r.Counts[mustMove(t, "0102")] != 0 {
		t.Errorf("expect empty row")
	}
}

func TestLoadError(t *testing.T) {
	dir := t.TempDir()
	var loadErr *LoadError
	if _, err := Load(filepath.Join(dir, "missing.bin")); !errors.As(err, &loadErr) {
		t.Errorf("expect LoadError, actual %v", err)
	}

	corrupt := filepath.Join(dir, "corrupt.bin")
	if err := os.WriteFile(corrupt, []byte("not a model"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(corrupt); !errors.As(err, &loadErr) {
		t.Errorf("expect LoadError, actual %v", err)
	}

	bogus := New(TypeFreq)
	bogus.modelType = "bogus"
	path := filepath.Join(dir, "bogus.bin")
	if err := bogus.Save(path); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.As(err, &loadErr) {
		t.Errorf("expect LoadError, actual %v", err)
	}
}

func TestParseType(t *testing.T) {
	for _, s := range []string{"freq", "winrate"} {
		if _, err := ParseType(s); err != nil {
			t.Errorf("%s: %v", s, err)
		}
	}
	if _, err := ParseType("minimax"); err == nil {
		t.Errorf("expect error")
	}
}
