package model

import "github.com/fuyuntt/xqstats/board"

// 某局面下各走法出现的次数 Moves 保留首次出现的顺序
type FreqRow struct {
	Moves  []board.Move
	Counts map[board.Move]int
}

func (r *FreqRow) Add(mv board.Move, n int) {
	if r.Counts == nil {
		r.Counts = make(map[board.Move]int)
	}
	if _, ok := r.Counts[mv]; !ok {
		r.Moves = append(r.Moves, mv)
	}
	r.Counts[mv] += n
}

// 局面 -> 走法 -> 次数
type FreqTable struct {
	states []board.State
	rows   map[board.State]*FreqRow
}

func NewFreqTable() *FreqTable {
	return &FreqTable{rows: make(map[board.State]*FreqRow)}
}

func (t *FreqTable) Has(s board.State) bool {
	_, ok := t.rows[s]
	return ok
}

// 不存在时返回空行 不会插入
func (t *FreqTable) Row(s board.State) *FreqRow {
	if r, ok := t.rows[s]; ok {
		return r
	}
	return &FreqRow{}
}

func (t *FreqTable) GetOrInsert(s board.State) *FreqRow {
	r, ok := t.rows[s]
	if !ok {
		r = &FreqRow{Counts: make(map[board.Move]int)}
		t.rows[s] = r
		t.states = append(t.states, s)
	}
	return r
}

func (t *FreqTable) Len() int {
	return len(t.states)
}

// 按插入顺序遍历
func (t *FreqTable) Range(f func(s board.State, r *FreqRow)) {
	for _, s := range t.states {
		f(s, t.rows[s])
	}
}

// 某局面下各走法的历史结果(红方得分)
type WinRow struct {
	Moves    []board.Move
	Outcomes map[board.Move][]float64
}

func (r *WinRow) Append(mv board.Move, outcomes ...float64) {
	if r.Outcomes == nil {
		r.Outcomes = make(map[board.Move][]float64)
	}
	if _, ok := r.Outcomes[mv]; !ok {
		r.Moves = append(r.Moves, mv)
	}
	r.Outcomes[mv] = append(r.Outcomes[mv], outcomes...)
}

func (r *WinRow) Mean(mv board.Move) float64 {
	outcomes := r.Outcomes[mv]
	if len(outcomes) == 0 {
		return 0
	}
	sum := 0.0
	for _, o := range outcomes {
		sum += o
	}
	return sum / float64(len(outcomes))
}

// 局面 -> 走法 -> 结果列表
type WinTable struct {
	states []board.State
	rows   map[board.State]*WinRow
}

func NewWinTable() *WinTable {
	return &WinTable{rows: make(map[board.State]*WinRow)}
}

func (t *WinTable) Has(s board.State) bool {
	_, ok := t.rows[s]
	return ok
}

func (t *WinTable) Row(s board.State) *WinRow {
	if r, ok := t.rows[s]; ok {
		return r
	}
	return &WinRow{}
}

func (t *WinTable) GetOrInsert(s board.State) *WinRow {
	r, ok := t.rows[s]
	if !ok {
		r = &WinRow{Outcomes: make(map[board.Move][]float64)}
		t.rows[s] = r
		t.states = append(t.states, s)
	}
	return r
}

func (t *WinTable) Len() int {
	return len(t.states)
}

func (t *WinTable) Range(f func(s board.State, r *WinRow)) {
	for _, s := range t.states {
		f(s, t.rows[s])
	}
}
