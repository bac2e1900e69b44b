package model

import (
	"context"
	"fmt"
	"github.com/fuyuntt/xqstats/board"
	"github.com/fuyuntt/xqstats/dataset"
	"github.com/sirupsen/logrus"
	"math/rand"
)

type Type string

const (
	TypeFreq    Type = "freq"
	TypeWinRate Type = "winrate"
)

func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeFreq, TypeWinRate:
		return Type(s), nil
	default:
		return "", fmt.Errorf("unknown model type: %q", s)
	}
}

// 走法统计模型
// 训练只能单线程进行 训练完成后 Predict 可以并发调用
type Model struct {
	modelType Type
	freq      *FreqTable
	win       *WinTable
	intn      func(n int) int
}

func New(t Type) *Model {
	return &Model{
		modelType: t,
		freq:      NewFreqTable(),
		win:       NewWinTable(),
		intn:      rand.Intn,
	}
}

func (m *Model) Type() Type {
	return m.modelType
}
// 两张表都会保存 加载后可以切换预测方式
func (m *Model) SetType(t Type) {
	m.modelType = t
}
func (m *Model) Freq() *FreqTable {
	return m.freq
}
func (m *Model) Win() *WinTable {
	return m.win
}

// 局面数
func (m *Model) Size() int {
	return m.freq.Len()
}

// 兜底走法的随机数来源 需要并发安全
func (m *Model) SetRand(intn func(n int) int) {
	m.intn = intn
}

// 记录一次 原局面和左右镜像局面各记一次
func (m *Model) Learn(s board.State, mv board.Move, outcome float64) {
	m.observe(s, mv, outcome)
	m.observe(s.Mirror(), mv.Mirror(), outcome)
}

func (m *Model) observe(s board.State, mv board.Move, outcome float64) {
	m.freq.GetOrInsert(s).Add(mv, 1)
	m.win.GetOrInsert(s).Append(mv, outcome)
}

func (m *Model) Train(replays []dataset.Replay) {
	logrus.Infof("training %s model with %d games", m.modelType, len(replays))
	for _, r := range replays {
		for i, mv := range r.Moves {
			m.Learn(r.States[i], mv, r.Outcome)
		}
	}
	logrus.Infof("training finished, states: %d", m.Size())
}

// 并发复盘后单线程训练 返回复盘结果供生成无效走法报告
func (m *Model) TrainGames(ctx context.Context, games []dataset.Game, threads int) ([]dataset.Replay, error) {
	dp := &dataset.Provider{Threads: threads}
	replays, err := dp.Replay(ctx, games)
	if err != nil {
		return nil, err
	}
	m.Train(replays)
	return replays, nil
}

// 预测下一步 有统计数据时按频次或胜率取最大 否则从单步走法中随机选一个
// 返回 false 表示没有可走的棋
func (m *Model) Predict(s board.State) (board.Move, bool) {
	if m.freq.Has(s) {
		switch m.modelType {
		case TypeFreq:
			if mv, ok := m.bestByCount(s); ok {
				return mv, true
			}
		case TypeWinRate:
			if mv, ok := m.bestByWinRate(s); ok {
				return mv, true
			}
		}
	}
	return m.fallback(s)
}

func (m *Model) bestByCount(s board.State) (board.Move, bool) {
	row := m.freq.Row(s)
	var best board.Move
	bestCount, found := 0, false
	for _, mv := range row.Moves {
		if c := row.Counts[mv]; !found || c > bestCount {
			best, bestCount, found = mv, c, true
		}
	}
	return best, found
}

func (m *Model) bestByWinRate(s board.State) (board.Move, bool) {
	row := m.win.Row(s)
	var best board.Move
	bestRate, found := -1.0, false
	for _, mv := range row.Moves {
		if rate := row.Mean(mv); rate > bestRate {
			best, bestRate, found = mv, rate, true
		}
	}
	return best, found
}

func (m *Model) fallback(s board.State) (board.Move, bool) {
	moves := board.LegalMoves(s)
	if len(moves) == 0 {
		return board.Move{}, false
	}
	return moves[m.intn(len(moves))], true
}

type MoveStat struct {
	Move    board.Move `json:"move"`
	Count   int        `json:"count"`
	WinRate float64    `json:"winrate"`
}

// 某局面下所有走法的统计 按首次出现顺序
func (m *Model) Stats(s board.State) []MoveStat {
	freq, win := m.freq.Row(s), m.win.Row(s)
	res := make([]MoveStat, 0, len(freq.Moves))
	for _, mv := range freq.Moves {
		res = append(res, MoveStat{Move: mv, Count: freq.Counts[mv], WinRate: win.Mean(mv)})
	}
	return res
}
