package game

import (
	"errors"
	"github.com/fuyuntt/xqstats/board"
)

var ErrNoHistory = errors.New("no move to undo")

type Predictor interface {
	Predict(s board.State) (board.Move, bool)
}

// 一盘棋 每个会话各自持有 不在会话之间共享
type Game struct {
	State   board.State
	Side    board.Side
	History []board.Move
	states  []board.State
}

func New() *Game {
	return &Game{State: board.Initial(), Side: board.SdRed}
}

// 从任意局面开始
func FromState(s board.State, sd board.Side) *Game {
	return &Game{State: s, Side: sd}
}

func (g *Game) Restart() {
	*g = *New()
}

// 走棋 失败时局面不变
func (g *Game) Move(mv board.Move) error {
	next, err := g.State.Apply(mv)
	if err != nil {
		return err
	}
	g.states = append(g.states, g.State)
	g.History = append(g.History, mv)
	g.State = next
	g.Side = g.Side.OpSide()
	return nil
}

func (g *Game) MoveString(str string) error {
	mv, err := board.ParseMove(str)
	if err != nil {
		return &board.IllegalMoveError{Move: str, State: g.State, Reason: board.ReasonMalformed}
	}
	return g.Move(mv)
}

func (g *Game) Undo() error {
	n := len(g.states)
	if n == 0 {
		return ErrNoHistory
	}
	g.State = g.states[n-1]
	g.states = g.states[:n-1]
	g.History = g.History[:len(g.History)-1]
	g.Side = g.Side.OpSide()
	return nil
}

// 让模型走一步 返回 false 表示没有可走的棋
func (g *Game) Reply(p Predictor) (board.Move, bool, error) {
	mv, ok := p.Predict(g.State)
	if !ok {
		return board.Move{}, false, nil
	}
	if err := g.Move(mv); err != nil {
		return mv, true, err
	}
	return mv, true, nil
}

func (g *Game) Diagram() string {
	return board.Diagram(g.State, g.Side)
}
