package board

import (
	"errors"
	"fmt"
)

var ErrInvalidMove = errors.New("invalid move")

const (
	ReasonNoPiece   = "no piece at origin"
	ReasonOccupied  = "destination occupied without legal capture"
	ReasonMalformed = "malformed move"
)

type IllegalMoveError struct {
	Move   string
	State  State
	Reason string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %s: %s, state: %s", e.Move, e.Reason, e.State)
}

// 走法 起点 终点
type Move struct {
	Src Pos
	Dst Pos
}

func GetMove(src, dst Pos) Move {
	return Move{Src: src, Dst: dst}
}
func (mv Move) String() string {
	return mv.Src.String() + mv.Dst.String()
}
func (mv Move) MarshalText() ([]byte, error) {
	return []byte(mv.String()), nil
}
func (mv *Move) UnmarshalText(text []byte) error {
	parsed, err := ParseMove(string(text))
	if err != nil {
		return err
	}
	*mv = parsed
	return nil
}
func (mv Move) Mirror() Move {
	return Move{Src: mv.Src.Mirror(), Dst: mv.Dst.Mirror()}
}
func (mv Move) InBoard() bool {
	return mv.Src.InBoard() && mv.Dst.InBoard()
}

// 解析 "xyxy" 形式的走法
func ParseMove(str string) (Move, error) {
	if len(str) != 4 {
		return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, str)
	}
	var d [4]int
	for i := 0; i < 4; i++ {
		if str[i] < '0' || str[i] > '9' {
			return Move{}, fmt.Errorf("%w: %q", ErrInvalidMove, str)
		}
		d[i] = int(str[i] - '0')
	}
	mv := GetMove(GetPos(d[0], d[1]), GetPos(d[2], d[3]))
	if !mv.InBoard() {
		return Move{}, fmt.Errorf("%w: %q off board", ErrInvalidMove, str)
	}
	return mv, nil
}

// 走棋 终点有子则吃掉(不区分己方对方) 返回新局面 不修改原局面
func (s State) Apply(mv Move) (State, error) {
	if !mv.InBoard() {
		return s, &IllegalMoveError{Move: mv.String(), State: s, Reason: ReasonMalformed}
	}
	src := s.Find(mv.Src)
	if src < 0 {
		return s, &IllegalMoveError{Move: mv.String(), State: s, Reason: ReasonNoPiece}
	}
	next := s
	next[src] = mv.Dst
	for i := range next {
		if i != src && next[i] == mv.Dst {
			next[i] = PosCaptured
			break
		}
	}
	return next, nil
}

func (s State) ApplyString(str string) (State, error) {
	mv, err := ParseMove(str)
	if err != nil {
		return s, &IllegalMoveError{Move: str, State: s, Reason: ReasonMalformed}
	}
	return s.Apply(mv)
}
