package dataset

import (
	"github.com/fuyuntt/xqstats/board"
	"github.com/sirupsen/logrus"
)

const (
	ResultRedWin   = "red_win"
	ResultBlackWin = "black_win"
	ResultDraw     = "draw"
)

// 一局棋谱 movelist 每4个字符一步
type Game struct {
	GameID   string `json:"game_id,omitempty" parquet:"name=game_id, type=BYTE_ARRAY, convertedtype=UTF8"`
	Result   string `json:"result" parquet:"name=result, type=BYTE_ARRAY, convertedtype=UTF8"`
	MoveList string `json:"movelist" parquet:"name=movelist, type=BYTE_ARRAY, convertedtype=UTF8"`
}

func (g Game) Moves() []string {
	moves := make([]string, 0, len(g.MoveList)/4+1)
	for i := 0; i < len(g.MoveList); i += 4 {
		end := i + 4
		if end > len(g.MoveList) {
			end = len(g.MoveList)
		}
		moves = append(moves, g.MoveList[i:end])
	}
	return moves
}

// 红方得分: 红胜1 黑胜0 其余0.5
func Outcome(result string) float64 {
	switch result {
	case ResultRedWin:
		return 1
	case ResultBlackWin:
		return 0
	default:
		return 0.5
	}
}

type InvalidMove struct {
	GameID     int    `json:"game_id"`
	Move       string `json:"move"`
	MoveList   string `json:"movelist"`
	BoardState string `json:"board_state"`
	Error      string `json:"error"`
}

// 复盘结果 States[i] 是第 i 步走之前的局面 比 Moves 多一个终局
type Replay struct {
	ID      int
	Result  string
	Outcome float64
	States  []board.State
	Moves   []board.Move
	Invalid []InvalidMove
}

// 从初始局面复盘 无效走法跳过并记录
func ReplayGame(id int, g Game) Replay {
	moves := g.Moves()
	r := Replay{
		ID:      id,
		Result:  g.Result,
		Outcome: Outcome(g.Result),
		States:  make([]board.State, 1, len(moves)+1),
		Moves:   make([]board.Move, 0, len(moves)),
	}
	state := board.Initial()
	r.States[0] = state
	for _, str := range moves {
		mv, err := board.ParseMove(str)
		var next board.State
		if err == nil {
			next, err = state.Apply(mv)
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{"game": id, "move": str}).Warnf("skip invalid move: %v", err)
			r.Invalid = append(r.Invalid, InvalidMove{
				GameID:     id,
				Move:       str,
				MoveList:   g.MoveList,
				BoardState: state.String(),
				Error:      err.Error(),
			})
			continue
		}
		r.Moves = append(r.Moves, mv)
		r.States = append(r.States, next)
		state = next
	}
	return r
}
