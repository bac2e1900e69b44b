package ucci

import (
	"fmt"
	"github.com/fuyuntt/xqstats/board"
	"github.com/fuyuntt/xqstats/game"
	"github.com/fuyuntt/xqstats/model"
	"github.com/sirupsen/logrus"
	"io"
	"strings"
)

type Model interface {
	game.Predictor
	Stats(s board.State) []model.MoveStat
}

// 每个连接一个引擎 各自持有棋局 模型只读共享
type Engine struct {
	model Model
	game  *game.Game
}

func CreateEngine(m Model) *Engine {
	return &Engine{model: m, game: game.New()}
}

func (engine *Engine) ExecCommand(ctx *CmdCtx, cmdStr string) {
	logrus.Infof("cmd: %s", cmdStr)
	cmdParam := strings.SplitN(strings.TrimSpace(cmdStr), " ", 2)
	arg := ""
	if len(cmdParam) > 1 {
		arg = strings.TrimSpace(cmdParam[1])
	}
	switch cmdParam[0] {
	case "ucci":
		engine.ucci(ctx)
	case "isready":
		engine.isReady(ctx)
	case "position":
		engine.position(ctx, arg)
	case "go":
		engine.goThink(ctx)
	case "move":
		engine.move(ctx, arg)
	case "play":
		engine.play(ctx, arg)
	case "undo":
		engine.undo(ctx)
	case "restart", "newgame":
		engine.game.Restart()
		engine.board(ctx)
	case "board":
		engine.board(ctx)
	case "fen":
		ctx.fPrintln("fen " + engine.game.Diagram())
	case "stats":
		engine.stats(ctx)
	case "quit":
		engine.quit(ctx)
	case "":
	default:
		ctx.fPrintln("unknown command: " + cmdParam[0])
	}
}

func (engine *Engine) ucci(ctx *CmdCtx) {
	ctx.fPrintln("id name XQStats 1.0")
	ctx.fPrintln("id author Fu Yun")
	ctx.fPrintln("ucciok")
}

func (engine *Engine) isReady(ctx *CmdCtx) {
	ctx.fPrintln("readyok")
}

func (engine *Engine) position(ctx *CmdCtx, positionStr string) {
	g, err := parsePosition(positionStr)
	if err != nil {
		logrus.Errorf("parse position failure, position: %s, err: %v", positionStr, err)
		ctx.fPrintln("error " + err.Error())
		return
	}
	engine.game = g
}

// 只给出走法 不改变局面
func (engine *Engine) goThink(ctx *CmdCtx) {
	mv, ok := engine.model.Predict(engine.game.State)
	if !ok {
		ctx.fPrintln("nobestmove")
		return
	}
	logrus.Infof("bestmove: %s, state: %s", mv, engine.game.State)
	ctx.fPrintln("bestmove " + mv.ICCS())
}

// 走法可以是 iccs 或坐标
func (engine *Engine) move(ctx *CmdCtx, mvStr string) bool {
	mv, err := parseMove(mvStr)
	if err != nil {
		err = &board.IllegalMoveError{Move: mvStr, State: engine.game.State, Reason: board.ReasonMalformed}
	} else {
		err = engine.game.Move(mv)
	}
	if err != nil {
		ctx.fPrintln("illegal " + err.Error())
		return false
	}
	engine.board(ctx)
	return true
}

// 用户走一步 模型应一步
func (engine *Engine) play(ctx *CmdCtx, mv string) {
	if !engine.move(ctx, mv) {
		return
	}
	reply, ok, err := engine.game.Reply(engine.model)
	if err != nil {
		logrus.Errorf("model move failure, move: %s, err: %v", reply, err)
		ctx.fPrintln("error " + err.Error())
		return
	}
	if !ok {
		ctx.fPrintln("nobestmove")
		return
	}
	ctx.fPrintln("reply " + reply.String())
	engine.board(ctx)
}

func (engine *Engine) undo(ctx *CmdCtx) {
	if err := engine.game.Undo(); err != nil {
		ctx.fPrintln("error " + err.Error())
		return
	}
	engine.board(ctx)
}

func (engine *Engine) board(ctx *CmdCtx) {
	ctx.fPrintln("board " + engine.game.State.String())
}

func (engine *Engine) stats(ctx *CmdCtx) {
	stats := engine.model.Stats(engine.game.State)
	for _, st := range stats {
		ctx.fPrintln(fmt.Sprintf("stat %s count %d winrate %.3f", st.Move, st.Count, st.WinRate))
	}
	ctx.fPrintln(fmt.Sprintf("stats %d", len(stats)))
}

func (engine *Engine) quit(ctx *CmdCtx) {
	ctx.fPrintln("bye")
}

type CmdCtx struct {
	output io.Writer
}

func CreateCmdCtx(writer io.Writer) *CmdCtx {
	return &CmdCtx{writer}
}

func (ctx *CmdCtx) fPrintln(a ...interface{}) {
	logrus.Infof("ucci: %v", a)
	_, err := fmt.Fprintln(ctx.output, a...)
	if err != nil {
		logrus.Errorf("output write failure. %v, err=%v", a, err)
	}
}
