package server

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/fuyuntt/xqstats/board"
	"github.com/fuyuntt/xqstats/chessdb"
	"github.com/fuyuntt/xqstats/game"
	"github.com/fuyuntt/xqstats/model"
	"github.com/sirupsen/logrus"
	"net/http"
	"time"
)

// 带统计的模型 没有统计时不提供 /api/stats
type StatsModel interface {
	game.Predictor
	Stats(s board.State) []model.MoveStat
}

// 外部引擎 比如云库
type Suggester interface {
	Suggest(ctx context.Context, s board.State, sd board.Side) (board.Move, error)
}

// 云库无结果时返回的走法
const noMove = "9999"

type Server struct {
	model    game.Predictor
	remote   Suggester
	sessions *Sessions
}

type response struct {
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

// remote 可以为 nil 此时不提供云库走法
func New(model game.Predictor, remote Suggester) *Server {
	return &Server{model: model, remote: remote, sessions: NewSessions()}
}

func (srv *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", srv.health)
	mux.HandleFunc("GET /api/session", srv.newSession)
	mux.HandleFunc("GET /api/suggest/restart", srv.restart)
	mux.HandleFunc("GET /api/suggest/current_apply_ai_step", srv.applyAIStep)
	mux.HandleFunc("GET /api/suggest/getApiMove", srv.remoteMove)
	mux.HandleFunc("GET /api/suggest/{move}", srv.suggest)
	mux.HandleFunc("GET /api/move", srv.move)
	mux.HandleFunc("GET /api/fen", srv.fen)
	mux.HandleFunc("GET /api/stats", srv.stats)
	return cors(accessLog(mux))
}

func (srv *Server) health(resp http.ResponseWriter, req *http.Request) {
	resp.WriteHeader(http.StatusOK)
	_, _ = resp.Write([]byte("ok"))
}

func (srv *Server) newSession(resp http.ResponseWriter, req *http.Request) {
	writeJSON(resp, http.StatusOK, response{Code: http.StatusOK, Data: srv.sessions.Create()})
}

func (srv *Server) restart(resp http.ResponseWriter, req *http.Request) {
	err := srv.sessions.With(req.URL.Query().Get("session"), func(g *game.Game) {
		g.Restart()
	})
	if err != nil {
		writeJSON(resp, http.StatusNotFound, errorResponse(err))
		return
	}
	writeJSON(resp, http.StatusOK, response{Code: http.StatusOK, Data: "restart"})
}

// 用户走一步 返回模型建议的走法 建议的走法由前端确认后再提交
func (srv *Server) suggest(resp http.ResponseWriter, req *http.Request) {
	userMove := req.PathValue("move")
	var res response
	err := srv.sessions.With(req.URL.Query().Get("session"), func(g *game.Game) {
		if err := g.MoveString(userMove); err != nil {
			res = errorResponse(err)
			return
		}
		mv, ok := srv.model.Predict(g.State)
		if !ok {
			res = response{Code: http.StatusNotFound, Message: "no move available, game over"}
			return
		}
		logrus.Infof("suggest move: %s, state: %s", mv, g.State)
		res = response{Code: http.StatusOK, Data: mv.String()}
	})
	if err != nil {
		res = errorResponse(err)
	}
	writeJSON(resp, res.Code, res)
}

func (srv *Server) applyAIStep(resp http.ResponseWriter, req *http.Request) {
	query := req.URL.Query()
	var res response
	err := srv.sessions.With(query.Get("session"), func(g *game.Game) {
		if err := g.MoveString(query.Get("move")); err != nil {
			res = errorResponse(err)
			return
		}
		res = response{Code: http.StatusOK, Data: "applyOK"}
	})
	if err != nil {
		res = errorResponse(err)
	}
	writeJSON(resp, res.Code, res)
}

// 查询云库 不改变局面
func (srv *Server) remoteMove(resp http.ResponseWriter, req *http.Request) {
	if srv.remote == nil {
		writeJSON(resp, http.StatusNotImplemented, response{Code: http.StatusNotImplemented, Message: "remote engine disabled"})
		return
	}
	var state board.State
	var side board.Side
	err := srv.sessions.With(req.URL.Query().Get("session"), func(g *game.Game) {
		state, side = g.State, g.Side
	})
	if err != nil {
		writeJSON(resp, http.StatusNotFound, errorResponse(err))
		return
	}
	ctx, cancel := context.WithTimeout(req.Context(), 10*time.Second)
	defer cancel()
	mv, err := srv.remote.Suggest(ctx, state, side)
	if errors.Is(err, chessdb.ErrNoSuggestion) {
		writeJSON(resp, http.StatusOK, response{Code: http.StatusOK, Data: noMove})
		return
	}
	if err != nil {
		logrus.Errorf("remote engine failure, state: %s, err: %v", state, err)
		writeJSON(resp, http.StatusOK, errorResponse(err))
		return
	}
	writeJSON(resp, http.StatusOK, response{Code: http.StatusOK, Data: mv.String()})
}

// 无状态走棋 board 为局面字符串 action 为走法
func (srv *Server) move(resp http.ResponseWriter, req *http.Request) {
	query := req.URL.Query()
	boardStr, action := query.Get("board"), query.Get("action")
	if boardStr == "" || action == "" {
		writeJSON(resp, http.StatusBadRequest, response{Code: http.StatusBadRequest, Message: "missing board or action parameter"})
		return
	}
	s, err := board.ParseState(boardStr)
	if err != nil {
		writeJSON(resp, http.StatusBadRequest, errorResponse(err))
		return
	}
	next, err := s.ApplyString(action)
	if err != nil {
		writeJSON(resp, http.StatusBadRequest, errorResponse(err))
		return
	}
	writeJSON(resp, http.StatusOK, response{Code: http.StatusOK, Data: next.String()})
}

func (srv *Server) fen(resp http.ResponseWriter, req *http.Request) {
	query := req.URL.Query()
	s, err := board.ParseState(query.Get("board"))
	if err != nil {
		writeJSON(resp, http.StatusBadRequest, errorResponse(err))
		return
	}
	side := board.SdRed
	if query.Get("side") == "b" {
		side = board.SdBlack
	}
	writeJSON(resp, http.StatusOK, response{Code: http.StatusOK, Data: board.Diagram(s, side)})
}

func (srv *Server) stats(resp http.ResponseWriter, req *http.Request) {
	sm, ok := srv.model.(StatsModel)
	if !ok {
		writeJSON(resp, http.StatusNotImplemented, response{Code: http.StatusNotImplemented, Message: "stats not supported"})
		return
	}
	s, err := board.ParseState(req.URL.Query().Get("board"))
	if err != nil {
		writeJSON(resp, http.StatusBadRequest, errorResponse(err))
		return
	}
	writeJSON(resp, http.StatusOK, response{Code: http.StatusOK, Data: sm.Stats(s)})
}

func errorResponse(err error) response {
	var illegal *board.IllegalMoveError
	switch {
	case errors.Is(err, ErrUnknownSession):
		return response{Code: http.StatusNotFound, Message: err.Error()}
	case errors.As(err, &illegal), errors.Is(err, board.ErrInvalidState):
		return response{Code: http.StatusBadRequest, Message: err.Error()}
	default:
		return response{Code: http.StatusBadGateway, Message: err.Error()}
	}
}

func writeJSON(resp http.ResponseWriter, code int, v interface{}) {
	resp.Header().Set("Content-Type", "application/json")
	resp.WriteHeader(code)
	if err := json.NewEncoder(resp).Encode(v); err != nil {
		logrus.Errorf("write response failure, err=%v", err)
	}
}
