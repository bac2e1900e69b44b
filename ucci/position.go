package ucci

import (
	"fmt"
	"github.com/fuyuntt/xqstats/board"
	"github.com/fuyuntt/xqstats/game"
	"github.com/fuyuntt/xqstats/util"
	"regexp"
	"strings"
)

var positionRegexp = regexp.MustCompile(`^(?:fen (?P<fen>[kabnrcpKABNRCP1-9/]+(?: [wrb])?(?: - - \d+ \d+)?)|(?P<startpos>startpos)|(?P<state>\d{64}))(?: moves(?P<moves>(?: \w{4})+))?$`)

func parsePosition(positionStr string) (*game.Game, error) {
	groups, ok := util.MatchGroups(positionRegexp, strings.TrimSpace(positionStr))
	if !ok {
		return nil, fmt.Errorf("illegal position: %s", positionStr)
	}
	var g *game.Game
	switch {
	case groups["fen"] != "":
		s, sd, err := board.ParseDiagram(groups["fen"])
		if err != nil {
			return nil, fmt.Errorf("fen parse failure: %s, err: %w", positionStr, err)
		}
		g = game.FromState(s, sd)
	case groups["state"] != "":
		s, err := board.ParseState(groups["state"])
		if err != nil {
			return nil, fmt.Errorf("state parse failure: %s, err: %w", positionStr, err)
		}
		g = game.FromState(s, board.SdRed)
	default:
		g = game.New()
	}
	for _, tok := range strings.Fields(groups["moves"]) {
		mv, err := parseMove(tok)
		if err != nil {
			return nil, err
		}
		if err := g.Move(mv); err != nil {
			return nil, fmt.Errorf("illegal move %s in position: %w", tok, err)
		}
	}
	return g, nil
}

// 兼容 iccs (h2e2) 和坐标 (7747) 两种写法
func parseMove(tok string) (board.Move, error) {
	if len(tok) == 4 && tok[0] >= 'a' && tok[0] <= 'i' {
		return board.ParseICCS(tok)
	}
	return board.ParseMove(tok)
}
