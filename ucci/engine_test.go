package ucci

import (
	"bytes"
	"github.com/fuyuntt/xqstats/board"
	"github.com/fuyuntt/xqstats/model"
	"strings"
	"testing"
)

func TestParsePosition(t *testing.T) {
	g, err := parsePosition("startpos moves b2e2 h9g7 b0c2")
	if err != nil {
		t.Fatal(err)
	}
	if g.State[25] != board.GetPos(4, 7) || g.State[7] != board.GetPos(6, 2) || g.State[17] != board.GetPos(2, 7) {
		t.Errorf("unexpected state: %s", g.State)
	}
	if g.Side != board.SdBlack || len(g.History) != 3 {
		t.Errorf("unexpected side %s, history %v", g.Side, g.History)
	}

	g, err = parsePosition("fen " + board.InitFen + " moves 7747")
	if err != nil {
		t.Fatal(err)
	}
	if g.State[26] != board.GetPos(4, 7) {
		t.Errorf("unexpected state: %s", g.State)
	}

	g, err = parsePosition(board.Initial().String())
	if err != nil || g.State != board.Initial() {
		t.Errorf("state position failure: %v", err)
	}

	var bad = []string{"", "startpos moves e5e6", "fen xyz", "startpos moves 9999"}
	for _, pos := range bad {
		if _, err := parsePosition(pos); err == nil {
			t.Errorf("%q: expect error", pos)
		}
	}
}

func run(engine *Engine, cmds ...string) []string {
	var out bytes.Buffer
	ctx := CreateCmdCtx(&out)
	for _, cmd := range cmds {
		engine.ExecCommand(ctx, cmd)
	}
	return strings.Split(strings.TrimSpace(out.String()), "\n")
}

func TestEngine(t *testing.T) {
	m := model.New(model.TypeFreq)
	mv, _ := board.ParseMove("7747")
	m.Learn(board.Initial(), mv, 1)
	s1, _ := board.Initial().Apply(mv)
	reply, _ := board.ParseMove("7062")
	m.Learn(s1, reply, 1)

	engine := CreateEngine(m)
	lines := run(engine, "ucci", "isready", "position startpos", "go")
	if lines[len(lines)-1] != "bestmove h2e2" || lines[len(lines)-2] != "readyok" {
		t.Errorf("unexpected output: %v", lines)
	}

	s2, _ := s1.Apply(reply)
	lines = run(engine, "play 7747")
	expect := []string{"board " + s1.String(), "reply 7062", "board " + s2.String()}
	if strings.Join(lines, "\n") != strings.Join(expect, "\n") {
		t.Errorf("expect %v, actual %v", expect, lines)
	}

	lines = run(engine, "move 7747")
	if !strings.HasPrefix(lines[0], "illegal ") {
		t.Errorf("expect illegal, actual %v", lines)
	}
	lines = run(engine, "move x9")
	if !strings.HasPrefix(lines[0], "illegal ") || !strings.Contains(lines[0], board.ReasonMalformed) {
		t.Errorf("expect malformed, actual %v", lines)
	}

	lines = run(engine, "undo", "undo", "stats", "fen", "quit")
	expect = []string{
		"board " + s1.String(),
		"board " + board.Initial().String(),
		"stat 7747 count 1 winrate 1.000",
		"stats 1",
		"fen " + board.InitFen,
		"bye",
	}
	if strings.Join(lines, "\n") != strings.Join(expect, "\n") {
		t.Errorf("expect %v, actual %v", expect, lines)
	}
}

func TestEngineIccsMove(t *testing.T) {
	engine := CreateEngine(model.New(model.TypeFreq))
	s1, _ := board.Initial().ApplyString("7747")
	s2, _ := s1.ApplyString("7062")
	lines := run(engine, "move h2e2", "move 7062")
	expect := []string{"board " + s1.String(), "board " + s2.String()}
	if strings.Join(lines, "\n") != strings.Join(expect, "\n") {
		t.Errorf("expect %v, actual %v", expect, lines)
	}
}

func TestEngineNoMove(t *testing.T) {
	engine := CreateEngine(model.New(model.TypeWinRate))
	empty := strings.Repeat("99", board.SlotCount)
	lines := run(engine, "position "+empty, "go")
	if lines[0] != "nobestmove" {
		t.Errorf("expect nobestmove, actual %v", lines)
	}
}
