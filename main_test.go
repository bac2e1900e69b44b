package main

import (
	"bytes"
	"errors"
	"github.com/fuyuntt/xqstats/board"
	"github.com/fuyuntt/xqstats/config"
	"github.com/fuyuntt/xqstats/model"
	"github.com/sirupsen/logrus"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunConsoleMissingModel(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.ModelPath = filepath.Join(dir, "missing.zst")
	cfg.LogFile = filepath.Join(dir, "chess.log")

	var out bytes.Buffer
	err := runConsole(cfg, strings.NewReader("quit\n"), &out)
	var loadErr *model.LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expect LoadError, actual %v", err)
	}
	if _, err := os.Stat(cfg.LogFile); !os.IsNotExist(err) {
		t.Errorf("log redirected before model loaded, stat err: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestRunConsole(t *testing.T) {
	defer logrus.SetOutput(os.Stderr)
	dir := t.TempDir()
	cfg := config.Default()
	cfg.ModelPath = filepath.Join(dir, "model.zst")
	cfg.LogFile = filepath.Join(dir, "chess.log")
	cfg.ModelType = string(model.TypeWinRate)

	m := model.New(model.TypeFreq)
	mv, _ := board.ParseMove("7747")
	m.Learn(board.Initial(), mv, 1)
	if err := m.Save(cfg.ModelPath); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := runConsole(cfg, strings.NewReader("go\nquit\n"), &out); err != nil {
		t.Fatal(err)
	}
	if out.String() != "bestmove h2e2\nbye\n" {
		t.Errorf("unexpected output: %q", out.String())
	}
	if _, err := os.Stat(cfg.LogFile); err != nil {
		t.Errorf("log file missing: %v", err)
	}
}
