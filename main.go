package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"github.com/fuyuntt/xqstats/chessdb"
	"github.com/fuyuntt/xqstats/config"
	"github.com/fuyuntt/xqstats/dataset"
	"github.com/fuyuntt/xqstats/model"
	"github.com/fuyuntt/xqstats/server"
	"github.com/fuyuntt/xqstats/ucci"
	"github.com/sirupsen/logrus"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
)

var configPath = flag.String("c", "", "config file path")
var trainCorpus = flag.String("train", "", "train a model from the corpus (json or parquet)")
var outPath = flag.String("o", "", "model output path")
var modelType = flag.String("type", "", "model type: freq or winrate")
var exportParquet = flag.String("export-parquet", "", "convert the corpus given by -train to parquet")
var serverMode = flag.Bool("s", false, "open server mode")
var port = flag.Int("p", 0, "server mode listening port")
var httpMode = flag.Bool("http", false, "serve the http api")

func main() {
	flag.Parse()
	cfg, err := config.Resolve(*configPath)
	if err != nil {
		logrus.Fatalf("load config failure, err=%v", err)
	}
	logrus.SetLevel(cfg.Level())
	if *modelType != "" {
		cfg.ModelType = *modelType
	}
	if *port != 0 {
		cfg.TCPPort = *port
	}
	switch {
	case *trainCorpus != "" && *exportParquet != "":
		export(cfg, *trainCorpus, *exportParquet)
	case *trainCorpus != "":
		train(cfg, *trainCorpus)
	case *httpMode:
		serveHTTP(cfg, mustLoadModel(cfg))
	case *serverMode:
		networkEngine(cfg.TCPPort, mustLoadModel(cfg))
	default:
		if err := runConsole(cfg, os.Stdin, os.Stdout); err != nil {
			logrus.Fatalf("load model failure, err=%v", err)
		}
	}
}

// 模型只在启动时加载一次
func loadModel(cfg config.Config) (*model.Model, error) {
	t, err := model.ParseType(cfg.ModelType)
	if err != nil {
		return nil, err
	}
	m, err := model.Load(cfg.ModelPath)
	if err != nil {
		return nil, err
	}
	if m.Type() != t {
		logrus.Infof("model trained as %s, predicting by %s", m.Type(), t)
		m.SetType(t)
	}
	logrus.Infof("model loaded, path: %s, states: %d", cfg.ModelPath, m.Size())
	return m, nil
}

func mustLoadModel(cfg config.Config) *model.Model {
	m, err := loadModel(cfg)
	if err != nil {
		logrus.Fatalf("load model failure, err=%v", err)
	}
	return m
}

// 控制台模式 模型加载成功后日志才写入文件 失败信息留在终端
func runConsole(cfg config.Config, reader io.Reader, writer io.Writer) error {
	m, err := loadModel(cfg)
	if err != nil {
		return err
	}
	file, err := os.Create(cfg.LogFile)
	if err == nil {
		logrus.SetOutput(file)
		defer file.Close()
	}
	deal(reader, writer, m)
	return nil
}

func train(cfg config.Config, corpus string) {
	t, err := model.ParseType(cfg.ModelType)
	if err != nil {
		logrus.Fatalf("invalid model type, err=%v", err)
	}
	games, err := dataset.Load(corpus, int64(cfg.Threads))
	if err != nil {
		logrus.Fatalf("load corpus failure, err=%v", err)
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	m := model.New(t)
	replays, err := m.TrainGames(ctx, games, cfg.Threads)
	if err != nil {
		logrus.Fatalf("train failure, err=%v", err)
	}
	out := *outPath
	if out == "" {
		out = cfg.ModelPath
	}
	if err := m.Save(out); err != nil {
		logrus.Fatalf("save model failure, err=%v", err)
	}
	report := filepath.Join(filepath.Dir(out), "invalid_moves.json")
	if err := dataset.WriteInvalidReport(report, replays); err != nil {
		logrus.Errorf("write invalid move report failure, err=%v", err)
	}
	fmt.Printf("trained %d games, %d states, invalid moves: %d, saved to %s\n",
		len(replays), m.Size(), len(dataset.InvalidMoves(replays)), out)
}

func export(cfg config.Config, corpus, out string) {
	games, err := dataset.Load(corpus, int64(cfg.Threads))
	if err != nil {
		logrus.Fatalf("load corpus failure, err=%v", err)
	}
	if err := dataset.WriteParquet(out, games, int64(cfg.Threads)); err != nil {
		logrus.Fatalf("write parquet failure, err=%v", err)
	}
	fmt.Printf("exported %d games to %s\n", len(games), out)
}

func serveHTTP(cfg config.Config, m *model.Model) {
	remote := chessdb.NewClient(cfg.ChessDBURL, 10*time.Second)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.New(m, remote).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       time.Minute,
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go func() {
		<-ctx.Done()
		shutdown, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = srv.Shutdown(shutdown)
	}()
	logrus.Infof("http listening: %s", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.Fatalf("http server failure, err=%v", err)
	}
}

// 网络引擎 可配合客户端使用
func networkEngine(port int, m *model.Model) {
	listen, err := net.Listen("tcp", fmt.Sprintf("0.0.0.0:%d", port))
	if err != nil {
		logrus.Errorf("监听端口失败, err=%v", err)
		return
	}
	logrus.Infof("start listening: %v", listen.Addr())
	for {
		conn, err := listen.Accept()
		if err != nil {
			logrus.Errorf("获取连接失败， err=%v", err)
			return
		}
		logrus.Infof("accept connection: %v", conn.RemoteAddr())
		go func() {
			defer conn.Close()
			deal(conn, conn, m)
		}()
	}
}

func deal(reader io.Reader, writer io.Writer, m *model.Model) {
	engine := ucci.CreateEngine(m)
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		cmd := scanner.Text()
		ctx := ucci.CreateCmdCtx(writer)
		engine.ExecCommand(ctx, cmd)
		if cmd == "quit" {
			logrus.Infof("engine quit")
			return
		}
	}
}
