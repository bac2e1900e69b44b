package config

import (
	"encoding/json"
	"fmt"
	"github.com/sirupsen/logrus"
	"os"
	"path/filepath"
	"strconv"
)

const FileName = "xqstats.json"

type Config struct {
	ModelPath  string `json:"model_path"`
	ModelType  string `json:"model_type"`
	HTTPAddr   string `json:"http_addr"`
	TCPPort    int    `json:"tcp_port"`
	ChessDBURL string `json:"chessdb_url"`
	Threads    int    `json:"threads"`
	LogFile    string `json:"log_file"`
	LogLevel   string `json:"log_level"`
}

func Default() Config {
	return Config{
		ModelPath: "model.zst",
		ModelType: "freq",
		HTTPAddr:  ":5000",
		TCPPort:   1234,
		Threads:   4,
		LogFile:   "chess.log",
		LogLevel:  "info",
	}
}

// 从当前目录逐级向上查找配置文件
func FindConfigPath() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findConfigFrom(cwd)
}

func findConfigFrom(start string) (string, error) {
	dir := start
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%s not found from %s", FileName, start)
}

// 文件中缺省的字段取默认值
func LoadConfig(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// 环境变量覆盖配置
func (cfg *Config) ApplyEnv() {
	if v := os.Getenv("MODEL_TYPE"); v != "" {
		cfg.ModelType = v
	}
	if v := os.Getenv("MODEL_PATH"); v != "" {
		cfg.ModelPath = v
	}
	if v := os.Getenv("CHESSDB_URL"); v != "" {
		cfg.ChessDBURL = v
	}
	if v := os.Getenv("THREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Threads = n
		} else {
			logrus.Warnf("ignore invalid THREADS: %q", v)
		}
	}
}

// 没有配置文件时使用默认值
func Resolve(path string) (Config, error) {
	if path == "" {
		found, err := FindConfigPath()
		if err != nil {
			cfg := Default()
			cfg.ApplyEnv()
			return cfg, nil
		}
		path = found
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return Config{}, err
	}
	logrus.Infof("load config from %s", path)
	cfg.ApplyEnv()
	return cfg, nil
}

func (cfg Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}
