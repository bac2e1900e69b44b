package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// 按扩展名选择 json 或 parquet
func Load(path string, parallel int64) ([]Game, error) {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return LoadParquet(path, parallel)
	}
	return LoadJSON(path)
}

func LoadJSON(path string) ([]Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text, err := decodeCorpus(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	var games []Game
	if err := json.Unmarshal(text, &games); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	logrus.Infof("loaded %d games from %s", len(games), path)
	return games, nil
}

// 棋谱文件可能是 utf-8 (可带 BOM) 或 GBK
func decodeCorpus(data []byte) ([]byte, error) {
	if bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		data = data[3:]
	}
	if utf8.Valid(data) {
		return data, nil
	}
	reader := transform.NewReader(bytes.NewReader(data), simplifiedchinese.GB18030.NewDecoder())
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(decoded) {
		return nil, errors.New("failed to decode GBK corpus")
	}
	return decoded, nil
}
