package chessdb

import (
	"context"
	"errors"
	"fmt"
	"github.com/fuyuntt/xqstats/board"
	"github.com/sirupsen/logrus"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultURL = "https://www.chessdb.cn/chessdb.php"

var ErrNoSuggestion = errors.New("no suggestion available")

// 云库查询客户端
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Client{BaseURL: baseURL, HTTP: &http.Client{Timeout: timeout}}
}

// 查询局面的最佳走法 querybest 没有结果时再用 queryall
func (c *Client) Suggest(ctx context.Context, s board.State, sd board.Side) (board.Move, error) {
	return c.QueryBest(ctx, board.Diagram(s, sd))
}

func (c *Client) QueryBest(ctx context.Context, fen string) (board.Move, error) {
	for _, action := range []string{"querybest", "queryall"} {
		res, err := c.query(ctx, action, fen)
		if err != nil {
			return board.Move{}, err
		}
		logrus.WithFields(logrus.Fields{"action": action, "fen": fen}).Infof("chessdb result: %s", res)
		iccs, ok := ParseResponse(res)
		if !ok {
			continue
		}
		// 第二段不是走法 比如 status:checkmate
		mv, err := board.ParseICCS(iccs)
		if err != nil {
			continue
		}
		return mv, nil
	}
	return board.Move{}, ErrNoSuggestion
}

func (c *Client) query(ctx context.Context, action, fen string) (string, error) {
	params := url.Values{}
	params.Set("action", action)
	params.Set("board", fen)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("chessdb %s: %w", action, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chessdb %s: status %d", action, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("chessdb %s: %w", action, err)
	}
	return string(body), nil
}

// 结果形如 "move:h2e2" 或 "move:h2e2,score:1|move:..." 取第二段的前4个字符
func ParseResponse(res string) (string, bool) {
	parts := strings.Split(strings.TrimRight(res, "\x00\r\n "), ":")
	if len(parts) < 2 || len(parts[1]) < 4 {
		return "", false
	}
	return parts[1][:4], true
}
