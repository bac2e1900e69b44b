package server

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"github.com/fuyuntt/xqstats/game"
	"sync"
	"time"
)

const defaultSession = "default"

const (
	defaultMaxSessions = 4096
	defaultIdleTTL     = 2 * time.Hour
)

var ErrUnknownSession = errors.New("unknown session")

type session struct {
	game     *game.Game
	lastUsed time.Time
}

// 会话 -> 棋局 所有读写都在锁内完成
// 只有默认会话会自动创建 其余会话必须由 Create 生成
type Sessions struct {
	mu      sync.Mutex
	games   map[string]*session
	max     int
	idleTTL time.Duration
	now     func() time.Time
}

func NewSessions() *Sessions {
	return &Sessions{
		games:   make(map[string]*session),
		max:     defaultMaxSessions,
		idleTTL: defaultIdleTTL,
		now:     time.Now,
	}
}

// 先清理空闲会话 仍然满了就淘汰最久未用的
func (ss *Sessions) Create() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	id := hex.EncodeToString(b[:])
	ss.mu.Lock()
	defer ss.mu.Unlock()
	now := ss.now()
	ss.sweep(now)
	if len(ss.games) >= ss.max {
		ss.evictOldest()
	}
	ss.games[id] = &session{game: game.New(), lastUsed: now}
	return id
}

func (ss *Sessions) With(id string, f func(g *game.Game)) error {
	if id == "" {
		id = defaultSession
	}
	ss.mu.Lock()
	defer ss.mu.Unlock()
	sess, ok := ss.games[id]
	if !ok {
		if id != defaultSession {
			return ErrUnknownSession
		}
		sess = &session{game: game.New()}
		ss.games[id] = sess
	}
	sess.lastUsed = ss.now()
	f(sess.game)
	return nil
}

func (ss *Sessions) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.games)
}

func (ss *Sessions) sweep(now time.Time) {
	for id, sess := range ss.games {
		if id != defaultSession && now.Sub(sess.lastUsed) > ss.idleTTL {
			delete(ss.games, id)
		}
	}
}

func (ss *Sessions) evictOldest() {
	oldest := ""
	var oldestTime time.Time
	for id, sess := range ss.games {
		if id == defaultSession {
			continue
		}
		if oldest == "" || sess.lastUsed.Before(oldestTime) {
			oldest, oldestTime = id, sess.lastUsed
		}
	}
	if oldest != "" {
		delete(ss.games, oldest)
	}
}
