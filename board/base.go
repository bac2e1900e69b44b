package board

import (
	"errors"
	"fmt"
	"strings"
)

type Side int8

const (
	SdRed   Side = 0x01
	SdBlack Side = 0x02
)

// 对方
func (sd Side) OpSide() Side {
	return 0x03 - sd
}
func (sd Side) String() string {
	switch sd {
	case SdRed:
		return "Red"
	case SdBlack:
		return "Black"
	default:
		return "Nop"
	}
}

// fen 中的走棋方标记
func (sd Side) FenChar() byte {
	if sd == SdBlack {
		return 'b'
	}
	return 'w'
}

const (
	Width  = 9
	Height = 10
)

// 棋盘格子 十位是列(x) 个位是行(y)
type Pos int8

// 被吃掉的棋子
const PosCaptured Pos = 99

func GetPos(x, y int) Pos {
	return Pos(x*10 + y)
}
func (p Pos) GetX() int {
	return int(p) / 10
}
func (p Pos) GetY() int {
	return int(p) % 10
}
func (p Pos) Captured() bool {
	return p == PosCaptured
}
func (p Pos) InBoard() bool {
	return p >= 0 && p.GetX() < Width && p.GetY() < Height
}

// 左右镜像 吃掉的子保持不变
func (p Pos) Mirror() Pos {
	if p.Captured() {
		return p
	}
	return GetPos(Width-1-p.GetX(), p.GetY())
}
func (p Pos) String() string {
	return fmt.Sprintf("%02d", int(p))
}

// 槽位数量 黑16 红16
const SlotCount = 32

// 槽位对应的棋子 先黑后红: 车马象士将士象马车 炮炮 卒卒卒卒卒
const slotGlyphs = "rnbakabnrccppppp" + "RNBAKABNRCCPPPPP"

func SlotGlyph(slot int) byte {
	return slotGlyphs[slot]
}

var ErrInvalidState = errors.New("invalid board state")

// 局面 槽位顺序即棋子身份 不能重排
type State [SlotCount]Pos

func (s State) String() string {
	var sb strings.Builder
	sb.Grow(SlotCount * 2)
	for _, p := range s {
		sb.WriteByte(byte('0' + p.GetX()))
		sb.WriteByte(byte('0' + p.GetY()))
	}
	return sb.String()
}

func ParseState(str string) (State, error) {
	var s State
	if len(str) != SlotCount*2 {
		return s, fmt.Errorf("%w: length %d", ErrInvalidState, len(str))
	}
	var occupied [100]bool
	for i := 0; i < SlotCount; i++ {
		hi, lo := str[2*i], str[2*i+1]
		if hi < '0' || hi > '9' || lo < '0' || lo > '9' {
			return s, fmt.Errorf("%w: non-digit at slot %d: %s", ErrInvalidState, i, str)
		}
		p := Pos((hi-'0')*10 + (lo - '0'))
		if !p.Captured() {
			if !p.InBoard() {
				return s, fmt.Errorf("%w: slot %d off board: %s", ErrInvalidState, i, p)
			}
			if occupied[p] {
				return s, fmt.Errorf("%w: square %s occupied twice", ErrInvalidState, p)
			}
			occupied[p] = true
		}
		s[i] = p
	}
	return s, nil
}

// 占据该格子的第一个槽位 没有返回 -1
func (s State) Find(p Pos) int {
	if p.Captured() {
		return -1
	}
	for i, sp := range s {
		if sp == p {
			return i
		}
	}
	return -1
}

func (s State) Mirror() State {
	var m State
	for i, p := range s {
		m[i] = p.Mirror()
	}
	return m
}

// 存活的棋子数
func (s State) LiveCount() int {
	n := 0
	for _, p := range s {
		if !p.Captured() {
			n++
		}
	}
	return n
}

// 初始局面 由标准开局 fen 按槽位表推出
var initial State

func init() {
	s, _, err := ParseDiagram(InitFen)
	if err != nil {
		panic(err)
	}
	initial = s
}

func Initial() State {
	return initial
}
