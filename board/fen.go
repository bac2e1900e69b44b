package board

import (
	"errors"
	"fmt"
	"strings"
)

const InitFen = "rnbakabnr/9/1c5c1/p1p1p1p1p/9/9/P1P1P1P1P/1C5C1/9/RNBAKABNR w - - 0 1"

var ErrInvalidDiagram = errors.New("invalid diagram")

// 每种棋子对应的槽位 按槽位顺序
var glyphSlots = func() map[byte][]int {
	res := make(map[byte][]int)
	for i := 0; i < SlotCount; i++ {
		g := SlotGlyph(i)
		res[g] = append(res[g], i)
	}
	return res
}()

// 局面转 fen 第0行在最上方
func Diagram(s State, sd Side) string {
	var grid [Height][Width]byte
	for i, p := range s {
		if p.Captured() {
			continue
		}
		grid[p.GetY()][p.GetX()] = SlotGlyph(i)
	}
	var sb strings.Builder
	for y := 0; y < Height; y++ {
		if y > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for x := 0; x < Width; x++ {
			g := grid[y][x]
			if g == 0 {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteByte(byte('0' + empty))
				empty = 0
			}
			sb.WriteByte(g)
		}
		if empty > 0 {
			sb.WriteByte(byte('0' + empty))
		}
	}
	sb.WriteByte(' ')
	sb.WriteByte(sd.FenChar())
	sb.WriteString(" - - 0 1")
	return sb.String()
}

// fen 转局面 同类棋子按扫描顺序依次占用槽位 缺少的棋子视为已被吃
func ParseDiagram(fen string) (State, Side, error) {
	var s State
	for i := range s {
		s[i] = PosCaptured
	}
	parts := strings.Split(strings.TrimSpace(fen), " ")
	ranks := strings.Split(parts[0], "/")
	if len(ranks) != Height {
		return s, SdRed, fmt.Errorf("%w: %d ranks: %s", ErrInvalidDiagram, len(ranks), fen)
	}
	used := make(map[byte]int)
	for y, rank := range ranks {
		x := 0
		for i := 0; i < len(rank); i++ {
			b := rank[i]
			if b >= '1' && b <= '9' {
				x += int(b - '0')
				continue
			}
			slots, ok := glyphSlots[b]
			if !ok {
				return s, SdRed, fmt.Errorf("%w: unknown piece %q: %s", ErrInvalidDiagram, b, fen)
			}
			if used[b] >= len(slots) {
				return s, SdRed, fmt.Errorf("%w: too many %q: %s", ErrInvalidDiagram, b, fen)
			}
			if x >= Width {
				return s, SdRed, fmt.Errorf("%w: rank %d overflow: %s", ErrInvalidDiagram, y, fen)
			}
			s[slots[used[b]]] = GetPos(x, y)
			used[b]++
			x++
		}
		if x != Width {
			return s, SdRed, fmt.Errorf("%w: rank %d width %d: %s", ErrInvalidDiagram, y, x, fen)
		}
	}
	sd := SdRed
	if len(parts) > 1 && parts[1] == "b" {
		sd = SdBlack
	}
	return s, sd, nil
}
