package board

import "fmt"

// iccs 坐标: 列 a-i 行 0-9 且 0 在红方底线
func (mv Move) ICCS() string {
	return string([]byte{
		byte('a' + mv.Src.GetX()),
		byte('0' + 9 - mv.Src.GetY()),
		byte('a' + mv.Dst.GetX()),
		byte('0' + 9 - mv.Dst.GetY())},
	)
}

func ParseICCS(iccs string) (Move, error) {
	if len(iccs) < 4 {
		return Move{}, fmt.Errorf("%w: iccs %q", ErrInvalidMove, iccs)
	}
	for i := 0; i < 4; i += 2 {
		if iccs[i] < 'a' || iccs[i] > 'i' || iccs[i+1] < '0' || iccs[i+1] > '9' {
			return Move{}, fmt.Errorf("%w: iccs %q", ErrInvalidMove, iccs)
		}
	}
	srcX, srcY, dstX, dstY := iccsToX(iccs[0]), iccsToY(iccs[1]), iccsToX(iccs[2]), iccsToY(iccs[3])
	return GetMove(GetPos(srcX, srcY), GetPos(dstX, dstY)), nil
}
func iccsToX(c byte) int {
	return int(c - 'a')
}
func iccsToY(c byte) int {
	return int(9 - (c - '0'))
}
