package board

// 单步走法的偏移 上 下 右 左 左上 右上 左下 右下
var stepDeltaX = [8]int{0, 0, 1, -1, -1, 1, -1, 1}
var stepDeltaY = [8]int{1, -1, 0, 0, 1, 1, -1, -1}

// 生成所有单步走法 不考虑棋子种类 只在没有统计数据时兜底用
func LegalMoves(s State) []Move {
	var moves []Move
	for _, src := range s {
		if src.Captured() {
			continue
		}
		x, y := src.GetX(), src.GetY()
		for i := 0; i < 8; i++ {
			dx, dy := x+stepDeltaX[i], y+stepDeltaY[i]
			if dx < 0 || dx >= Width || dy < 0 || dy >= Height {
				continue
			}
			mv := GetMove(src, GetPos(dx, dy))
			if _, err := s.Apply(mv); err != nil {
				continue
			}
			moves = append(moves, mv)
		}
	}
	return moves
}
