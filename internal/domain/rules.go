package domain

// the four axes, each checked in both directions
var axes = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // diagonal \
	{-1, 1}, // diagonal /
}

// CheckWin reports whether the disc just placed at (row, column) completes a
// run of ToWin for actor. Only lines through that position are examined.
func CheckWin(board *Board, row, column int, actor Actor) bool {
	if row < 0 || row >= Rows || !IsValidColumn(column) {
		return false
	}

	disc := actor.Disc()
	if disc == Empty || board[row][column] != disc {
		return false
	}

	for _, axis := range axes {
		count := 1
		count += board.CountDiskInDirection(row, column, axis[0], axis[1], disc)
		count += board.CountDiskInDirection(row, column, -axis[0], -axis[1], disc)
		if count >= ToWin {
			return true
		}
	}

	return false
}
