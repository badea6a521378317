package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateBoardingCode returns a token like "BT-1A2B3C4D5E6F".
func GenerateBoardingCode() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "BT-" + strings.ToUpper(id[:12])
}

func GenerateResetToken() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "") + strings.ReplaceAll(uuid.New().String(), "-", "")
}

// SeatLabel numbers seats row by row: A1..A4, B1..B4, ...
func SeatLabel(index, perRow int) string {
	row := index / perRow
	col := index%perRow + 1
	label := ""
	for {
		label = string(rune('A'+row%26)) + label
		row = row/26 - 1
		if row < 0 {
			break
		}
	}
	return fmt.Sprintf("%s%d", label, col)
}
