package board

import (
	"strings"

	"github.com/beka-birhanu/vinom-sweeper/game/topology"
)

// String draws the board as the player sees it. Rows share a line; faces of
// a cube and layers of a volume are separated by a blank line.
func (b *Board) String() string {
	kind := b.topology.Kind()
	layered := kind == topology.KindCubeSurface || kind == topology.KindCubeVolume

	var sb strings.Builder
	var prev topology.Position
	for i, p := range b.positions {
		lineStart := i == 0
		if i > 0 {
			switch {
			case layered && p.Z != prev.Z:
				sb.WriteString("\n\n")
				lineStart = true
			case p.Y != prev.Y:
				sb.WriteByte('\n')
				lineStart = true
			default:
				sb.WriteByte(' ')
			}
		}
		if lineStart && kind == topology.KindHex && p.Y%2 == 1 {
			sb.WriteByte(' ')
		}
		sb.WriteString(b.cells[i].Symbol())
		prev = p
	}
	return sb.String()
}
