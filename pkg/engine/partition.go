package engine

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/matzehuels/fractalplane/pkg/plane"
)

// Block is a rectangle of pixels with inclusive corners Min ≤ Max.
type Block struct {
	Min plane.Point
	Max plane.Point
}

// NewBlock builds a block from any two opposite corners.
func NewBlock(a, b plane.Point) Block {
	lo, hi := plane.NormalizeCorners(a, b)
	return Block{Min: lo, Max: hi}
}

// Width returns the number of columns.
func (b Block) Width() int { return b.Max.X - b.Min.X + 1 }

// Height returns the number of rows.
func (b Block) Height() int { return b.Max.Y - b.Min.Y + 1 }

// Pixels returns Width·Height.
func (b Block) Pixels() int { return b.Width() * b.Height() }

func (b Block) String() string {
	return fmt.Sprintf("[%v-%v]", b.Min, b.Max)
}

// Partition splits the screen into at most n×n blocks that tile it exactly.
// Block i along an axis of length L spans [round(i·L/n), round((i+1)·L/n)−1];
// blocks that come out empty because n exceeds L are dropped.
func Partition(screen plane.Screen, n int) []Block {
	if n < 1 || screen.Width <= 0 || screen.Height <= 0 {
		return nil
	}
	blocks := make([]Block, 0, n*n)
	for j := range n {
		y0, y1 := span(screen.Height, n, j)
		if y1 < y0 {
			continue
		}
		for i := range n {
			x0, x1 := span(screen.Width, n, i)
			if x1 < x0 {
				continue
			}
			blocks = append(blocks, Block{
				Min: plane.Point{X: x0, Y: y0},
				Max: plane.Point{X: x1, Y: y1},
			})
		}
	}
	return blocks
}

func span(length, n, i int) (lo, hi int) {
	lo = int(math.Round(float64(i) * float64(length) / float64(n)))
	hi = int(math.Round(float64(i+1)*float64(length)/float64(n))) - 1
	return lo, hi
}

// Shuffle permutes blocks in place with a PCG generator seeded by seed.
// Batch.Remaining assumes the resulting order.
func Shuffle(blocks []Block, seed uint64) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	rng.Shuffle(len(blocks), func(i, j int) {
		blocks[i], blocks[j] = blocks[j], blocks[i]
	})
}
