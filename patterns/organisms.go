package patterns

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/lenia/field"
)

// templateScale is the up-scale at which authored organisms are drawn.
const templateScale = 3

// seedMargin keeps multiSeeds placements away from the edges.
const seedMargin = 30

var orbium = [][]int{
	{0, 0, 25, 85, 85, 25, 0, 0},
	{0, 77, 153, 217, 217, 153, 77, 0},
	{25, 153, 217, 255, 255, 217, 153, 25},
	{85, 217, 255, 255, 255, 255, 217, 85},
	{85, 217, 255, 255, 255, 255, 217, 85},
	{25, 153, 217, 255, 255, 217, 153, 25},
	{0, 77, 153, 217, 217, 153, 77, 0},
	{0, 0, 25, 85, 85, 25, 0, 0},
}

var glider = [][]int{
	{0, 25, 0, 0, 0},
	{0, 0, 180, 77, 0},
	{77, 230, 255, 180, 25},
	{77, 180, 230, 127, 0},
	{0, 25, 77, 0, 0},
}

var gemini = [][]int{
	{0, 25, 102, 102, 25, 0},
	{25, 179, 230, 230, 179, 25},
	{102, 230, 179, 179, 230, 102},
	{102, 230, 77, 77, 230, 102},
	{25, 179, 25, 25, 179, 25},
	{0, 25, 0, 0, 25, 0},
}

var smallSeeds = [][][]int{
	{
		{77, 179, 77},
		{179, 255, 179},
		{77, 179, 77},
	},
	{
		{0, 128, 0},
		{179, 255, 77},
		{77, 128, 0},
	},
	{
		{0, 179, 77},
		{179, 255, 0},
		{77, 0, 0},
	},
}

// stampCentered draws tmpl at the grid center, each template cell covering
// a scale×scale block. Cells falling off the grid are dropped.
func stampCentered(g *field.Grid, tmpl [][]int, scale int) {
	ph := len(tmpl)
	pw := len(tmpl[0])
	cx := float64(g.W) / 2
	cy := float64(g.H) / 2
	ox := cx - float64(pw*scale)/2
	oy := cy - float64(ph*scale)/2

	for y, row := range tmpl {
		for x, v := range row {
			for sy := 0; sy < scale; sy++ {
				py := int(math.Floor(oy + float64(y*scale+sy)))
				for sx := 0; sx < scale; sx++ {
					px := int(math.Floor(ox + float64(x*scale+sx)))
					g.Set(px, py, byteVal(v))
				}
			}
		}
	}
}

func genMultiSeeds(g *field.Grid, rng *rand.Rand, opts Options) {
	count := opts.Count
	if count <= 0 {
		count = 5
	}
	mx := placementMargin(g.W)
	my := placementMargin(g.H)

	for i := 0; i < count; i++ {
		seed := smallSeeds[rng.Intn(len(smallSeeds))]
		px := mx + rng.Intn(max(1, g.W-2*mx))
		py := my + rng.Intn(max(1, g.H-2*my))
		for y, row := range seed {
			for x, v := range row {
				g.Set(px+x, py+y, byteVal(v))
			}
		}
	}
}

// placementMargin shrinks seedMargin on grids too small to honour it.
func placementMargin(size int) int {
	if size > 2*seedMargin {
		return seedMargin
	}
	return size / 4
}
