package topology

import (
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/mat"
)

// Epsilon is the tolerance used by every boundary test on the icosahedron net.
const Epsilon = 1e-6

// Tiling selects how a geodesic surface is cut into cells.
type Tiling string

const (
	TilingTriangle Tiling = "triangle"
	TilingHex      Tiling = "hex"
)

// hexDirections are the six lattice steps of a 60 degree skew basis, in
// counter clockwise order.
var hexDirections = [6]ivec{{1, 0}, {0, 1}, {-1, 1}, {-1, 0}, {0, -1}, {1, -1}}

type ivec [2]int

type vec2 struct{ x, y float64 }

func (v vec2) add(o vec2) vec2 { return vec2{v.x + o.x, v.y + o.y} }
func (v vec2) sub(o vec2) vec2 { return vec2{v.x - o.x, v.y - o.y} }

func (v ivec) float() vec2 { return vec2{float64(v[0]), float64(v[1])} }

// rotate60 turns v by k sixths of a full turn in skew coordinates.
func rotate60(v vec2, k int) vec2 {
	for i := 0; i < mod(k, 6); i++ {
		v = vec2{-v.y, v.x + v.y}
	}
	return v
}

func rotate60i(v ivec, k int) ivec {
	for i := 0; i < mod(k, 6); i++ {
		v = ivec{-v[1], v[0] + v[1]}
	}
	return v
}

// boundary is the result of testing a signed distance to a face edge.
type boundary int

const (
	outside boundary = iota
	onEdge
	inside
)

// classifyDistance is the single place where net distances meet Epsilon.
func classifyDistance(d float64) boundary {
	switch {
	case d < -Epsilon:
		return outside
	case d <= Epsilon:
		return onEdge
	}
	return inside
}

// netFace is one triangle of the unfolded icosahedron. The net is a strip of
// 5 x 3 unit rhombi in skew coordinates; row 2 keeps only lower triangles
// (top cap), row 1 both (band), row 0 only upper triangles (bottom cap).
type netFace struct {
	fx, fy int
	top    bool
}

func (f netFace) corners() [3]ivec {
	if f.top {
		return [3]ivec{{f.fx + 1, f.fy}, {f.fx + 1, f.fy + 1}, {f.fx, f.fy + 1}}
	}
	return [3]ivec{{f.fx, f.fy}, {f.fx + 1, f.fy}, {f.fx, f.fy + 1}}
}

// distances returns the signed distance of p to each edge k, where edge k
// runs from corner k to corner k+1. Non negative means inside.
func (f netFace) distances(p vec2) [3]float64 {
	a, b := p.x-float64(f.fx), p.y-float64(f.fy)
	if f.top {
		return [3]float64{1 - a, 1 - b, a + b - 1}
	}
	return [3]float64{b, 1 - a - b, a}
}

func (f netFace) contains(p vec2) bool {
	for _, d := range f.distances(p) {
		if classifyDistance(d) == outside {
			return false
		}
	}
	return true
}

// icosaFaces lists the 20 faces in id order: caps 0-4, band 5-14, caps 15-19.
var icosaFaces = func() [20]netFace {
	var faces [20]netFace
	for fx := 0; fx < 5; fx++ {
		faces[fx] = netFace{fx: fx, fy: 2}
		faces[5+2*fx] = netFace{fx: fx, fy: 1}
		faces[6+2*fx] = netFace{fx: fx, fy: 1, top: true}
		faces[15+fx] = netFace{fx: fx, fy: 0, top: true}
	}
	return faces
}()

// vertexID names the icosahedron vertex a net vertex folds onto.
func vertexID(v ivec) int {
	switch v[1] {
	case 3:
		return 0
	case 2:
		return 1 + mod(v[0], 5)
	case 1:
		return 6 + mod(v[0], 5)
	}
	return 11
}

// netGlue carries a point across one face edge: q' = image + R^turns (q - origin).
type netGlue struct {
	face   int
	origin vec2
	image  vec2
	turns  int
}

func (g netGlue) apply(p vec2) vec2 {
	return g.image.add(rotate60(p.sub(g.origin), g.turns))
}

// icosaGlue[f][k] glues edge k of face f onto its neighbor, derived from the
// vertex ids so seams cut in the net are joined like interior edges.
var icosaGlue = func() [20][3]netGlue {
	type edgeRef struct {
		face   int
		k      int
		from   ivec
		to     ivec
		fromID int
	}
	edges := make(map[[2]int][]edgeRef)
	for fi, f := range icosaFaces {
		cs := f.corners()
		for k := 0; k < 3; k++ {
			a, b := cs[k], cs[(k+1)%3]
			key := [2]int{vertexID(a), vertexID(b)}
			if key[0] > key[1] {
				key[0], key[1] = key[1], key[0]
			}
			edges[key] = append(edges[key], edgeRef{face: fi, k: k, from: a, to: b, fromID: vertexID(a)})
		}
	}

	var glue [20][3]netGlue
	for _, pair := range edges {
		if len(pair) != 2 {
			panic("topology: icosahedron net is not closed")
		}
		for side := 0; side < 2; side++ {
			e, o := pair[side], pair[1-side]
			start, end := o.from, o.to
			if vertexID(o.to) == e.fromID {
				start, end = o.to, o.from
			}
			da := ivec{e.to[0] - e.from[0], e.to[1] - e.from[1]}
			db := ivec{end[0] - start[0], end[1] - start[1]}
			turns := -1
			for r := 0; r < 6; r++ {
				if rotate60i(da, r) == db {
					turns = r
					break
				}
			}
			if turns < 0 {
				panic("topology: icosahedron seam is not a rotation")
			}
			glue[e.face][e.k] = netGlue{face: o.face, origin: e.from.float(), image: start.float(), turns: turns}
		}
	}
	return glue
}()

// Geodesic tiles the surface of an icosahedron with a skewed triangular
// lattice of frequency N and skew c. In hex tiling every lattice point is a
// cell and the twelve icosahedron vertices become pentagons; in triangle
// tiling every lattice triangle is a cell.
type Geodesic struct {
	freq, skew int
	tiling     Tiling

	fwd [2][2]float64 // net -> lattice
	inv [2][2]float64 // lattice -> net

	tiles    []Position
	index    map[Position]int
	adjacent [][]Position
	faces    []int
	anchors  map[Position]float64
	corners  [][3]ivec
	byVertex map[ivec][]int

	minX, maxX int
	minY, maxY int
	xDigits    int
	yDigits    int
}

// NewGeodesic builds the tessellation. Construction walks every lattice
// point of the net footprint once; all queries afterwards are table lookups.
func NewGeodesic(freq, skew int, tiling Tiling) (*Geodesic, error) {
	if freq < 1 || skew < 0 || skew >= freq {
		return nil, ErrInvalidGeodesicParams
	}
	if tiling == "" {
		tiling = TilingTriangle
	}
	if tiling != TilingTriangle && tiling != TilingHex {
		return nil, fmt.Errorf("%w: tiling %q", ErrInvalidGeodesicParams, tiling)
	}

	g := &Geodesic{freq: freq, skew: skew, tiling: tiling, index: make(map[Position]int)}
	if err := g.buildBasis(); err != nil {
		return nil, err
	}

	if tiling == TilingHex {
		g.buildHex()
	} else {
		g.buildTriangles()
	}

	g.minX, g.minY = math.MaxInt, math.MaxInt
	g.maxX, g.maxY = math.MinInt, math.MinInt
	for _, t := range g.tiles {
		g.minX, g.maxX = min(g.minX, t.X), max(g.maxX, t.X)
		g.minY, g.maxY = min(g.minY, t.Y), max(g.maxY, t.Y)
	}
	g.xDigits = digits(g.maxX - g.minX)
	g.yDigits = digits(g.maxY - g.minY)
	return g, nil
}

// buildBasis sets up U = (N-c, c) and V = U turned by 60 degrees as the
// image of the unit net edges, and inverts it.
func (g *Geodesic) buildBasis() error {
	u := vec2{float64(g.freq - g.skew), float64(g.skew)}
	v := rotate60(u, 1)
	g.fwd = [2][2]float64{{u.x, v.x}, {u.y, v.y}}

	m := mat.NewDense(2, 2, []float64{u.x, v.x, u.y, v.y})
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return fmt.Errorf("inverting geodesic basis: %w", err)
	}
	g.inv = [2][2]float64{{inv.At(0, 0), inv.At(0, 1)}, {inv.At(1, 0), inv.At(1, 1)}}
	return nil
}

// Triangles per icosahedron face: N^2 - Nc + c^2.
func (g *Geodesic) Triangles() int {
	return g.freq*g.freq - g.freq*g.skew + g.skew*g.skew
}

func (g *Geodesic) toNet(p vec2) vec2 {
	return vec2{g.inv[0][0]*p.x + g.inv[0][1]*p.y, g.inv[1][0]*p.x + g.inv[1][1]*p.y}
}

func (g *Geodesic) toLattice(n vec2) vec2 {
	return vec2{g.fwd[0][0]*n.x + g.fwd[0][1]*n.y, g.fwd[1][0]*n.x + g.fwd[1][1]*n.y}
}

func (g *Geodesic) latticePoint(n vec2) ivec {
	p := g.toLattice(n)
	return ivec{int(math.Round(p.x)), int(math.Round(p.y))}
}

// footprint returns the lattice bounding box of the net, padded by one.
func (g *Geodesic) footprint() (x0, x1, y0, y1 int) {
	x0, y0 = math.MaxInt, math.MaxInt
	x1, y1 = math.MinInt, math.MinInt
	for _, c := range []vec2{{0, 0}, {5, 0}, {0, 3}, {5, 3}} {
		p := g.toLattice(c)
		x0, x1 = min(x0, int(math.Floor(p.x))), max(x1, int(math.Ceil(p.x)))
		y0, y1 = min(y0, int(math.Floor(p.y))), max(y1, int(math.Ceil(p.y)))
	}
	return x0 - 1, x1 + 1, y0 - 1, y1 + 1
}

// facesAt returns the ids of every face containing the net point, edges
// included.
func facesAt(n vec2) []int {
	var out []int
	for id, f := range icosaFaces {
		if f.contains(n) {
			out = append(out, id)
		}
	}
	return out
}

// walk carries a net point that may have left face across glued edges until
// it lands inside a face.
func walk(face int, n vec2) (int, vec2, bool) {
	for step := 0; step < 12; step++ {
		d := icosaFaces[face].distances(n)
		k := 0
		for i := 1; i < 3; i++ {
			if d[i] < d[k] {
				k = i
			}
		}
		if classifyDistance(d[k]) != outside {
			return face, n, true
		}
		glue := icosaGlue[face][k]
		n, face = glue.apply(n), glue.face
	}
	return 0, vec2{}, false
}

// copies returns every net image of a lattice point, keyed by its lattice
// coordinates. A point on a seam has one image per side.
func (g *Geodesic) copies(n vec2) map[ivec]vec2 {
	seen := map[ivec]vec2{g.latticePoint(n): n}
	stack := []vec2{n}
	for len(stack) > 0 {
		m := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, id := range facesAt(m) {
			for k, d := range icosaFaces[id].distances(m) {
				if classifyDistance(d) != onEdge {
					continue
				}
				mm := icosaGlue[id][k].apply(m)
				key := g.latticePoint(mm)
				if _, ok := seen[key]; !ok {
					seen[key] = mm
					stack = append(stack, mm)
				}
			}
		}
	}
	return seen
}

func isNetVertex(n vec2) bool {
	return classifyDistance(math.Abs(n.x-math.Round(n.x))) != inside &&
		classifyDistance(math.Abs(n.y-math.Round(n.y))) != inside
}

// validDirections lists the lattice directions from t whose first half step
// stays on the net.
func (g *Geodesic) validDirections(t ivec) []int {
	var out []int
	for i, d := range hexDirections {
		mid := vec2{float64(t[0]) + float64(d[0])/2, float64(t[1]) + float64(d[1])/2}
		if len(facesAt(g.toNet(mid))) > 0 {
			out = append(out, i)
		}
	}
	return out
}

func rowMajorLess(a, b ivec) bool {
	if a[1] != b[1] {
		return a[1] < b[1]
	}
	return a[0] < b[0]
}

// canonical picks the one lattice point that stands for every image of a
// physical point: the first in row-major order, except at icosahedron
// vertices where the best connected image wins.
func (g *Geodesic) canonical(n vec2) ivec {
	images := g.copies(n)
	vertex := isNetVertex(n)

	var best ivec
	bestDirs := -1
	first := true
	for t := range images {
		dirs := 0
		if vertex {
			dirs = len(g.validDirections(t))
		}
		if first || dirs > bestDirs || (dirs == bestDirs && rowMajorLess(t, best)) {
			best, bestDirs, first = t, dirs, false
		}
	}
	return best
}

// locate walks a lattice point onto the net starting from face and returns
// its canonical lattice point.
func (g *Geodesic) locate(face int, p ivec) (ivec, bool) {
	_, n, ok := walk(face, g.toNet(p.float()))
	if !ok {
		return ivec{}, false
	}
	return g.canonical(n), true
}

func (g *Geodesic) buildHex() {
	x0, x1, y0, y1 := g.footprint()
	points := make(map[ivec]bool)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			n := g.toNet(vec2{float64(x), float64(y)})
			fs := facesAt(n)
			if len(fs) == 0 {
				continue
			}
			points[g.canonical(n)] = true
		}
	}

	pts := make([]ivec, 0, len(points))
	for p := range points {
		pts = append(pts, p)
	}
	sort.Slice(pts, func(i, j int) bool { return rowMajorLess(pts[i], pts[j]) })

	g.anchors = make(map[Position]float64)
	for i, p := range pts {
		pos := Position{X: p[0], Y: p[1]}
		g.tiles = append(g.tiles, pos)
		g.index[pos] = i
		if isNetVertex(g.toNet(p.float())) {
			g.anchors[pos] = circularMean(g.validDirections(p))
		}
	}

	g.adjacent = make([][]Position, len(pts))
	g.faces = make([]int, len(pts))
	for i, p := range pts {
		fs := facesAt(g.toNet(p.float()))
		if len(fs) == 0 {
			continue
		}
		probes := make([]vec2, 0, 6)
		for _, d := range hexDirections {
			q, ok := g.locate(fs[0], ivec{p[0] + d[0], p[1] + d[1]})
			if !ok {
				continue
			}
			qp := Position{X: q[0], Y: q[1]}
			if qp == g.tiles[i] || lo.Contains(g.adjacent[i], qp) {
				continue
			}
			g.adjacent[i] = append(g.adjacent[i], qp)
			probes = append(probes, g.toNet(vec2{float64(p[0]) + float64(d[0])/2, float64(p[1]) + float64(d[1])/2}))
		}
		g.faces[i] = resolveFace(fs, probes)
	}
}

func triangleCorners(x, y, half int) [3]ivec {
	if half == 0 {
		return [3]ivec{{x, y}, {x + 1, y}, {x, y + 1}}
	}
	return [3]ivec{{x + 1, y}, {x + 1, y + 1}, {x, y + 1}}
}

func triangleCentroid(x, y, half int) vec2 {
	if half == 0 {
		return vec2{float64(x) + 1.0/3, float64(y) + 1.0/3}
	}
	return vec2{float64(x) + 2.0/3, float64(y) + 2.0/3}
}

func positionLess(a, b Position) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Z < b.Z
}

func (g *Geodesic) buildTriangles() {
	x0, x1, y0, y1 := g.footprint()
	canonical := make(map[[3]ivec]Position)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			for half := 0; half < 2; half++ {
				fs := facesAt(g.toNet(triangleCentroid(x, y, half)))
				if len(fs) == 0 {
					continue
				}
				var key [3]ivec
				ok := true
				for k, c := range triangleCorners(x, y, half) {
					if key[k], ok = g.locate(fs[0], c); !ok {
						break
					}
				}
				if !ok {
					continue
				}
				sort.Slice(key[:], func(i, j int) bool { return rowMajorLess(key[i], key[j]) })
				pos := Position{X: x, Y: y, Z: half}
				if cur, seen := canonical[key]; !seen || positionLess(pos, cur) {
					canonical[key] = pos
				}
			}
		}
	}

	keys := make(map[Position][3]ivec, len(canonical))
	for key, pos := range canonical {
		g.tiles = append(g.tiles, pos)
		keys[pos] = key
	}
	sort.Slice(g.tiles, func(i, j int) bool { return positionLess(g.tiles[i], g.tiles[j]) })

	g.byVertex = make(map[ivec][]int)
	g.corners = make([][3]ivec, len(g.tiles))
	for i, pos := range g.tiles {
		g.index[pos] = i
		g.corners[i] = keys[pos]
		for _, v := range g.corners[i] {
			g.byVertex[v] = append(g.byVertex[v], i)
		}
	}

	g.adjacent = make([][]Position, len(g.tiles))
	g.faces = make([]int, len(g.tiles))
	for i, pos := range g.tiles {
		for _, v := range g.corners[i] {
			for _, j := range g.byVertex[v] {
				if j != i && !lo.Contains(g.adjacent[i], g.tiles[j]) {
					g.adjacent[i] = append(g.adjacent[i], g.tiles[j])
				}
			}
		}

		center := triangleCentroid(pos.X, pos.Y, pos.Z)
		probes := make([]vec2, 0, 3)
		for _, nb := range triangleEdgeNeighbors(pos) {
			c := triangleCentroid(nb.X, nb.Y, nb.Z)
			probes = append(probes, g.toNet(vec2{(center.x + c.x) / 2, (center.y + c.y) / 2}))
		}
		g.faces[i] = resolveFace(facesAt(g.toNet(center)), probes)
	}
}

// triangleEdgeNeighbors returns the three lattice triangles sharing an edge
// with p, before any seam is applied.
func triangleEdgeNeighbors(p Position) [3]Position {
	if p.Z == 0 {
		return [3]Position{{X: p.X, Y: p.Y - 1, Z: 1}, {X: p.X - 1, Y: p.Y, Z: 1}, {X: p.X, Y: p.Y, Z: 1}}
	}
	return [3]Position{{X: p.X, Y: p.Y + 1, Z: 0}, {X: p.X + 1, Y: p.Y, Z: 0}, {X: p.X, Y: p.Y, Z: 0}}
}

// resolveFace picks one face for a tile whose center may sit on a face edge.
// The first probe midpoint that falls in exactly one candidate decides;
// otherwise the lowest candidate id wins.
func resolveFace(candidates []int, probes []vec2) int {
	if len(candidates) == 1 {
		return candidates[0]
	}
	for _, probe := range probes {
		var hit []int
		for _, id := range candidates {
			if icosaFaces[id].contains(probe) {
				hit = append(hit, id)
			}
		}
		if len(hit) == 1 {
			return hit[0]
		}
	}
	if len(candidates) == 0 {
		return -1
	}
	return candidates[0]
}

// circularMean averages compass directions 0..5 after unwrapping them into a
// contiguous run, so 5 and 0 average to 5.5.
func circularMean(dirs []int) float64 {
	if len(dirs) == 0 {
		return 0
	}
	sorted := append([]int(nil), dirs...)
	sort.Ints(sorted)

	// Start the run right after the widest gap.
	start, widest := 0, -1
	for i := range sorted {
		gap := mod(sorted[(i+1)%len(sorted)]-sorted[i], 6)
		if gap == 0 {
			gap = 6
		}
		if gap > widest {
			widest, start = gap, (i+1)%len(sorted)
		}
	}

	sum := 0
	for i := 0; i < len(sorted); i++ {
		d := sorted[(start+i)%len(sorted)]
		if i > 0 && d < sorted[start] {
			d += 6
		}
		sum += d
	}
	return math.Mod(float64(sum)/float64(len(sorted)), 6)
}

func (g *Geodesic) Kind() Kind     { return KindGeodesic }
func (g *Geodesic) Tiling() Tiling { return g.tiling }
func (g *Geodesic) Frequency() int { return g.freq }
func (g *Geodesic) Skew() int      { return g.skew }
func (g *Geodesic) NumCells() int  { return len(g.tiles) }

func (g *Geodesic) Contains(p Position) bool {
	_, ok := g.index[p]
	return ok
}

func (g *Geodesic) CellIndex(p Position) int {
	return g.index[p]
}

func (g *Geodesic) At(index int) (Position, bool) {
	if index < 0 || index >= len(g.tiles) {
		return Position{}, false
	}
	return g.tiles[index], true
}

func (g *Geodesic) CellName(p Position) string {
	name := fmt.Sprintf("%0*d-%0*d", g.yDigits, p.Y-g.minY, g.xDigits, p.X-g.minX)
	if g.tiling == TilingTriangle {
		return name + string(rune('a'+p.Z))
	}
	return name
}

func (g *Geodesic) Adjacent(p Position) []Position {
	i, ok := g.index[p]
	if !ok {
		return nil
	}
	return append([]Position(nil), g.adjacent[i]...)
}

func (g *Geodesic) ForEach(fn func(p Position)) {
	for _, t := range g.tiles {
		fn(t)
	}
}

// Increment scans along X or Y to the next lattice position that is a tile.
// Z flips the triangle half when the other half is a tile. With nothing to
// move to, p is returned unchanged.
func (g *Geodesic) Increment(p Position, axis Axis, dir int) Position {
	step := sign(dir)
	if step == 0 {
		return p
	}
	switch axis {
	case AxisX:
		for x := p.X + step; x >= g.minX && x <= g.maxX; x += step {
			if q := (Position{X: x, Y: p.Y, Z: p.Z}); g.Contains(q) {
				return q
			}
		}
	case AxisY:
		for y := p.Y + step; y >= g.minY && y <= g.maxY; y += step {
			if q := (Position{X: p.X, Y: y, Z: p.Z}); g.Contains(q) {
				return q
			}
		}
	case AxisZ:
		if q := (Position{X: p.X, Y: p.Y, Z: 1 - p.Z}); g.tiling == TilingTriangle && g.Contains(q) {
			return q
		}
	}
	return p
}

// Face returns the icosahedron face (0-19) a tile belongs to.
func (g *Geodesic) Face(p Position) (int, bool) {
	i, ok := g.index[p]
	if !ok {
		return 0, false
	}
	return g.faces[i], true
}

// Pentagons returns the twelve hex tiles sitting on icosahedron vertices, in
// cell order. Triangle tilings have none.
func (g *Geodesic) Pentagons() []Position {
	var out []Position
	for _, t := range g.tiles {
		if _, ok := g.anchors[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Anchor returns the mean direction (0..6, one unit per lattice direction) a
// pentagon opens towards.
func (g *Geodesic) Anchor(p Position) (float64, bool) {
	a, ok := g.anchors[p]
	return a, ok
}

// Stats counts the vertices, edges and faces of the tessellation as a
// polyhedron.
type Stats struct {
	Vertices int
	Edges    int
	Faces    int
}

// Euler returns V - E + F, 2 for any closed sphere tiling.
func (s Stats) Euler() int {
	return s.Vertices - s.Edges + s.Faces
}

func (g *Geodesic) Stats() Stats {
	if g.tiling == TilingTriangle {
		edges := make(map[[2]ivec]bool)
		for _, cs := range g.corners {
			for k := 0; k < 3; k++ {
				a, b := cs[k], cs[(k+1)%3]
				if rowMajorLess(b, a) {
					a, b = b, a
				}
				edges[[2]ivec{a, b}] = true
			}
		}
		return Stats{Vertices: len(g.byVertex), Edges: len(edges), Faces: len(g.tiles)}
	}

	// Hex tiles are faces; each polyhedron vertex is a triangle of mutually
	// adjacent tiles.
	degree := 0
	corners := 0
	for i := range g.tiles {
		degree += len(g.adjacent[i])
		for _, a := range g.adjacent[i] {
			if g.index[a] <= i {
				continue
			}
			for _, b := range g.adjacent[i] {
				if g.index[b] <= g.index[a] {
					continue
				}
				if lo.Contains(g.adjacent[g.index[a]], b) {
					corners++
				}
			}
		}
	}
	return Stats{Vertices: corners, Edges: degree / 2, Faces: len(g.tiles)}
}
