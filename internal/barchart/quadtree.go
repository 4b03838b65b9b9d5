package barchart

// quadtree spatially indexes bar rects for point queries. Rebuilt on every
// layout, so insertion stays allocation-light and there is no removal.
type quadtree struct {
	x, y, w, h int
	level      int
	rects      []Rect
	quads      []*quadtree
}

const (
	maxObjects = 10
	maxLevels  = 4
)

func newQuadtree(x, y, w, h, level int) *quadtree {
	return &quadtree{x: x, y: y, w: w, h: h, level: level}
}

func (q *quadtree) split() {
	w := q.w / 2
	h := q.h / 2
	l := q.level + 1
	q.quads = []*quadtree{
		newQuadtree(q.x+w, q.y, q.w-w, h, l),     // top right
		newQuadtree(q.x, q.y, w, h, l),           // top left
		newQuadtree(q.x, q.y+h, w, q.h-h, l),     // bottom left
		newQuadtree(q.x+w, q.y+h, q.w-w, q.h-h, l), // bottom right
	}
}

// quads calls cb for every child quadrant a box overlaps.
func (q *quadtree) overlapping(x, y, w, h int, cb func(*quadtree)) {
	hzMid := q.x + q.w/2
	vtMid := q.y + q.h/2
	startIsNorth := y < vtMid
	startIsWest := x < hzMid
	endIsEast := x+w > hzMid
	endIsSouth := y+h > vtMid

	if startIsNorth && endIsEast {
		cb(q.quads[0])
	}
	if startIsWest && startIsNorth {
		cb(q.quads[1])
	}
	if startIsWest && endIsSouth {
		cb(q.quads[2])
	}
	if endIsEast && endIsSouth {
		cb(q.quads[3])
	}
}

func (q *quadtree) add(r Rect) {
	if q.quads != nil {
		q.overlapping(r.X, r.Y, r.W, r.H, func(child *quadtree) {
			child.add(r)
		})
		return
	}
	q.rects = append(q.rects, r)
	if len(q.rects) > maxObjects && q.level < maxLevels {
		q.split()
		for _, held := range q.rects {
			q.overlapping(held.X, held.Y, held.W, held.H, func(child *quadtree) {
				child.add(held)
			})
		}
		q.rects = nil
	}
}

func (q *quadtree) get(x, y, w, h int, cb func(Rect)) {
	for _, r := range q.rects {
		cb(r)
	}
	if q.quads != nil {
		q.overlapping(x, y, w, h, func(child *quadtree) {
			child.get(x, y, w, h, cb)
		})
	}
}
