package ui

// dragState tracks one drag-and-drop gesture over task rows. Markings are
// purely visual; only drop produces a reorder.
type dragState struct {
	active    bool
	source    int
	hasSource bool
	hover     int
	hovering  bool
	over      map[int]bool
}

// start records id as the pending source and marks it as being dragged.
func (d *dragState) start(id int) {
	d.active = true
	d.source = id
	d.hasSource = true
	d.hovering = false
	d.over = map[int]bool{}
}

// enter marks id as a drop candidate.
func (d *dragState) enter(id int) {
	if !d.active {
		return
	}
	if d.over == nil {
		d.over = map[int]bool{}
	}
	d.over[id] = true
	d.hover = id
	d.hovering = true
}

// leave clears the drop-candidate marking for id.
func (d *dragState) leave(id int) {
	delete(d.over, id)
	if d.hovering && d.hover == id {
		d.hovering = false
	}
}

// moveTo leaves the current hover target and enters id; onRow false means the
// pointer is over no row.
func (d *dragState) moveTo(id int, onRow bool) {
	if d.hovering {
		if onRow && d.hover == id {
			return
		}
		d.leave(d.hover)
	}
	if onRow {
		d.enter(id)
	}
}

// drop consumes the pending source. It reports the source to move when it
// differs from target.
func (d *dragState) drop(target int) (int, bool) {
	delete(d.over, target)
	src, ok := d.source, d.hasSource
	d.source, d.hasSource = 0, false
	if !ok || src == target {
		return 0, false
	}
	return src, true
}

// end clears every marking left by the gesture.
func (d *dragState) end() {
	d.active = false
	d.source, d.hasSource = 0, false
	d.hovering = false
	clear(d.over)
}

func (d dragState) isDragging(id int) bool {
	return d.active && d.hasSource && d.source == id
}

func (d dragState) isOver(id int) bool {
	return d.over[id]
}
