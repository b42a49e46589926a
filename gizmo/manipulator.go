package gizmo

import (
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"

	"github.com/cloudtrim/trimbox/camera"
	"github.com/cloudtrim/trimbox/input"
	"github.com/cloudtrim/trimbox/scene"
	"github.com/cloudtrim/trimbox/spatialmath"
)

const (
	boxFillOpacity     = 0.15
	selectedQuadAlpha  = 0.25
	overlayRenderOrder = 100
)

// Manipulator is the interactive trim box: the box model, its handle arena,
// the interaction state machine, and the scene objects that render all of
// it. One manipulator is active at a time; every mutation happens on the
// loop turn of the event that caused it.
type Manipulator struct {
	mu sync.Mutex

	cfg      Config
	logger   golog.Logger
	engine   *Engine
	registry *Registry
	cam      camera.Camera
	orbit    scene.OrbitGate

	longPress *input.LongPressTracker

	box *spatialmath.OrientedBox

	state    State
	hovered  *Handle
	selected *Handle
	// preview is a face arrow shown only because the pointer rests on its
	// face or a press armed it; it hides again when the pointer moves off
	// or the arming resolves, unless selected.
	preview *Handle
	armed   *Handle
	pressX  float64
	pressY  float64
	drag    dragState

	boxFill  *scene.Object
	boxWire  *scene.Object
	selQuad  *scene.Object
	selEdges *scene.Object

	sink scene.Sink
	// onChange fires after every box mutation, after handle transforms have
	// been re-derived, and receives the post-mutation box. The preview
	// pipeline reclassifies here.
	onChange func(*spatialmath.OrientedBox)
}

// NewManipulator builds a manipulator over the given box. The clock is
// injectable so tests can drive the long-press deadline; pass nil for the
// wall clock.
func NewManipulator(
	cfg Config,
	box *spatialmath.OrientedBox,
	cam camera.Camera,
	orbit scene.OrbitGate,
	models *scene.ModelRegistry,
	clk clock.Clock,
	logger golog.Logger,
) *Manipulator {
	m := &Manipulator{
		cfg:       cfg,
		logger:    logger,
		engine:    NewEngine(cfg),
		registry:  NewRegistry(cfg, models),
		cam:       cam,
		orbit:     orbit,
		longPress: input.NewLongPressTracker(clk, cfg.LongPressDuration()),
		box:       box,
	}

	m.boxFill = scene.NewObject("trim-box-fill", scene.NewBoxGeometry(box.HalfExtents))
	m.boxFill.Color = scene.ColorBoxFill
	m.boxFill.Opacity = boxFillOpacity
	m.boxFill.Pickable = false

	m.boxWire = scene.NewObject("trim-box-wire", scene.NewWireBoxGeometry(box.HalfExtents))
	m.boxWire.Color = scene.ColorBoxLine
	m.boxWire.Pickable = false

	m.selQuad = scene.NewObject("selected-face-quad", nil)
	m.selQuad.Color = scene.ColorAccent
	m.selQuad.Opacity = selectedQuadAlpha
	m.selQuad.Pickable = false
	m.selQuad.Visible = false

	m.selEdges = scene.NewObject("selected-face-edges", nil)
	m.selEdges.Color = scene.ColorAccent
	m.selEdges.Pickable = false
	m.selEdges.Visible = false
	m.selEdges.DepthTest = false
	m.selEdges.RenderOrder = overlayRenderOrder

	m.refresh()
	return m
}

// Attach adds every manipulator object to the scene sink.
func (m *Manipulator) Attach(sink scene.Sink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sink = sink
	sink.Add(m.boxFill)
	sink.Add(m.boxWire)
	sink.Add(m.selQuad)
	sink.Add(m.selEdges)
	for _, h := range m.registry.Handles() {
		for _, obj := range h.objects() {
			sink.Add(obj)
		}
	}
}

// Detach ends any in-progress interaction through the normal teardown path
// (committing in-progress geometry and reverting drag accents), then tears
// the manipulator out of the scene and re-enables orbit.
func (m *Manipulator) Detach() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardown()
	m.orbit.Enable()
	if m.sink == nil {
		return
	}
	m.sink.Remove(m.boxFill)
	m.sink.Remove(m.boxWire)
	m.sink.Remove(m.selQuad)
	m.sink.Remove(m.selEdges)
	for _, h := range m.registry.Handles() {
		for _, obj := range h.objects() {
			m.sink.Remove(obj)
		}
	}
	m.sink = nil
}

// Box returns the live trim box.
func (m *Manipulator) Box() *spatialmath.OrientedBox {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.box
}

// SetBox replaces the trim box, as the full-range preset does, and
// re-derives all handle transforms.
func (m *Manipulator) SetBox(box *spatialmath.OrientedBox) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.box = box
	m.refresh()
	m.notify()
}

// State returns the current interaction state.
func (m *Manipulator) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Hovered returns the handle under the pointer, if any.
func (m *Manipulator) Hovered() *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hovered
}

// Selected returns the selected face handle, if any.
func (m *Manipulator) Selected() *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected
}

// Registry exposes the handle arena, mostly for the view layer and tests.
func (m *Manipulator) Registry() *Registry {
	return m.registry
}

// OnChange registers the callback fired after every box mutation. The
// callback runs on the mutating call's loop turn and must not call back into
// the manipulator.
func (m *Manipulator) OnChange(fn func(*spatialmath.OrientedBox)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// CameraMoved re-derives handle transforms after the host camera changes.
func (m *Manipulator) CameraMoved() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry.UpdateTransforms(m.box, m.cam)
}

// SetFollowRef repoints the axis arrows; see Registry.SetFollowRef.
func (m *Manipulator) SetFollowRef(ref FollowRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.registry.SetFollowRef(ref); err != nil {
		return err
	}
	m.registry.UpdateTransforms(m.box, m.cam)
	return nil
}

// HandlePointerEvent drives the state machine.
func (m *Manipulator) HandlePointerEvent(ev input.PointerEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch ev.Kind {
	case input.PointerDown:
		m.pointerDown(ev)
	case input.PointerMove:
		m.pointerMove(ev)
	case input.PointerUp:
		m.pointerUp(ev)
	case input.PointerLeave, input.PointerCancel:
		m.teardown()
	}
}

// HandleEscape cancels an in-progress drag, restoring the pre-drag box, or
// deselects the selected face when idle.
func (m *Manipulator) HandleEscape() {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case m.state == StateDragging:
		m.endDrag(true)
	case m.state == StateFaceArmed:
		m.longPress.Cancel()
		m.armed = nil
		m.hidePreview()
		m.state = StateIdle
	case m.selected != nil:
		m.deselect()
	}
}

// HandleBlur routes window blur into the drag tear-down path.
func (m *Manipulator) HandleBlur() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.teardown()
}

func (m *Manipulator) pointerDown(ev input.PointerEvent) {
	if ev.Button != input.ButtonPrimary {
		return
	}
	hit, ok := m.registry.HitTest(m.cam.RayThrough(ev.X, ev.Y), m.box)
	if !ok {
		return
	}
	if hit.IsHandle() {
		m.beginDrag(hit.Handle, ev)
		return
	}

	// bare box face: arm the long press; release before the deadline
	// selects the face, dwelling promotes to a free translate
	m.armed = hit.Handle
	m.pressX, m.pressY = ev.X, ev.Y
	if m.preview != hit.Handle {
		m.hidePreview()
		m.preview = hit.Handle
	}
	m.showFaceArrow(hit.Handle)
	m.state = StateFaceArmed
	m.longPress.Arm(ev.X, ev.Y, m.fireLongPress)
}

func (m *Manipulator) pointerMove(ev input.PointerEvent) {
	switch m.state {
	case StateDragging:
		m.applyDrag(ev)
		return
	case StateFaceArmed:
		if !m.longPress.Move(ev.X, ev.Y) {
			return
		}
		m.armed = nil
		m.state = StateIdle
	}
	m.updateHover(ev)
}

func (m *Manipulator) pointerUp(ev input.PointerEvent) {
	switch m.state {
	case StateDragging:
		m.endDrag(false)
	case StateFaceArmed:
		m.longPress.Cancel()
		m.selectFace(m.armed)
		m.armed = nil
		m.state = StateIdle
	}
}

// teardown is the shared abnormal-exit path: pointer leave, capture loss and
// window blur all land here. In-progress geometry is kept; only ESC restores
// the snapshot.
func (m *Manipulator) teardown() {
	switch m.state {
	case StateDragging:
		m.endDrag(false)
	case StateFaceArmed:
		m.longPress.Cancel()
		m.armed = nil
	}
	m.clearHover()
	m.hidePreview()
	m.state = StateIdle
}

func (m *Manipulator) beginDrag(h *Handle, ev input.PointerEvent) {
	m.longPress.Cancel()
	m.orbit.Disable()
	m.state = StateDragging
	m.drag = dragState{handle: h, anchor: m.box.Clone(), startX: ev.X, startY: ev.Y}
	h.SetTint(true)

	switch h.Kind {
	case KindFace:
		m.selectFace(h)
	case KindEdge:
		// face arrows get in the way of the ring sweep
		m.hideFaceArrows()
	}
	m.logger.Debugw("drag started", "handle", h.String())
}

func (m *Manipulator) fireLongPress() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateFaceArmed || m.armed == nil {
		return
	}
	m.orbit.Disable()
	m.state = StateDragging
	m.drag = dragState{
		handle: m.armed,
		anchor: m.box.Clone(),
		startX: m.pressX,
		startY: m.pressY,
		free:   true,
	}
	m.armed = nil
	m.hidePreview()

	// float the box above the cloud while it moves
	m.boxFill.Color = scene.ColorAccent
	m.boxWire.Color = scene.ColorAccent
	m.boxFill.DepthTest = false
	m.boxWire.DepthTest = false
	m.logger.Debugw("long press promoted to free translate")
}

func (m *Manipulator) applyDrag(ev input.PointerEvent) {
	d := m.drag
	dx := ev.X - d.startX
	dy := ev.Y - d.startY

	switch {
	case d.free:
		m.box = m.engine.DragTranslate(d.anchor, dx, dy, m.cam)
	case d.handle.Kind == KindFace:
		m.box = m.engine.DragFace(d.anchor, d.handle.Axis, d.handle.Dir, dx, dy, m.cam)
	case d.handle.Kind == KindEdge:
		m.box = m.engine.DragEdge(d.anchor, dx)
	case d.handle.Kind == KindCorner:
		m.box = m.engine.DragCorner(d.anchor, d.handle.SX, d.handle.SY, d.handle.SZ, dx, dy, m.cam, ev.Mods.Primary)
	case d.handle.Kind == KindAxis:
		m.box = m.engine.DragTranslateAxis(d.anchor, d.handle.Axis, dx, dy, m.cam)
	}
	m.refresh()
	m.notify()
}

// endDrag is the single exit from a drag. Orbit is unconditionally
// re-enabled; restore puts back the pre-drag snapshot.
func (m *Manipulator) endDrag(restore bool) {
	d := m.drag
	m.longPress.Cancel()
	m.orbit.Enable()

	if restore && d.anchor != nil {
		m.box = d.anchor
	}
	if d.handle != nil {
		d.handle.SetTint(false)
	}
	if d.free {
		m.boxFill.Color = scene.ColorBoxFill
		m.boxWire.Color = scene.ColorBoxLine
		m.boxFill.DepthTest = true
		m.boxWire.DepthTest = true
	}
	wasEdge := d.handle != nil && d.handle.Kind == KindEdge && !d.free

	m.drag = dragState{}
	m.state = StateIdle

	if wasEdge {
		// only the previously selected face's arrow comes back
		m.hideFaceArrows()
		if m.selected != nil {
			m.showFaceArrow(m.selected)
		}
	}
	m.refresh()
	m.notify()
}

func (m *Manipulator) updateHover(ev input.PointerEvent) {
	hit, ok := m.registry.HitTest(m.cam.RayThrough(ev.X, ev.Y), m.box)
	switch {
	case ok && hit.IsHandle():
		if m.hovered != hit.Handle {
			m.clearHover()
			m.hovered = hit.Handle
			m.hovered.SetTint(true)
		}
		m.state = StateHovering
	case ok:
		// pointer rests on a bare face: preview its arrow
		m.clearHover()
		if m.preview != hit.Handle {
			m.hidePreview()
			m.preview = hit.Handle
			m.showFaceArrow(hit.Handle)
		}
		m.state = StateIdle
	default:
		m.clearHover()
		m.hidePreview()
		m.state = StateIdle
	}
}

func (m *Manipulator) clearHover() {
	if m.hovered == nil {
		return
	}
	m.hovered.SetTint(false)
	m.hovered = nil
}

func (m *Manipulator) hidePreview() {
	if m.preview == nil {
		return
	}
	if m.preview != m.selected {
		m.preview.Mesh.Visible = false
		m.preview.Mesh.Pickable = false
	}
	m.preview = nil
}

func (m *Manipulator) showFaceArrow(h *Handle) {
	h.Mesh.Visible = true
	h.Mesh.Pickable = true
}

func (m *Manipulator) hideFaceArrows() {
	for _, fd := range faceDefs {
		if h := m.registry.Face(fd.axis, fd.dir); h != nil {
			h.Mesh.Visible = false
			h.Mesh.Pickable = false
		}
	}
}

func (m *Manipulator) selectFace(h *Handle) {
	if h == nil || h.Kind != KindFace {
		return
	}
	if m.selected != nil && m.selected != h {
		m.selected.Mesh.Visible = false
		m.selected.Mesh.Pickable = false
	}
	m.selected = h
	m.showFaceArrow(h)
	m.refresh()
}

func (m *Manipulator) deselect() {
	if m.selected == nil {
		return
	}
	m.selected.Mesh.Visible = false
	m.selected.Mesh.Pickable = false
	m.selected = nil
	m.refresh()
}

// refresh re-derives everything downstream of the box: its own geometry, all
// handle transforms, and the selected-face overlay.
func (m *Manipulator) refresh() {
	m.boxFill.Geometry = scene.NewBoxGeometry(m.box.HalfExtents)
	m.boxWire.Geometry = scene.NewWireBoxGeometry(m.box.HalfExtents)
	for _, obj := range []*scene.Object{m.boxFill, m.boxWire} {
		obj.Position = m.box.Center
		obj.Rotation = m.box.Rotation.Clone()
	}
	m.registry.UpdateTransforms(m.box, m.cam)
	m.refreshSelectionOverlay()
}

func (m *Manipulator) refreshSelectionOverlay() {
	if m.selected == nil {
		m.selQuad.Visible = false
		m.selEdges.Visible = false
		return
	}
	quad, edges := faceOverlayGeometry(m.box, m.selected.Axis, m.selected.Dir)
	m.selQuad.Geometry = quad
	m.selEdges.Geometry = edges
	for _, obj := range []*scene.Object{m.selQuad, m.selEdges} {
		obj.Position = m.box.Center
		obj.Rotation = m.box.Rotation.Clone()
		obj.Visible = true
	}
}

// faceOverlayGeometry builds, in box-local space, the translucent quad just
// outside the given face and the four segments along its edges.
func faceOverlayGeometry(box *spatialmath.OrientedBox, axis spatialmath.Axis, dir float64) (*scene.Geometry, *scene.Geometry) {
	along := dir * (axis.Component(box.HalfExtents) + selectedFacePush)

	var u, v spatialmath.Axis
	switch axis {
	case spatialmath.AxisX:
		u, v = spatialmath.AxisY, spatialmath.AxisZ
	case spatialmath.AxisY:
		u, v = spatialmath.AxisX, spatialmath.AxisZ
	default:
		u, v = spatialmath.AxisX, spatialmath.AxisY
	}
	hu := u.Component(box.HalfExtents)
	hv := v.Component(box.HalfExtents)

	corner := func(su, sv float64) r3.Vector {
		p := axis.SetComponent(r3.Vector{}, along)
		p = u.SetComponent(p, su*hu)
		return v.SetComponent(p, sv*hv)
	}
	verts := []r3.Vector{corner(-1, -1), corner(1, -1), corner(1, 1), corner(-1, 1)}

	quad := &scene.Geometry{
		Vertices:  verts,
		Triangles: [][3]int{{0, 1, 2}, {0, 2, 3}},
	}
	edges := &scene.Geometry{
		Vertices: verts,
		Segments: [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}},
	}
	return quad, edges
}

func (m *Manipulator) notify() {
	if m.onChange != nil {
		m.onChange(m.box)
	}
}
