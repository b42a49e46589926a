package slicer

import (
	"math"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/cloudtrim/trimbox/camera"
	"github.com/cloudtrim/trimbox/crop"
	"github.com/cloudtrim/trimbox/gizmo"
	"github.com/cloudtrim/trimbox/input"
	"github.com/cloudtrim/trimbox/pointcloud"
	"github.com/cloudtrim/trimbox/scene"
	"github.com/cloudtrim/trimbox/spatialmath"
)

type fakeGate struct {
	enabled bool
}

func (g *fakeGate) Enable()  { g.enabled = true }
func (g *fakeGate) Disable() { g.enabled = false }

type fakeSink struct {
	objects map[*scene.Object]bool
	adds    int
	removes int
}

func newFakeSink() *fakeSink {
	return &fakeSink{objects: map[*scene.Object]bool{}}
}

func (s *fakeSink) Add(obj *scene.Object) {
	s.objects[obj] = true
	s.adds++
}

func (s *fakeSink) Remove(obj *scene.Object) {
	delete(s.objects, obj)
	s.removes++
}

func (s *fakeSink) byName(name string) *scene.Object {
	for obj := range s.objects {
		if obj.Name == name {
			return obj
		}
	}
	return nil
}

type fakeSource struct {
	handler      input.Handler
	subscribes   int
	unsubscribes int
}

func (f *fakeSource) Subscribe(h input.Handler) {
	f.handler = h
	f.subscribes++
}

func (f *fakeSource) Unsubscribe() {
	f.handler = nil
	f.unsubscribes++
}

func newTestSlicer(t *testing.T) (*Slicer, *fakeSink, *fakeSource, *fakeGate, *camera.Pinhole) {
	t.Helper()
	logger := golog.NewTestLogger(t)
	cam := camera.NewPinhole(r3.Vector{Z: 10}, r3.Vector{}, math.Pi/3, 1)
	sink := newFakeSink()
	source := &fakeSource{}
	gate := &fakeGate{enabled: true}
	s, err := New(
		gizmo.DefaultConfig(), cam, source, sink, gate,
		scene.NewModelRegistry(logger), clock.NewMock(), logger,
	)
	test.That(t, err, test.ShouldBeNil)
	return s, sink, source, gate, cam
}

func axisCloud(t *testing.T) *pointcloud.PointCloud {
	t.Helper()
	pc, err := pointcloud.New([]float64{
		0, 0, 0,
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
		2, 0, 0,
	}, nil)
	test.That(t, err, test.ShouldBeNil)
	return pc
}

func TestEnterWithoutCloud(t *testing.T) {
	s, _, _, _, _ := newTestSlicer(t)
	test.That(t, errors.Is(s.EnterSliceMode(), ErrNoCloud), test.ShouldBeTrue)
	_, err := s.Commit()
	test.That(t, errors.Is(err, ErrNoCloud), test.ShouldBeTrue)
}

func TestEnterBuildsFullRangeBox(t *testing.T) {
	s, _, source, _, _ := newTestSlicer(t)
	s.SetCloud(axisCloud(t))

	test.That(t, s.EnterSliceMode(), test.ShouldBeNil)
	test.That(t, source.subscribes, test.ShouldEqual, 1)

	box := s.Manipulator().Box()
	// cloud AABB is [0,2]x[0,1]x[0,1], inflated 5% on x and z only
	test.That(t, box.Center.X, test.ShouldAlmostEqual, 1.0, 1e-9)
	test.That(t, box.Center.Y, test.ShouldAlmostEqual, 0.5, 1e-9)
	test.That(t, box.Center.Z, test.ShouldAlmostEqual, 0.5, 1e-9)
	test.That(t, box.HalfExtents.X, test.ShouldAlmostEqual, 1.05, 1e-9)
	test.That(t, box.HalfExtents.Y, test.ShouldAlmostEqual, 0.5, 1e-9)
	test.That(t, box.HalfExtents.Z, test.ShouldAlmostEqual, 0.525, 1e-9)
	test.That(t, box.Rotation.AlmostEqual(spatialmath.NewZeroEulerAngles(), 1e-12), test.ShouldBeTrue)
}

func TestPreviewPartitionsEveryPoint(t *testing.T) {
	s, sink, _, _, _ := newTestSlicer(t)
	s.SetCloud(axisCloud(t))
	test.That(t, s.EnterSliceMode(), test.ShouldBeNil)

	total := 0
	for _, name := range []string{"preview-inside", "preview-boundary", "preview-outside"} {
		if obj := sink.byName(name); obj != nil {
			total += len(obj.Geometry.Vertices)
		}
	}
	test.That(t, total, test.ShouldEqual, 5)

	// the plain cloud rendering yields to the preview
	test.That(t, sink.byName("cloud").Visible, test.ShouldBeFalse)
}

func TestBoundaryPreviewStyle(t *testing.T) {
	s, sink, _, _, _ := newTestSlicer(t)
	s.SetCloud(axisCloud(t))
	test.That(t, s.EnterSliceMode(), test.ShouldBeNil)

	// points sit on the uninflated y faces, so a boundary set exists
	obj := sink.byName("preview-boundary")
	test.That(t, obj, test.ShouldNotBeNil)
	test.That(t, obj.Color, test.ShouldResemble, scene.ColorBoundary)
	test.That(t, obj.DepthTest, test.ShouldBeFalse)
	test.That(t, obj.PointSize, test.ShouldBeGreaterThan, basePointSize)
}

func TestReclassifyDisposesBeforeReplace(t *testing.T) {
	s, sink, _, _, _ := newTestSlicer(t)
	s.SetCloud(axisCloud(t))
	test.That(t, s.EnterSliceMode(), test.ShouldBeNil)

	before := len(sink.objects)
	test.That(t, s.SetBoundaryThreshold(0.1), test.ShouldBeNil)
	test.That(t, len(sink.objects), test.ShouldEqual, before)
}

func TestOutsideControls(t *testing.T) {
	s, sink, _, _, _ := newTestSlicer(t)
	s.SetCloud(axisCloud(t))
	test.That(t, s.EnterSliceMode(), test.ShouldBeNil)

	// shrink the box so (2,0,0) falls outside
	small := spatialmath.NewOrientedBox(
		r3.Vector{X: 0.5, Y: 0.5, Z: 0.5},
		r3.Vector{X: 1, Y: 1, Z: 1},
		spatialmath.NewZeroEulerAngles(),
	)
	test.That(t, s.SetTrimBox(small), test.ShouldBeNil)

	outside := sink.byName("preview-outside")
	test.That(t, outside, test.ShouldNotBeNil)
	test.That(t, outside.Opacity, test.ShouldAlmostEqual, DefaultOutsideOpacity, 1e-12)

	test.That(t, s.SetOutsideOpacity(0.4), test.ShouldBeNil)
	test.That(t, outside.Opacity, test.ShouldAlmostEqual, 0.4, 1e-12)
	test.That(t, s.SetOutsideOpacity(1.5), test.ShouldNotBeNil)

	s.SetOutsideVisible(false)
	test.That(t, outside.Visible, test.ShouldBeFalse)
}

func TestThresholdValidation(t *testing.T) {
	s, _, _, _, _ := newTestSlicer(t)
	test.That(t, s.SetBoundaryThreshold(0.0001), test.ShouldNotBeNil)
	test.That(t, s.SetBoundaryThreshold(0.5), test.ShouldNotBeNil)
	test.That(t, s.SetBoundaryThreshold(0.05), test.ShouldBeNil)
}

func TestCommitReducesCloud(t *testing.T) {
	s, sink, source, gate, _ := newTestSlicer(t)
	s.SetCloud(axisCloud(t))
	test.That(t, s.EnterSliceMode(), test.ShouldBeNil)

	// box around the origin keeps the four unit points, drops (2,0,0)
	box := spatialmath.NewOrientedBox(
		r3.Vector{},
		r3.Vector{X: 1.2, Y: 1.2, Z: 1.2},
		spatialmath.NewZeroEulerAngles(),
	)
	test.That(t, s.SetTrimBox(box), test.ShouldBeNil)

	reduced, err := s.Commit()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, reduced.Size(), test.ShouldEqual, 4)

	// the box is destroyed and the input subscription released
	test.That(t, s.Manipulator(), test.ShouldBeNil)
	test.That(t, source.unsubscribes, test.ShouldEqual, 1)
	test.That(t, gate.enabled, test.ShouldBeTrue)

	// the reduced cloud renders in place of the original
	base := sink.byName("cloud")
	test.That(t, base, test.ShouldNotBeNil)
	test.That(t, base.Visible, test.ShouldBeTrue)
	test.That(t, len(base.Geometry.Vertices), test.ShouldEqual, 4)
	test.That(t, s.Cloud(), test.ShouldEqual, reduced)
}

func TestCommitEmptySelection(t *testing.T) {
	s, _, _, _, _ := newTestSlicer(t)
	s.SetCloud(axisCloud(t))
	test.That(t, s.EnterSliceMode(), test.ShouldBeNil)

	far := spatialmath.NewOrientedBox(
		r3.Vector{X: 100},
		r3.Vector{X: 1, Y: 1, Z: 1},
		spatialmath.NewZeroEulerAngles(),
	)
	test.That(t, s.SetTrimBox(far), test.ShouldBeNil)

	_, err := s.Commit()
	test.That(t, errors.Is(err, crop.ErrEmptySelection), test.ShouldBeTrue)

	// everything is left standing: still slicing, cloud untouched
	test.That(t, s.Manipulator(), test.ShouldNotBeNil)
	test.That(t, s.Cloud().Size(), test.ShouldEqual, 5)
}

func TestCommitIdempotent(t *testing.T) {
	s, _, _, _, _ := newTestSlicer(t)
	s.SetCloud(axisCloud(t))
	test.That(t, s.EnterSliceMode(), test.ShouldBeNil)

	first, err := s.Commit()
	test.That(t, err, test.ShouldBeNil)

	// a full-range slice over the committed cloud keeps every point
	test.That(t, s.FullRangeSlice(), test.ShouldBeNil)
	second, err := s.Commit()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, second.Size(), test.ShouldEqual, first.Size())
	test.That(t, second.Positions(), test.ShouldResemble, first.Positions())
}

func TestFullRangeCoversRotatedCloud(t *testing.T) {
	s, _, _, _, _ := newTestSlicer(t)
	pc := axisCloud(t)
	pc.SetRotation(spatialmath.NewEulerAngles(0, math.Pi/2, 0))
	s.SetCloud(pc)

	// the preset box must cover the display-rotated cloud, so a straight
	// commit keeps every point
	test.That(t, s.EnterSliceMode(), test.ShouldBeNil)
	first, err := s.Commit()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, first.Size(), test.ShouldEqual, 5)

	// commit -> full range -> commit leaves the cloud intact
	test.That(t, s.FullRangeSlice(), test.ShouldBeNil)
	second, err := s.Commit()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, second.Size(), test.ShouldEqual, 5)
	test.That(t, second.Positions(), test.ShouldResemble, first.Positions())
}

func TestResetRestoresOriginal(t *testing.T) {
	s, _, _, _, _ := newTestSlicer(t)
	s.SetCloud(axisCloud(t))
	test.That(t, s.EnterSliceMode(), test.ShouldBeNil)

	box := spatialmath.NewOrientedBox(
		r3.Vector{},
		r3.Vector{X: 1.2, Y: 1.2, Z: 1.2},
		spatialmath.NewZeroEulerAngles(),
	)
	test.That(t, s.SetTrimBox(box), test.ShouldBeNil)
	_, err := s.Commit()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.Cloud().Size(), test.ShouldEqual, 4)

	test.That(t, s.Reset(), test.ShouldBeNil)
	test.That(t, s.Cloud().Size(), test.ShouldEqual, 5)
}

func TestFullRangeRestoresCamera(t *testing.T) {
	s, _, _, _, cam := newTestSlicer(t)
	s.SetCloud(axisCloud(t))
	test.That(t, s.EnterSliceMode(), test.ShouldBeNil)

	cam.MoveTo(r3.Vector{X: 5, Y: 5, Z: 5})
	test.That(t, s.FullRangeSlice(), test.ShouldBeNil)
	test.That(t, cam.Position(), test.ShouldResemble, r3.Vector{Z: 10})
}

func TestFullRangeKeepsPreviousHeight(t *testing.T) {
	s, _, _, _, _ := newTestSlicer(t)
	s.SetCloud(axisCloud(t))
	test.That(t, s.EnterSliceMode(), test.ShouldBeNil)

	tall := spatialmath.NewOrientedBox(
		r3.Vector{X: 1, Y: 0.5, Z: 0.5},
		r3.Vector{X: 1, Y: 3, Z: 1},
		spatialmath.NewZeroEulerAngles(),
	)
	test.That(t, s.SetTrimBox(tall), test.ShouldBeNil)

	test.That(t, s.FullRangeSlice(), test.ShouldBeNil)
	box := s.Manipulator().Box()
	test.That(t, box.HalfExtents.Y, test.ShouldAlmostEqual, 3.0, 1e-9)
	test.That(t, box.HalfExtents.X, test.ShouldAlmostEqual, 1.05, 1e-9)
}

func TestEnterExitRoundTrip(t *testing.T) {
	s, sink, source, gate, _ := newTestSlicer(t)
	s.SetCloud(axisCloud(t))

	before := len(sink.objects)
	test.That(t, s.EnterSliceMode(), test.ShouldBeNil)
	s.ExitSliceMode()

	test.That(t, len(sink.objects), test.ShouldEqual, before)
	test.That(t, sink.byName("cloud").Visible, test.ShouldBeTrue)
	test.That(t, source.unsubscribes, test.ShouldEqual, 1)
	test.That(t, gate.enabled, test.ShouldBeTrue)
	test.That(t, s.Cloud().Size(), test.ShouldEqual, 5)
}

func TestPointerEventsReachManipulator(t *testing.T) {
	s, _, source, gate, cam := newTestSlicer(t)
	s.SetCloud(axisCloud(t))
	test.That(t, s.EnterSliceMode(), test.ShouldBeNil)

	// press on the center of the +z face, clear of any corner or ring
	box := s.Manipulator().Box()
	ndc, ok := cam.Project(box.FaceCenter(spatialmath.AxisZ, 1))
	test.That(t, ok, test.ShouldBeTrue)
	down := input.PointerEvent{Kind: input.PointerDown, X: ndc.X(), Y: ndc.Y()}
	source.handler.HandlePointerEvent(down)
	test.That(t, s.Manipulator().State(), test.ShouldEqual, gizmo.StateFaceArmed)

	up := input.PointerEvent{Kind: input.PointerUp, X: ndc.X(), Y: ndc.Y()}
	source.handler.HandlePointerEvent(up)
	test.That(t, s.Manipulator().State(), test.ShouldEqual, gizmo.StateIdle)
	test.That(t, gate.enabled, test.ShouldBeTrue)
}
