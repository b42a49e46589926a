// Package slicer is the top-level crop facade: it owns the point cloud, the
// trim-box manipulator lifecycle, the realtime inside/outside/boundary
// preview, and the commit path that materializes a reduced cloud.
package slicer

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/bep/debounce"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/cloudtrim/trimbox/camera"
	"github.com/cloudtrim/trimbox/crop"
	"github.com/cloudtrim/trimbox/gizmo"
	"github.com/cloudtrim/trimbox/input"
	"github.com/cloudtrim/trimbox/pointcloud"
	"github.com/cloudtrim/trimbox/scene"
	"github.com/cloudtrim/trimbox/spatialmath"
)

// ErrNoCloud is returned when an operation needs an active cloud and none
// has been set.
var ErrNoCloud = errors.New("no point cloud loaded")

// ErrNotSlicing is returned when an operation requires an active trim box.
var ErrNotSlicing = errors.New("not in slice mode")

// DefaultOutsideOpacity dims points outside the trim box during preview.
const DefaultOutsideOpacity = 0.1

// fullRangeInflate is the fractional margin added on X and Z by the
// full-range preset.
const fullRangeInflate = 0.05

// cameraRefreshDelay coalesces bursts of camera motion before handle
// transforms are re-derived.
const cameraRefreshDelay = 30 * time.Millisecond

// CameraRig is the mutable camera the slicer restores when the full-range
// preset fires. The manipulator itself only ever reads the camera.
type CameraRig interface {
	camera.Camera
	MoveTo(position r3.Vector)
	LookAt(target r3.Vector)
	Target() r3.Vector
}

// Slicer wires the manipulator, the crop kernel and the preview pipeline
// over host-provided collaborators.
type Slicer struct {
	mu sync.Mutex

	logger golog.Logger
	cfg    gizmo.Config
	cam    CameraRig
	source input.Source
	sink   scene.Sink
	orbit  scene.OrbitGate
	models *scene.ModelRegistry
	clk    clock.Clock

	// cloud is the originally loaded cloud, retained so Reset can restore
	// it; active is what renders and crops, possibly already reduced.
	cloud  *pointcloud.PointCloud
	active *pointcloud.PointCloud

	manip   *gizmo.Manipulator
	slicing bool

	tau            float64
	outsideOpacity float64
	outsideVisible bool

	baseObj *scene.Object
	preview previewObjects
	overlay *scene.Object

	homePos    r3.Vector
	homeTarget r3.Vector

	prevHalfY     float64
	hasPrevHeight bool

	refreshSoon func(func())
}

// New returns a slicer over the given collaborators. The clock is injectable
// for tests; pass nil for the wall clock.
func New(
	cfg gizmo.Config,
	cam CameraRig,
	source input.Source,
	sink scene.Sink,
	orbit scene.OrbitGate,
	models *scene.ModelRegistry,
	clk clock.Clock,
	logger golog.Logger,
) (*Slicer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Slicer{
		logger:         logger,
		cfg:            cfg,
		cam:            cam,
		source:         source,
		sink:           sink,
		orbit:          orbit,
		models:         models,
		clk:            clk,
		tau:            cfg.BoundaryThreshold,
		outsideOpacity: DefaultOutsideOpacity,
		outsideVisible: true,
		refreshSoon:    debounce.New(cameraRefreshDelay),
	}, nil
}

// SetCloud installs the source cloud, renders it, and stores the current
// camera framing as the pose the full-range preset restores.
func (s *Slicer) SetCloud(pc *pointcloud.PointCloud) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slicing {
		s.exitLocked()
	}
	s.cloud = pc
	s.active = pc
	s.hasPrevHeight = false
	s.removeOverlayLocked()
	s.rebuildBaseLocked()

	s.homePos = s.cam.Position()
	s.homeTarget = s.cam.Target()
	s.logger.Infow("cloud set", "points", pc.Size(), "colored", pc.HasColor())
}

// Cloud returns the currently active cloud (the reduced cloud after a
// commit).
func (s *Slicer) Cloud() *pointcloud.PointCloud {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Manipulator returns the live manipulator, or nil outside slice mode.
func (s *Slicer) Manipulator() *gizmo.Manipulator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manip
}

// EnterSliceMode builds a trim box over the active cloud, attaches the
// manipulator and starts the realtime preview.
func (s *Slicer) EnterSliceMode() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enterLocked()
}

func (s *Slicer) enterLocked() error {
	if s.active == nil {
		return ErrNoCloud
	}
	if s.slicing {
		return nil
	}

	box := s.fullRangeBoxLocked()
	s.manip = gizmo.NewManipulator(s.cfg, box, s.cam, s.orbit, s.models, s.clk, s.logger)
	s.manip.OnChange(s.classifyLocked)
	s.manip.Attach(s.sink)
	s.source.Subscribe(s)
	s.slicing = true

	s.classifyLocked(box)
	return nil
}

// ExitSliceMode destroys the trim box and restores the plain cloud
// rendering. The cloud itself is untouched.
func (s *Slicer) ExitSliceMode() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.exitLocked()
}

func (s *Slicer) exitLocked() {
	if !s.slicing {
		return
	}
	s.prevHalfY = s.manip.Box().HalfExtents.Y
	s.hasPrevHeight = true

	s.source.Unsubscribe()
	s.manip.Detach()
	s.manip = nil
	s.slicing = false

	s.disposePreviewLocked()
	if s.baseObj != nil {
		s.baseObj.Visible = true
	}
}

// FullRangeSlice resets the trim box to the inflated cloud bounds and
// restores the stored camera framing. Outside slice mode it enters first.
func (s *Slicer) FullRangeSlice() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return ErrNoCloud
	}
	if !s.slicing {
		if err := s.enterLocked(); err != nil {
			return err
		}
	} else {
		s.prevHalfY = s.manip.Box().HalfExtents.Y
		s.hasPrevHeight = true
		s.manip.SetBox(s.fullRangeBoxLocked())
	}

	s.cam.MoveTo(s.homePos)
	s.cam.LookAt(s.homeTarget)
	s.manip.CameraMoved()
	return nil
}

// fullRangeBoxLocked builds the preset box: the cloud's world-space AABB
// (display rotation applied, since classification happens in world space)
// inflated 5% on X and Z, previous box height kept when one exists, identity
// rotation.
func (s *Slicer) fullRangeBoxLocked() *spatialmath.OrientedBox {
	bounds := s.active.WorldBounds().Inflated(r3.Vector{X: fullRangeInflate, Z: fullRangeInflate})
	half := bounds.HalfExtents()
	if s.hasPrevHeight {
		half.Y = s.prevHalfY
	}
	return spatialmath.NewOrientedBox(bounds.Center(), half, spatialmath.NewZeroEulerAngles())
}

// Commit crops the active cloud to the trim box. On success the reduced
// cloud replaces the active one, the trim box is destroyed, and a white
// boundary overlay marks the cut silhouette. The originally loaded cloud is
// retained for Reset. ErrEmptySelection leaves everything untouched.
func (s *Slicer) Commit() (*pointcloud.PointCloud, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil, ErrNoCloud
	}
	if !s.slicing {
		return nil, ErrNotSlicing
	}

	res, err := crop.Commit(s.active, s.manip.Box(), s.tau)
	if err != nil {
		return nil, err
	}

	s.active = res.Cloud
	s.exitLocked()
	s.rebuildBaseLocked()
	s.buildOverlayLocked(res)
	s.logger.Infow("crop committed", "kept", res.Cloud.Size(), "boundary", len(res.Boundary))
	return res.Cloud, nil
}

// Reset restores the originally loaded cloud and drops any commit overlay.
func (s *Slicer) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cloud == nil {
		return ErrNoCloud
	}
	s.active = s.cloud
	s.removeOverlayLocked()
	s.rebuildBaseLocked()
	if s.slicing {
		s.classifyLocked(s.manip.Box())
	}
	return nil
}

// SetOutsideOpacity adjusts how dimly outside points render during preview.
func (s *Slicer) SetOutsideOpacity(o float64) error {
	if o < 0 || o > 1 {
		return errors.Errorf("opacity %f outside [0, 1]", o)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outsideOpacity = o
	if s.preview.outside != nil {
		s.preview.outside.Opacity = o
	}
	return nil
}

// SetOutsideVisible toggles the dimmed outside points entirely.
func (s *Slicer) SetOutsideVisible(visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outsideVisible = visible
	if s.preview.outside != nil {
		s.preview.outside.Visible = visible
	}
}

// SetBoundaryThreshold adjusts tau and reclassifies immediately when a
// preview is live.
func (s *Slicer) SetBoundaryThreshold(tau float64) error {
	if tau < 0.001 || tau > 0.2 {
		return errors.Errorf("boundary threshold %f outside [0.001, 0.2]", tau)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tau = tau
	if s.slicing {
		s.classifyLocked(s.manip.Box())
	}
	return nil
}

// SetTrimBox replaces the trim box outright, for host-driven presets beyond
// the full-range one.
func (s *Slicer) SetTrimBox(box *spatialmath.OrientedBox) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.slicing {
		return ErrNotSlicing
	}
	s.manip.SetBox(box)
	return nil
}

// SetFollowHandle repoints the axis translate arrows at an edge or corner.
func (s *Slicer) SetFollowHandle(ref gizmo.FollowRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.slicing {
		return ErrNotSlicing
	}
	return s.manip.SetFollowRef(ref)
}

// HandlePointerEvent feeds a pointer event to the manipulator; the slicer is
// the input.Handler the source delivers to while slicing.
func (s *Slicer) HandlePointerEvent(ev input.PointerEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.manip == nil {
		return
	}
	s.manip.HandlePointerEvent(ev)
}

// HandleEscape forwards ESC to the manipulator.
func (s *Slicer) HandleEscape() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.manip == nil {
		return
	}
	s.manip.HandleEscape()
}

// HandleBlur forwards window blur to the manipulator.
func (s *Slicer) HandleBlur() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.manip == nil {
		return
	}
	s.manip.HandleBlur()
}

// CameraMoved schedules a debounced handle re-derivation after host camera
// motion.
func (s *Slicer) CameraMoved() {
	s.refreshSoon(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.manip != nil {
			s.manip.CameraMoved()
		}
	})
}

// rebuildBaseLocked replaces the plain cloud rendering with the active
// cloud's points.
func (s *Slicer) rebuildBaseLocked() {
	if s.baseObj != nil {
		s.sink.Remove(s.baseObj)
		s.baseObj = nil
	}
	if s.active == nil {
		return
	}
	s.baseObj = newCloudObject("cloud", s.active, nil)
	s.sink.Add(s.baseObj)
}
