package scene

import "github.com/edaniels/golog"

// ModelKind names the external handle models the manipulator can use.
type ModelKind int

// The loadable model kinds.
const (
	ModelArrow ModelKind = iota
	ModelRing
)

func (k ModelKind) String() string {
	return [...]string{"arrow", "ring"}[k]
}

// ModelRegistry holds externally loaded handle models. Model loading is
// deferred and may never complete; Geometry falls back to procedural
// equivalents until an upgrade arrives, logging the fallback once per kind.
type ModelRegistry struct {
	logger golog.Logger
	models map[ModelKind]*Geometry
	warned map[ModelKind]bool
}

// NewModelRegistry returns an empty registry.
func NewModelRegistry(logger golog.Logger) *ModelRegistry {
	return &ModelRegistry{
		logger: logger,
		models: map[ModelKind]*Geometry{},
		warned: map[ModelKind]bool{},
	}
}

// Register installs a loaded model. The manipulator picks it up the next
// time it enters slice mode.
func (mr *ModelRegistry) Register(kind ModelKind, g *Geometry) {
	mr.models[kind] = g
}

// Loaded returns whether an external model is available for the kind.
func (mr *ModelRegistry) Loaded(kind ModelKind) bool {
	_, ok := mr.models[kind]
	return ok
}

// Geometry returns the model for the kind, falling back to procedural
// geometry when no external model has been registered.
func (mr *ModelRegistry) Geometry(kind ModelKind) *Geometry {
	if g, ok := mr.models[kind]; ok {
		return g
	}
	if !mr.warned[kind] {
		mr.warned[kind] = true
		mr.logger.Debugw("handle model not loaded, using procedural fallback", "model", kind.String())
	}
	switch kind {
	case ModelRing:
		return NewQuarterRingGeometry(0.5, 0.04, 12, 8)
	default:
		return NewArrowGeometry(0.35, 0.035, 0.2, 0.09, 16)
	}
}
