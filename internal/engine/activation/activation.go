// Package activation decides whether wide field-of-view rendering may run.
package activation

// Action identifies the subject's current high-level action, as reported by
// the host game.
type Action uint32

// Host actions that never allow wide FOV.
const (
	// ActionCreditsCutscene shifts viewports around the screen.
	ActionCreditsCutscene Action = 0x1919
	// ActionEndingCutscene uses letterboxed viewports.
	ActionEndingCutscene Action = 0x1909
)

// Scene is the slice of host game state the policy reads every frame.
type Scene interface {
	// SubjectPresent reports whether the tracked subject exists in the scene.
	SubjectPresent() bool
	// CameraRestricted reports whether the camera is in a mode that cannot
	// be rendered wide, such as looking down a targeting apparatus.
	CameraRestricted() bool
	// Action returns the subject's current action.
	Action() Action
}

// Policy combines the persistent user toggle with per-frame scene state.
type Policy struct {
	enabled  bool
	excluded map[Action]struct{}
}

// DefaultExcluded lists the actions excluded when none are configured.
func DefaultExcluded() []Action {
	return []Action{ActionCreditsCutscene, ActionEndingCutscene}
}

// New creates a policy. enabled is the initial user toggle.
func New(enabled bool, excluded ...Action) *Policy {
	if len(excluded) == 0 {
		excluded = DefaultExcluded()
	}
	p := &Policy{
		enabled:  enabled,
		excluded: make(map[Action]struct{}, len(excluded)),
	}
	for _, a := range excluded {
		p.excluded[a] = struct{}{}
	}
	return p
}

// Enabled returns the user toggle.
func (p *Policy) Enabled() bool {
	return p.enabled
}

// SetEnabled sets the user toggle.
func (p *Policy) SetEnabled(on bool) {
	p.enabled = on
}

// SceneAllows reports whether the scene permits wide FOV this frame.
// A nil scene counts as incomplete and is never allowed.
func (p *Policy) SceneAllows(s Scene) bool {
	if s == nil || !s.SubjectPresent() {
		return false
	}
	if s.CameraRestricted() {
		return false
	}
	if _, skip := p.excluded[s.Action()]; skip {
		return false
	}
	return true
}

// IsActive reports whether wide FOV rendering runs this frame.
func (p *Policy) IsActive(s Scene) bool {
	return p.enabled && p.SceneAllows(s)
}

// Snapshot is a plain Scene implementation for hosts that gather their
// state up front.
type Snapshot struct {
	Present    bool
	Restricted bool
	Current    Action
}

// SubjectPresent implements Scene.
func (s Snapshot) SubjectPresent() bool { return s.Present }

// CameraRestricted implements Scene.
func (s Snapshot) CameraRestricted() bool { return s.Restricted }

// Action implements Scene.
func (s Snapshot) Action() Action { return s.Current }
