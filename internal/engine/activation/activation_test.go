package activation

import "testing"

func TestSceneAllows(t *testing.T) {
	p := New(true)

	tests := []struct {
		name  string
		scene Scene
		want  bool
	}{
		{"nil scene", nil, false},
		{"subject absent", Snapshot{Present: false}, false},
		{"subject absent and otherwise fine", Snapshot{Present: false, Current: 0x0C400201}, false},
		{"restricted camera", Snapshot{Present: true, Restricted: true}, false},
		{"credits", Snapshot{Present: true, Current: ActionCreditsCutscene}, false},
		{"ending", Snapshot{Present: true, Current: ActionEndingCutscene}, false},
		{"normal", Snapshot{Present: true, Current: 0x0C400201}, true},
	}

	for _, tt := range tests {
		if got := p.SceneAllows(tt.scene); got != tt.want {
			t.Errorf("%s: SceneAllows() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsActiveRequiresBoth(t *testing.T) {
	ok := Snapshot{Present: true}

	p := New(false)
	if p.IsActive(ok) {
		t.Error("disabled policy should not be active")
	}

	p.SetEnabled(true)
	if !p.IsActive(ok) {
		t.Error("enabled policy with allowing scene should be active")
	}

	if p.IsActive(Snapshot{Present: false}) {
		t.Error("absent subject must deactivate regardless of toggle")
	}
}

func TestCustomExclusions(t *testing.T) {
	p := New(true, Action(42))

	if p.SceneAllows(Snapshot{Present: true, Current: 42}) {
		t.Error("custom excluded action should be rejected")
	}
	if !p.SceneAllows(Snapshot{Present: true, Current: ActionCreditsCutscene}) {
		t.Error("custom exclusion list replaces the defaults")
	}
}
