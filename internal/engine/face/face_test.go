package face

import "testing"

func TestTraversalOrder(t *testing.T) {
	want := []string{"front", "left", "right", "back", "up", "down"}
	for i, f := range All {
		if f.String() != want[i] {
			t.Errorf("All[%d] = %s, want %s", i, f, want[i])
		}
		if !f.Valid() {
			t.Errorf("%s should be valid", f)
		}
	}
	if Face(Count).Valid() {
		t.Error("face 6 should not be valid")
	}
}

func TestPassFace(t *testing.T) {
	tests := []struct {
		name   string
		pass   Pass
		wantOK bool
		label  string
	}{
		{"zero value", Pass{}, false, "single"},
		{"single", Single(), false, "single"},
		{"sky", Sky(), false, "sky"},
		{"up", On(Up), true, "up"},
	}

	for _, tt := range tests {
		f, ok := tt.pass.Face()
		if ok != tt.wantOK {
			t.Errorf("%s: Face() ok = %v, want %v", tt.name, ok, tt.wantOK)
		}
		if ok && f != Up {
			t.Errorf("%s: Face() = %s, want up", tt.name, f)
		}
		if tt.pass.String() != tt.label {
			t.Errorf("%s: String() = %s, want %s", tt.name, tt.pass, tt.label)
		}
	}

	if !Sky().IsSky() || On(Front).IsSky() {
		t.Error("IsSky mismatch")
	}
}
