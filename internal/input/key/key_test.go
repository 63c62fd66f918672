package key

import (
	"testing"
)

func TestKeyEqual(t *testing.T) {
	a := Key{Name: "A", Code: 65}

	tests := []struct {
		name  string
		other Key
		want  bool
	}{
		{"same", Key{Name: "A", Code: 65}, true},
		{"different code", Key{Name: "A", Code: 66}, false},
		{"different name", Key{Name: "a", Code: 65}, false},
		{"zero", Key{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Equal(tt.other); got != tt.want {
				t.Errorf("Key.Equal() = %v, want %v", got, tt.want)
			}
			if got := tt.other.Equal(a); got != tt.want {
				t.Errorf("Key.Equal() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeyIsMeta(t *testing.T) {
	tests := []struct {
		key  Key
		want bool
	}{
		{Shift, true},
		{Ctrl, true},
		{Alt, true},
		{Meta, true},
		{MetaRight, true},
		{Key{Name: "A", Code: 65}, false},
		{Key{Name: "Enter", Code: 13}, false},
		{Key{Name: "Num Lock", Code: 144}, false},
	}

	for _, tt := range tests {
		t.Run(tt.key.Name, func(t *testing.T) {
			if got := tt.key.IsMeta(); got != tt.want {
				t.Errorf("Key.IsMeta() = %v, want %v", got, tt.want)
			}
			if got := IsMetaCode(tt.key.Code); got != tt.want {
				t.Errorf("IsMetaCode(%d) = %v, want %v", tt.key.Code, got, tt.want)
			}
		})
	}
}

func TestKeyIsPressed(t *testing.T) {
	enter := Key{Name: "Enter", Code: 13}
	if !enter.IsPressed(13) {
		t.Error("IsPressed(13) = false, want true")
	}
	if enter.IsPressed(65) {
		t.Error("IsPressed(65) = true, want false")
	}
}

func TestKeyModifier(t *testing.T) {
	tests := []struct {
		key  Key
		want Modifier
	}{
		{Ctrl, ModCtrl},
		{Alt, ModAlt},
		{Shift, ModShift},
		{Meta, ModMeta},
		{MetaRight, ModMeta},
		{Key{Name: "A", Code: 65}, ModNone},
	}

	for _, tt := range tests {
		if got := tt.key.Modifier(); got != tt.want {
			t.Errorf("%s.Modifier() = %v, want %v", tt.key.Name, got, tt.want)
		}
	}
}

func TestKeyString(t *testing.T) {
	if got := Ctrl.String(); got != "CTRL" {
		t.Errorf("Ctrl.String() = %q, want %q", got, "CTRL")
	}
	if !(Key{}).IsZero() {
		t.Error("Key{}.IsZero() = false, want true")
	}
}
