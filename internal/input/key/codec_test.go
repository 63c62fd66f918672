package key

import (
	"errors"
	"testing"
)

func TestComboSerialize(t *testing.T) {
	got, err := MustCombo(keyA, Ctrl, Shift).Serialize()
	if err != nil {
		t.Fatalf("Serialize() error = %v", err)
	}
	want := `{"key":{"name":"A","code":65},"ctrl":true,"shift":true,"alt":false,"meta":false}`
	if got != want {
		t.Errorf("Serialize() = %s, want %s", got, want)
	}

	if _, err := (Combo{}).Serialize(); !errors.Is(err, ErrEmptyCombo) {
		t.Errorf("Serialize() of zero combo error = %v, want ErrEmptyCombo", err)
	}
}

func TestDeserializeComboRoundTrip(t *testing.T) {
	c := NewCatalog()
	combos := []Combo{
		MustCombo(keyA),
		MustCombo(keyS, Ctrl),
		MustCombo(keyA, Ctrl, Alt, Shift, Meta),
		MustCombo(Shift, Alt),
		MustCombo(Alt, Shift),
		MustCombo(MetaRight),
	}

	for _, combo := range combos {
		t.Run(combo.String(), func(t *testing.T) {
			s, err := combo.Serialize()
			if err != nil {
				t.Fatalf("Serialize() error = %v", err)
			}
			got, err := c.DeserializeCombo(s)
			if err != nil {
				t.Fatalf("DeserializeCombo(%s) error = %v", s, err)
			}
			if got == nil || !got.Equal(combo) {
				t.Errorf("DeserializeCombo(%s) = %#v, want %#v", s, got, combo)
			}
		})
	}
}

func TestDeserializeComboEmpty(t *testing.T) {
	got, err := NewCatalog().DeserializeCombo("  ")
	if err != nil || got != nil {
		t.Errorf("DeserializeCombo(empty) = %v, %v, want nil, nil", got, err)
	}
}

func TestDeserializeComboErrors(t *testing.T) {
	c := NewCatalog()

	tests := []struct {
		name  string
		input string
	}{
		{"not json", `CTRL+S`},
		{"missing key", `{"ctrl":true}`},
		{"missing code", `{"key":{"name":"A"}}`},
		{"missing name", `{"key":{"code":65}}`},
		{"conflicting code", `{"key":{"name":"A","code":66}}`},
		{"wrong type", `{"key":"A"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.DeserializeCombo(tt.input)
			if !errors.Is(err, ErrInvalidCombo) {
				t.Errorf("DeserializeCombo(%s) error = %v, want ErrInvalidCombo", tt.input, err)
			}
		})
	}
}

func TestDecodeComboBareKey(t *testing.T) {
	c := NewCatalog()
	got, err := c.DecodeCombo([]byte(`{"name":"Up","code":38}`))
	if err != nil {
		t.Fatalf("DecodeCombo() error = %v", err)
	}
	if got.String() != "Up" || !got.Modifiers().IsEmpty() {
		t.Errorf("DecodeCombo() = %q, want bare Up", got.String())
	}
}

func TestComboFromObjectRegistersUnknownKey(t *testing.T) {
	c := NewCatalog()
	got, err := c.ComboFromObject(ComboObject{Key: Key{Name: "Media Play", Code: 179}, Ctrl: true})
	if err != nil {
		t.Fatalf("ComboFromObject() error = %v", err)
	}
	if got.String() != "CTRL+Media Play" {
		t.Errorf("ComboFromObject() = %q, want CTRL+Media Play", got.String())
	}
	if _, ok := c.ByCode(179); !ok {
		t.Error("ComboFromObject() did not register the unknown key")
	}
}

func TestComboFromObjectResolvesCatalogKey(t *testing.T) {
	tests := []struct {
		name    string
		obj     ComboObject
		want    string
		wantErr error
	}{
		{"lower case name", ComboObject{Key: Key{Name: "a", Code: 65}, Ctrl: true}, "CTRL+A", nil},
		{"exact name", ComboObject{Key: Key{Name: "A", Code: 65}}, "A", nil},
		{"other name for code", ComboObject{Key: Key{Name: "Alias", Code: 65}}, "", ErrKeyConflict},
		{"other code for name", ComboObject{Key: Key{Name: "a", Code: 66}}, "", ErrKeyConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCatalog()
			before := c.Len()

			got, err := c.ComboFromObject(tt.obj)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) || !errors.Is(err, ErrInvalidCombo) {
					t.Errorf("ComboFromObject() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ComboFromObject() error = %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("ComboFromObject() = %q, want %q", got.String(), tt.want)
			}
			if c.Len() != before {
				t.Errorf("Len() = %d, want %d", c.Len(), before)
			}

			observed, ok := c.ComboFromEvent(NewEvent(KeyDown, 65, got.Modifiers()))
			if !ok || !observed.Equal(got) {
				t.Errorf("ComboFromEvent() = %v, want %v", observed, got)
			}
		})
	}
}
