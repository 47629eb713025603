package input

import (
	"testing"

	"github.com/dvaldron/inputmap/internal/input/keycode"
)

func TestEventEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Event
		want bool
	}{
		{
			name: "same single key",
			a:    NewEvent(KindKeyboard, 'a'),
			b:    NewEvent(KindKeyboard, 'a'),
			want: true,
		},
		{
			name: "different code",
			a:    NewEvent(KindKeyboard, 'a'),
			b:    NewEvent(KindKeyboard, 'b'),
			want: false,
		},
		{
			name: "different kind same code",
			a:    NewEvent(KindKeyboard, 1),
			b:    NewEvent(KindGamepad, 1),
			want: false,
		},
		{
			name: "coordinates ignored",
			a:    Event{Kind: KindMouse, Sequence: []int{keycode.MouseLeft}, MouseX: 5, MouseY: 10},
			b:    Event{Kind: KindMouse, Sequence: []int{keycode.MouseLeft}, MouseX: 70, MouseY: 2},
			want: true,
		},
		{
			name: "text ignored",
			a:    Event{Kind: KindKeyboard, Sequence: []int{'a'}, Text: "a"},
			b:    Event{Kind: KindKeyboard, Sequence: []int{'a'}},
			want: true,
		},
		{
			name: "sequence order matters",
			a:    Event{Kind: KindKeyboard, Sequence: []int{'a', 'b'}},
			b:    Event{Kind: KindKeyboard, Sequence: []int{'b', 'a'}},
			want: false,
		},
		{
			name: "sequence length matters",
			a:    Event{Kind: KindKeyboard, Sequence: []int{'a'}},
			b:    Event{Kind: KindKeyboard, Sequence: []int{'a', 'a'}},
			want: false,
		},
		{
			name: "modifiers matter",
			a:    NewEvent(KindKeyboard, 's', ModCtrl),
			b:    NewEvent(KindKeyboard, 's'),
			want: false,
		},
		{
			name: "modifier order normalized",
			a:    NewEvent(KindKeyboard, 's', ModShift, ModCtrl),
			b:    NewEvent(KindKeyboard, 's', ModCtrl, ModShift),
			want: true,
		},
		{
			name: "timeout events equal",
			a:    Event{Kind: KindTimeout},
			b:    Event{Kind: KindTimeout},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
			if got := tt.b.Equal(tt.a); got != tt.want {
				t.Errorf("Equal() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeModifiers(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		want []int
	}{
		{"nil", nil, nil},
		{"single", []int{ModAlt}, []int{ModAlt}},
		{"sorted", []int{ModShift, ModCtrl}, []int{ModCtrl, ModShift}},
		{"duplicates dropped", []int{ModCtrl, ModCtrl, ModAlt}, []int{ModCtrl, ModAlt}},
		{"zero dropped", []int{0, ModCtrl, 0}, []int{ModCtrl}},
		{"all zero", []int{0, 0}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeModifiers(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("NormalizeModifiers(%v) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("NormalizeModifiers(%v) = %v, want %v", tt.in, got, tt.want)
				}
			}
		})
	}
}

func TestFirstInputAndAddInput(t *testing.T) {
	ev := NewEvent(KindKeyboard, 'g')
	if got := ev.FirstInput(); got != 'g' {
		t.Errorf("FirstInput() = %d, want %d", got, 'g')
	}

	ev.AddInput('g')
	if len(ev.Sequence) != 2 || ev.Sequence[1] != 'g' {
		t.Errorf("AddInput left sequence %v", ev.Sequence)
	}
	if got := ev.FirstInput(); got != 'g' {
		t.Errorf("FirstInput() after AddInput = %d, want %d", got, 'g')
	}

	var empty Event
	if got := empty.FirstInput(); got != 0 {
		t.Errorf("FirstInput() on empty event = %d, want 0", got)
	}
}

func TestEventClone(t *testing.T) {
	ev := NewEvent(KindKeyboard, 'a', ModCtrl)
	clone := ev.Clone()
	clone.Sequence[0] = 'z'
	clone.Modifiers[0] = ModShift

	if ev.Sequence[0] != 'a' {
		t.Errorf("clone shares sequence, original mutated to %d", ev.Sequence[0])
	}
	if ev.Modifiers[0] != ModCtrl {
		t.Errorf("clone shares modifiers, original mutated to %d", ev.Modifiers[0])
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindError, "error"},
		{KindTimeout, "timeout"},
		{KindKeyboard, "keyboard"},
		{KindGamepad, "gamepad"},
		{KindMouse, "mouse"},
		{Kind(200), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	for _, kind := range []Kind{KindError, KindTimeout, KindKeyboard, KindGamepad, KindMouse} {
		got, ok := ParseKind(kind.String())
		if !ok || got != kind {
			t.Errorf("ParseKind(%q) = %v, %v", kind.String(), got, ok)
		}
	}
	if _, ok := ParseKind("telepathy"); ok {
		t.Error("ParseKind accepted an unknown kind")
	}
}

func TestEventDescribe(t *testing.T) {
	tables := keycode.Default()

	tests := []struct {
		name string
		ev   Event
		want string
	}{
		{"plain key", NewEvent(KindKeyboard, 'a'), "a"},
		{"special key", NewEvent(KindKeyboard, keycode.KeyUp), "UP"},
		{"with modifiers", NewEvent(KindKeyboard, 's', ModCtrl), "ctrl+s"},
		{"gamepad", NewEvent(KindGamepad, keycode.JoyButton2), "JOY_2"},
		{"mouse", NewEvent(KindMouse, keycode.MouseLeft), "MOUSE_LEFT"},
		{"unnameable code", NewEvent(KindKeyboard, 5), "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ev.Describe(tables); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestModNames(t *testing.T) {
	for _, mod := range []int{ModCtrl, ModAlt, ModShift} {
		name := ModName(mod)
		if name == "" {
			t.Fatalf("ModName(%d) empty", mod)
		}
		if got := ModCode(name); got != mod {
			t.Errorf("ModCode(%q) = %d, want %d", name, got, mod)
		}
	}
	if got := ModCode("CTRL"); got != ModCtrl {
		t.Errorf("ModCode is not case-insensitive, got %d", got)
	}
	if got := ModName(99); got != "" {
		t.Errorf("ModName(99) = %q, want empty", got)
	}
	if got := ModCode("hyper"); got != 0 {
		t.Errorf("ModCode(hyper) = %d, want 0", got)
	}
}
