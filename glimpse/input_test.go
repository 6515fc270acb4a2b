package glimpse

import "testing"

func TestInputStatePressRelease(t *testing.T) {
	var state InputState

	state.Keys.press(KeySpace)

	if !state.IsKeyJustPressed(KeySpace) || !state.IsKeyPressed(KeySpace) {
		t.Fatalf("expected space to be pressed")
	}

	state.nextTick()

	if state.IsKeyJustPressed(KeySpace) {
		t.Errorf("expected just pressed to be cleared after tick")
	}

	if !state.IsKeyPressed(KeySpace) {
		t.Errorf("expected space to stay pressed")
	}

	state.Keys.release(KeySpace)

	if state.IsKeyPressed(KeySpace) {
		t.Errorf("expected space to be released")
	}

	if !state.Keys.JustReleased[KeySpace] {
		t.Errorf("expected space in just released")
	}
}

func TestKeyString(t *testing.T) {
	if KeyEscape.String() == "" || KeyEscape.String() == KeySpace.String() {
		t.Errorf("unexpected key names %q and %q", KeyEscape, KeySpace)
	}
}
