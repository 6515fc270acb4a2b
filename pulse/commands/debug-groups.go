package commands

// debugGroupEncoder is the part of wgpu.CommandEncoder used for profiling scopes.
type debugGroupEncoder interface {
	PushDebugGroup(groupLabel string)
	PopDebugGroup()
}

// debugGroups tracks the debug groups currently open on an encoder.
// Every group must be popped from the encoder it was pushed to
// before that encoder is finished.
type debugGroups struct {
	open []string
}

func (d *debugGroups) push(enc debugGroupEncoder, name string) {
	enc.PushDebugGroup(name)
	d.open = append(d.open, name)
}

// pop closes the innermost group if it has the given name.
func (d *debugGroups) pop(enc debugGroupEncoder, name string) bool {
	if len(d.open) == 0 || d.open[len(d.open)-1] != name {
		return false
	}

	d.open = d.open[:len(d.open)-1]
	enc.PopDebugGroup()

	return true
}

// closeAll pops every open group from enc and returns their names,
// outermost first.
func (d *debugGroups) closeAll(enc debugGroupEncoder) []string {
	names := d.open
	d.open = nil

	for range names {
		enc.PopDebugGroup()
	}

	return names
}

// reopen pushes the given groups onto enc in order.
func (d *debugGroups) reopen(enc debugGroupEncoder, names []string) {
	for _, name := range names {
		d.push(enc, name)
	}
}

func (d *debugGroups) empty() bool {
	return len(d.open) == 0
}
