package component

// Input stores one frame of named axes and pressed actions.
type Input struct {
	axes    map[string]float64
	pressed map[string]bool
}

var InputComponent = NewComponent[Input]()

func (in *Input) SetAxis(name string, value float64) {
	if in.axes == nil {
		in.axes = make(map[string]float64)
	}
	in.axes[name] = value
}

func (in *Input) Press(action string) {
	if in.pressed == nil {
		in.pressed = make(map[string]bool)
	}
	in.pressed[action] = true
}

// Reset clears the frame.
func (in *Input) Reset() {
	clear(in.axes)
	clear(in.pressed)
}

func (in *Input) Axis(name string) float64 {
	return in.axes[name]
}

func (in *Input) JustPressed(action string) bool {
	return in.pressed[action]
}
