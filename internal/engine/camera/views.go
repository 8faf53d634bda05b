package camera

import "github.com/go-gl/mathgl/mgl64"

// View is a named default camera placement. Up is optional: when nil the
// rig uses the world frame's up at the view target (an explicit up serves
// views like a north-up top-down plan).
type View struct {
	Target   mgl64.Vec3
	Position mgl64.Vec3
	Up       *mgl64.Vec3
}

// DefaultViews returns the built-in named views for a Z-up scene.
// Config may add to or override these.
func DefaultViews() map[string]View {
	north := mgl64.Vec3{0, 1, 0}
	return map[string]View{
		"home": {
			Target:   mgl64.Vec3{0, 0, 0},
			Position: mgl64.Vec3{10, -10, 10},
		},
		"top": {
			Target:   mgl64.Vec3{0, 0, 0},
			Position: mgl64.Vec3{0, 0, 17.32},
			Up:       &north, // north-up plan view
		},
		"front": {
			Target:   mgl64.Vec3{0, 0, 0},
			Position: mgl64.Vec3{0, -17.32, 0},
		},
		"right": {
			Target:   mgl64.Vec3{0, 0, 0},
			Position: mgl64.Vec3{17.32, 0, 0},
		},
	}
}
