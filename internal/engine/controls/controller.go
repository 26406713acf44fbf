package controls

// Button is a controller button bitmask.
type Button uint16

// Button masks, laid out like the host's pad register.
const (
	ButtonCRight Button = 0x0001
	ButtonCLeft  Button = 0x0002
	ButtonCDown  Button = 0x0004
	ButtonCUp    Button = 0x0008
	ButtonR      Button = 0x0010
	ButtonL      Button = 0x0020
	ButtonStart  Button = 0x1000
	ButtonZ      Button = 0x2000
	ButtonB      Button = 0x4000
	ButtonA      Button = 0x8000
)

// StickRange is the magnitude of a fully deflected analog stick.
const StickRange = 64

// Controller is one controller slot as seen by gameplay code for a frame.
type Controller struct {
	ButtonDown    Button
	ButtonPressed Button
	StickX        float32
	StickY        float32
	StickMag      float32
}

// Down reports whether any of the buttons in b are held.
func (c *Controller) Down(b Button) bool {
	return c.ButtonDown&b != 0
}

// Suppress zeroes every gameplay field.
func (c *Controller) Suppress() {
	c.ButtonDown = 0
	c.ButtonPressed = 0
	c.StickX = 0
	c.StickY = 0
	c.StickMag = 0
}

// Bindings maps the four logical controls onto buttons.
type Bindings struct {
	Edit       Button // hold to enter edit mode
	Zoom       Button // hold to steer the Möbius zoom
	Grid       Button // toggles the face grid overlay
	Projection Button // toggles the alternate cube projection
}

// DefaultBindings returns R to edit, Z to zoom, A and B for the toggles.
func DefaultBindings() Bindings {
	return Bindings{
		Edit:       ButtonR,
		Zoom:       ButtonZ,
		Grid:       ButtonA,
		Projection: ButtonB,
	}
}
