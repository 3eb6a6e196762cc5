package client

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"blobarena/game"
)

// InputProvider resolves raw device state into one player's intent
type InputProvider interface {
	// Poll returns the intent for this frame. origin is the top-left corner of
	// the player's viewport on screen.
	Poll(origin game.Vec2, vp game.Viewport) game.Intent

	// Zoom returns the zoom change requested this frame
	Zoom() float64
}

// KeySet maps actions to keyboard keys
type KeySet struct {
	Up, Down, Left, Right ebiten.Key
	Split                 ebiten.Key
	Pickup                ebiten.Key
	Drop                  ebiten.Key
	Fire                  ebiten.Key
}

// WASDKeys is the layout of the first local player
var WASDKeys = KeySet{
	Up: ebiten.KeyW, Down: ebiten.KeyS, Left: ebiten.KeyA, Right: ebiten.KeyD,
	Split:  ebiten.KeySpace,
	Pickup: ebiten.KeyE,
	Drop:   ebiten.KeyQ,
	Fire:   ebiten.KeyF,
}

// ArrowKeys is the layout of the second local player
var ArrowKeys = KeySet{
	Up: ebiten.KeyArrowUp, Down: ebiten.KeyArrowDown, Left: ebiten.KeyArrowLeft, Right: ebiten.KeyArrowRight,
	Split:  ebiten.KeyShiftRight,
	Pickup: ebiten.KeyEnter,
	Drop:   ebiten.KeyBackspace,
	Fire:   ebiten.KeyControlRight,
}

// zoomStep is the zoom change per mouse wheel notch
const zoomStep = 0.05

// PlayerInput provides input from keyboard, mouse and an optional gamepad
type PlayerInput struct {
	keys KeySet

	// Mouse aims and zooms for this player
	mouse bool

	// Index into the connected gamepads, -1 for none
	gamepad  int
	deadzone float64
}

// NewPlayerInput creates a new player input provider
func NewPlayerInput(keys KeySet, mouse bool, gamepad int) *PlayerInput {
	return &PlayerInput{
		keys:     keys,
		mouse:    mouse,
		gamepad:  gamepad,
		deadzone: 0.1,
	}
}

// Poll implements InputProvider
func (p *PlayerInput) Poll(origin game.Vec2, vp game.Viewport) game.Intent {
	var in game.Intent

	if ebiten.IsKeyPressed(p.keys.Left) {
		in.Move.X--
	}
	if ebiten.IsKeyPressed(p.keys.Right) {
		in.Move.X++
	}
	if ebiten.IsKeyPressed(p.keys.Up) {
		in.Move.Y--
	}
	if ebiten.IsKeyPressed(p.keys.Down) {
		in.Move.Y++
	}

	in.Split = inpututil.IsKeyJustPressed(p.keys.Split)
	in.Pickup = ebiten.IsKeyPressed(p.keys.Pickup)
	in.Drop = inpututil.IsKeyJustPressed(p.keys.Drop)
	in.Fire = ebiten.IsKeyPressed(p.keys.Fire)

	if p.mouse {
		if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
			in.Fire = true
		}
		// The player is always drawn at the centre of its viewport
		mx, my := ebiten.CursorPosition()
		in.FireDirection = game.Vec2{
			X: float64(mx) - (origin.X + vp.Width/2),
			Y: float64(my) - (origin.Y + vp.Height/2),
		}
	}

	if id, ok := p.gamepadID(); ok {
		p.pollGamepad(id, &in)
	}
	return in
}

func (p *PlayerInput) gamepadID() (ebiten.GamepadID, bool) {
	if p.gamepad < 0 {
		return 0, false
	}
	ids := ebiten.AppendGamepadIDs(nil)
	if p.gamepad >= len(ids) {
		return 0, false
	}
	id := ids[p.gamepad]
	return id, ebiten.IsStandardGamepadLayoutAvailable(id)
}

func (p *PlayerInput) pollGamepad(id ebiten.GamepadID, in *game.Intent) {
	x := p.axis(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
	y := p.axis(id, ebiten.StandardGamepadAxisLeftStickVertical)
	if x != 0 || y != 0 {
		in.Move = game.Vec2{X: x, Y: y}
	}

	in.Split = in.Split || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontTopRight)
	in.Pickup = in.Pickup || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontTopLeft)
	in.Drop = in.Drop || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightTop)
	in.Fire = in.Fire || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)

	aimX := p.axis(id, ebiten.StandardGamepadAxisRightStickHorizontal)
	aimY := p.axis(id, ebiten.StandardGamepadAxisRightStickVertical)
	if aimX != 0 || aimY != 0 {
		in.FireDirection = game.Vec2{X: aimX, Y: aimY}
	}
}

// axis reads a stick axis with the deadzone applied
func (p *PlayerInput) axis(id ebiten.GamepadID, a ebiten.StandardGamepadAxis) float64 {
	v := ebiten.StandardGamepadAxisValue(id, a)
	if math.Abs(v) < p.deadzone {
		return 0
	}
	return v
}

// Zoom implements InputProvider
func (p *PlayerInput) Zoom() float64 {
	if !p.mouse {
		return 0
	}
	_, dy := ebiten.Wheel()
	return dy * zoomStep
}
