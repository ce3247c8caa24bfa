// Package interact translates pointer input into a pan/zoom [Transform] and
// node pins on a running simulation.
//
// The [Controller] owns the transform and the current gesture. It never moves
// nodes itself: drags are expressed as pins written straight into the
// [Target], which applies them before its next step.
//
// # Gestures
//
//   - Pointer down over a node: pin it at its current position and raise the
//     target's alpha target to Config.DragAlphaTarget.
//   - Pointer move while dragging: move the pin to the pointer, mapped back
//     into simulation space through the inverse transform.
//   - Pointer up: unpin and drop the alpha target back to zero.
//   - Pointer down on the background: pan.
//   - Wheel: zoom about the pointer by 2^(-deltaY * WheelFactor).
//   - Pinch: zoom about the pinch center by the pinch factor.
//
// Scale is always clamped to [Config.ScaleMin, Config.ScaleMax]. The
// transform affects only how the scene is drawn, never the physics.
package interact
