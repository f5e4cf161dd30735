// Package physics describes a micron-scale bead held by a polymer tether
// under constant force, the standard magnetic-tweezers geometry.
//
// The bead fluctuates around its equilibrium position under three
// restoring stiffnesses, one per axis:
//
//   - x (along the pulling force): k = F / L_ext
//   - y (transverse): k = F / (L_ext + R)
//   - z (along the tether): the worm-like-chain stiffness of the linker
//
// together with the Einstein drag gamma = kB*T/D. All quantities are SI.
// [Parameters] collects the experimental knobs, [Default] reproduces a
// 1 um bead on a 7 um DNA tether stretched to 4.9 um under 10 pN.
package physics
