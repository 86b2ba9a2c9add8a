// SPDX-License-Identifier: EPL-2.0

package mixer

// Group scales every stream assigned to it.
type Group struct {
	Volume float32
	Muted  bool
}

// gain is the multiplier the group applies, mute included.
func (g *Group) gain() float32 {
	if g == nil {
		return 1
	}
	if g.Muted {
		return 0
	}
	return g.Volume
}
