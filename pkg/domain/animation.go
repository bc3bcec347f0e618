package domain

// Animation selects which visual transition the front end plays for a step.
type Animation string

const (
	AnimationNone          Animation = "none"
	AnimationCompare       Animation = "compare"
	AnimationSwap          Animation = "swap"
	AnimationFoundPosition Animation = "found-position"
	AnimationInserted      Animation = "inserted"
	AnimationSet           Animation = "set"
	AnimationGet           Animation = "get"
	AnimationDone          Animation = "done"

	// AnimationDown marks the start of an insertion pass, before any shifting.
	AnimationDown Animation = "down"
)

// Valid reports whether a belongs to the closed animation set.
func (a Animation) Valid() bool {
	switch a {
	case AnimationNone, AnimationCompare, AnimationSwap, AnimationFoundPosition,
		AnimationInserted, AnimationSet, AnimationGet, AnimationDone, AnimationDown:
		return true
	}
	return false
}
