package music

// General MIDI percussion note numbers used by the drum patterns.
const (
	DrumKick      = 36
	DrumSnare     = 38
	DrumClosedHat = 42
	DrumOpenHat   = 46
	DrumRide      = 51
	DrumCrash     = 49
)

// drumHit is one event of a bar-long drum pattern. Beat offsets are within a
// 4/4 bar (0..4).
type drumHit struct {
	pitch    int
	velocity int
	beat     float64
	duration float64
}

// drumPatterns maps a style label to one bar of hits. The pop pattern is the
// canonical one: kick on 1 and 3, snare on 2 and 4, closed hats on every beat.
var drumPatterns = map[string][]drumHit{
	"pop": {
		{DrumKick, 80, 0, 0.25},
		{DrumKick, 80, 2, 0.25},
		{DrumSnare, 70, 1, 0.25},
		{DrumSnare, 70, 3, 0.25},
		{DrumClosedHat, 50, 0, 0.125},
		{DrumClosedHat, 50, 1, 0.125},
		{DrumClosedHat, 50, 2, 0.125},
		{DrumClosedHat, 50, 3, 0.125},
	},
	"rock": {
		{DrumKick, 100, 0, 0.25},
		{DrumKick, 90, 2.5, 0.25},
		{DrumSnare, 95, 1, 0.25},
		{DrumSnare, 95, 3, 0.25},
		{DrumClosedHat, 70, 0, 0.125},
		{DrumClosedHat, 70, 0.5, 0.125},
		{DrumClosedHat, 70, 1, 0.125},
		{DrumClosedHat, 70, 1.5, 0.125},
		{DrumClosedHat, 70, 2, 0.125},
		{DrumClosedHat, 70, 2.5, 0.125},
		{DrumClosedHat, 70, 3, 0.125},
		{DrumClosedHat, 70, 3.5, 0.125},
	},
	"jazz": {
		// Swung ride with feathered kick.
		{DrumRide, 70, 0, 0.25},
		{DrumRide, 55, 0.67, 0.125},
		{DrumRide, 70, 1, 0.25},
		{DrumRide, 55, 1.67, 0.125},
		{DrumRide, 70, 2, 0.25},
		{DrumRide, 55, 2.67, 0.125},
		{DrumRide, 70, 3, 0.25},
		{DrumRide, 55, 3.67, 0.125},
		{DrumKick, 40, 0, 0.25},
		{DrumKick, 40, 2, 0.25},
		{DrumClosedHat, 60, 1, 0.125},
		{DrumClosedHat, 60, 3, 0.125},
	},
	"electronic": {
		// Four on the floor with offbeat open hats.
		{DrumKick, 100, 0, 0.25},
		{DrumKick, 100, 1, 0.25},
		{DrumKick, 100, 2, 0.25},
		{DrumKick, 100, 3, 0.25},
		{DrumSnare, 80, 1, 0.25},
		{DrumSnare, 80, 3, 0.25},
		{DrumOpenHat, 60, 0.5, 0.125},
		{DrumOpenHat, 60, 1.5, 0.125},
		{DrumOpenHat, 60, 2.5, 0.125},
		{DrumOpenHat, 60, 3.5, 0.125},
	},
	"classical": {
		// Sparse timpani-like pulse.
		{DrumKick, 60, 0, 0.5},
		{DrumKick, 50, 2, 0.5},
	},
}

// DrumPattern returns the one-bar pattern for a style, falling back to pop.
func DrumPattern(style string) []drumHit {
	if p, ok := drumPatterns[style]; ok {
		return p
	}
	return drumPatterns["pop"]
}
