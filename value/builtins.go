package value

// Builtin source values visible in the symbolic world. Their runtime
// counterparts are the pre-registered worker variables keyed "_z",
// "i" and "j" (see package fabric). A third axis ("K") existed in the
// value model this package is ported from but has no meaning on a
// strictly 2D grid, so it is not reproduced here.
var (
	ZERO = NewSource(nil)
	I    = NewSource(nil)
	J    = NewSource(nil)
)
