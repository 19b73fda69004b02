package world

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// mod returns a modulo b in [0, b).
func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
