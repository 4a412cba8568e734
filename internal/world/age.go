package world

// Age counts the cycles since an attribute was last confirmed. It never goes
// negative and saturates at the configured unknown sentinel.
type Age int

// Inc returns the age one cycle later.
func (a Age) Inc(unknown Age) Age { return a.Add(1, unknown) }

// Add returns the age n cycles later.
func (a Age) Add(n int, unknown Age) Age {
	if n <= 0 {
		return a
	}
	if int(a) >= int(unknown)-n {
		return unknown
	}
	return a + Age(n)
}

// Valid reports whether the age is strictly below threshold.
func (a Age) Valid(threshold int) bool { return int(a) < threshold }

// ageOf converts an elapsed cycle count into an Age, clamped to
// [0, unknown].
func ageOf(cycles int, unknown Age) Age {
	switch {
	case cycles < 0:
		return 0
	case cycles >= int(unknown):
		return unknown
	}
	return Age(cycles)
}
