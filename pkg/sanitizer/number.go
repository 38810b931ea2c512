package sanitizer

const (
	MinCapacity = 0

	MaxCapacity = 100000
)

// NormalizeCapacity clamps a head or seat count into the accepted range.
func NormalizeCapacity(n int) int {
	if n < MinCapacity {
		return MinCapacity
	}
	if n > MaxCapacity {
		return MaxCapacity
	}
	return n
}
