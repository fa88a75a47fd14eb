package board

// PseudoRand is a xorshift64* generator used to pick moves in random
// playouts reproducibly from a seed.
type PseudoRand struct {
	s uint64
}

func NewPseudoRand(seed uint64) *PseudoRand {
	r := &PseudoRand{}
	r.Seed(seed)
	return r
}

// Seed resets the generator. A zero state would be absorbing, so it is remapped.
func (r *PseudoRand) Seed(seed uint64) {
	if seed == 0 {
		seed = 0x9E3779B97F4A7C15
	}
	r.s = seed
}

func (r *PseudoRand) Uint64() uint64 {
	r.s ^= r.s >> 12
	r.s ^= r.s << 25
	r.s ^= r.s >> 27
	return r.s * 2685821657736338717
}

// Intn returns a value in [0, n). n must be positive.
func (r *PseudoRand) Intn(n int) int {
	return int(r.Uint64() % uint64(n))
}

// RandomMove picks one of the legal moves, or reports false when there is none.
func (b *Board) RandomMove(r *PseudoRand) (Move, bool) {
	mvs := b.LegalMoves()
	if len(mvs) == 0 {
		return Move{}, false
	}
	return mvs[r.Intn(len(mvs))], true
}
