package boxcount

// MaxPrecision is the deepest subdivision supported: 21 bits per axis
// fill 63 bits of the interleaved code.
const MaxPrecision = 21

// spreadBits distributes the low 21 bits of v so consecutive input bits
// land three positions apart.
func spreadBits(v uint32) uint64 {
	x := uint64(v) & 0x1fffff
	x = (x | x<<32) & 0x1f00000000ffff
	x = (x | x<<16) & 0x1f0000ff0000ff
	x = (x | x<<8) & 0x100f00f00f00f00f
	x = (x | x<<4) & 0x10c30c30c30c30c3
	x = (x | x<<2) & 0x1249249249249249
	return x
}

// mortonEncode interleaves three cell coordinates into one z-order code.
// Truncating the code by 3k bits yields the cell at k levels coarser.
func mortonEncode(x, y, z uint32) uint64 {
	return spreadBits(x) | spreadBits(y)<<1 | spreadBits(z)<<2
}
