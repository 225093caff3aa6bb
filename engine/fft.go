package engine

import (
	"math"
	"math/cmplx"
)

// fft is an in-place radix-2 complex FFT of a fixed power-of-two size.
type fft struct {
	n       int
	bitPerm []int        // bit-reversal permutation table
	twiddle []complex128 // exp(-2*pi*i*k/n) for k < n/2
}

func newFFT(n int) *fft {
	f := &fft{n: n, bitPerm: make([]int, n), twiddle: make([]complex128, n/2)}
	for i := range n {
		f.bitPerm[i] = i
	}
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit
		if i < j {
			f.bitPerm[i], f.bitPerm[j] = f.bitPerm[j], f.bitPerm[i]
		}
	}
	for k := range f.twiddle {
		f.twiddle[k] = cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
	}
	return f
}

// transform computes the forward transform of x in place, or the inverse
// transform (including the 1/n scaling) if inverse is true.
func (f *fft) transform(x []complex128, inverse bool) {
	n := f.n
	for i, j := range f.bitPerm {
		if i < j {
			x[i], x[j] = x[j], x[i]
		}
	}
	for size := 2; size <= n; size <<= 1 {
		half := size / 2
		stride := n / size
		for i := 0; i < n; i += size {
			for j := 0; j < half; j++ {
				w := f.twiddle[j*stride]
				if inverse {
					w = cmplx.Conj(w)
				}
				u := x[i+j]
				v := x[i+j+half] * w
				x[i+j] = u + v
				x[i+j+half] = u - v
			}
		}
	}
	if inverse {
		s := complex(1/float64(n), 0)
		for i := range x {
			x[i] *= s
		}
	}
}
