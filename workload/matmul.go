package workload

import "github.com/sarchlab/cachesim/simulation"

// GenerateMatMul returns the accesses of multiplying two n*n matrices of
// words, C = A * B, with A, B and C stored row-major one after another from
// address 0. A holds 1 to n*n and B is the identity. The matrices are
// written first, then every C[i][j] is accumulated from the reads of row i
// of A and column j of B, and finally C is read back. With withExpected the
// reads carry the value they should return.
func GenerateMatMul(n int, withExpected bool) []simulation.Request {
	size := uint32(n * n * 4)
	baseA, baseB, baseC := uint32(0), size, 2*size

	addr := func(base uint32, i, j int) uint32 {
		return base + uint32(i*n+j)*4
	}

	a := func(i, j int) uint32 { return uint32(n*i + j + 1) }
	b := func(i, j int) uint32 {
		if i == j {
			return 1
		}

		return 0
	}

	var reqs []simulation.Request

	write := func(address, data uint32) {
		reqs = append(reqs, simulation.Request{
			Address: address, Data: data, IsWrite: true,
		})
	}

	read := func(address, expected uint32) {
		req := simulation.Request{Address: address}
		if withExpected {
			req.Expected = expected
			req.HasExpected = true
		}

		reqs = append(reqs, req)
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			write(addr(baseA, i, j), a(i, j))
			write(addr(baseB, i, j), b(i, j))
			write(addr(baseC, i, j), 0)
		}
	}

	c := make([]uint32, n*n)

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			for k := 0; k < n; k++ {
				read(addr(baseA, i, k), a(i, k))
				read(addr(baseB, k, j), b(k, j))
				c[i*n+j] += a(i, k) * b(k, j)
			}

			write(addr(baseC, i, j), c[i*n+j])
		}
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			read(addr(baseC, i, j), c[i*n+j])
		}
	}

	return reqs
}
