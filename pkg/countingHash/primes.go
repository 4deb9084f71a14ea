package countingHash

import "fmt"

// PrimesBelow returns the n largest primes <= x, largest first.
func PrimesBelow(x uint64, n int) ([]uint64, error) {
	var primes = make([]uint64, 0, n)
	for y := x; y > 1 && len(primes) < n; y-- {
		if isPrime(y) {
			primes = append(primes, y)
		}
	}
	if len(primes) < n {
		return nil, fmt.Errorf("only %d primes below %d, need %d", len(primes), x, n)
	}
	return primes, nil
}

func isPrime(x uint64) bool {
	if x < 2 {
		return false
	}
	if x%2 == 0 {
		return x == 2
	}
	for i := uint64(3); i*i <= x; i += 2 {
		if x%i == 0 {
			return false
		}
	}
	return true
}
