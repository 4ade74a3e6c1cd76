package testbench

import "github.com/sarchlab/datamover/memory"

// CompareWords counts the positions where actual and expected differ. Words
// missing from the shorter slice count as mismatches.
func CompareWords(actual, expected []uint32) int {
	errors := 0

	n := min(len(actual), len(expected))
	for i := 0; i < n; i++ {
		if actual[i] != expected[i] {
			errors++
		}
	}

	return errors + max(len(actual), len(expected)) - n
}

// CompareBuffers compares count words at two addresses of mem.
func CompareBuffers(
	mem memory.Accessor,
	actual, expected uint64,
	count int,
) (int, error) {
	a, err := memory.ReadWords(mem, actual, count)
	if err != nil {
		return 0, err
	}

	e, err := memory.ReadWords(mem, expected, count)
	if err != nil {
		return 0, err
	}

	return CompareWords(a, e), nil
}
