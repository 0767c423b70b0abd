package inspector

import (
	"fmt"
	"math"

	"github.com/seen-one/Route-Crafter/pkg/util"
)

// exact matching is O(2^k * k), beyond this the greedy + swap solver takes over
const exactMatchingLimit = 20

// MinWeightPerfectMatching pair every index 0..k-1 minimizing the summed pair
// cost. cost must be a complete symmetric k x k matrix. Up to
// exactMatchingLimit nodes the pairing is optimal (subset dp), above it a
// nearest pair greedy refined by pairwise swaps gives a local optimum.
// Both solvers are deterministic: the lowest free index is always paired
// first and equal cost candidates keep the first partner found.
func MinWeightPerfectMatching(cost [][]float64) ([][2]int, float64, error) {
	k := len(cost)
	if k == 0 {
		return [][2]int{}, 0, nil
	}
	if k%2 == 1 {
		return nil, 0, fmt.Errorf("%w: odd node count %d", ErrNoPerfectMatching, k)
	}

	if k <= exactMatchingLimit {
		return matchExact(cost)
	}
	return matchGreedy(cost)
}

// matchExact dp over subsets of already paired indices.
func matchExact(cost [][]float64) ([][2]int, float64, error) {
	k := len(cost)
	full := (1 << k) - 1

	dp := make([]float64, full+1)
	choice := make([][2]int, full+1)
	for mask := 1; mask <= full; mask++ {
		dp[mask] = math.Inf(1)
		choice[mask] = [2]int{-1, -1}
	}

	for mask := 0; mask < full; mask++ {
		if math.IsInf(dp[mask], 1) {
			continue
		}
		// always pair the lowest free index, that alone covers every pairing
		i := 0
		for ; i < k; i++ {
			if mask&(1<<i) == 0 {
				break
			}
		}
		for j := i + 1; j < k; j++ {
			if mask&(1<<j) != 0 {
				continue
			}
			next := mask | 1<<i | 1<<j
			cand := dp[mask] + cost[i][j]
			if cand < dp[next] {
				dp[next] = cand
				choice[next] = [2]int{i, j}
			}
		}
	}

	if math.IsInf(dp[full], 1) {
		return nil, 0, fmt.Errorf("%w: cost matrix has unreachable pairs", ErrNoPerfectMatching)
	}

	pairs := make([][2]int, 0, k/2)
	for mask := full; mask != 0; {
		p := choice[mask]
		pairs = append(pairs, p)
		mask &^= 1<<p[0] | 1<<p[1]
	}
	// reconstruction walks highest mask first, flip to ascending first index
	util.ReverseG(pairs)
	return pairs, dp[full], nil
}

// matchGreedy nearest pair greedy, then keep applying the best pairwise swap
// until no swap improves the total.
func matchGreedy(cost [][]float64) ([][2]int, float64, error) {
	k := len(cost)
	matched := make([]bool, k)
	pairs := make([][2]int, 0, k/2)

	for i := 0; i < k; i++ {
		if matched[i] {
			continue
		}
		best := -1
		for j := i + 1; j < k; j++ {
			if matched[j] {
				continue
			}
			if best == -1 || cost[i][j] < cost[i][best] {
				best = j
			}
		}
		if best == -1 || math.IsInf(cost[i][best], 1) {
			return nil, 0, fmt.Errorf("%w: index %d has no reachable partner", ErrNoPerfectMatching, i)
		}
		matched[i], matched[best] = true, true
		pairs = append(pairs, [2]int{i, best})
	}

	improved := true
	for improved {
		improved = false
		for a := 0; a < len(pairs); a++ {
			for b := a + 1; b < len(pairs); b++ {
				i, j := pairs[a][0], pairs[a][1]
				p, q := pairs[b][0], pairs[b][1]
				current := cost[i][j] + cost[p][q]
				if cost[i][p]+cost[j][q] < current-1e-9 {
					pairs[a], pairs[b] = [2]int{i, p}, [2]int{j, q}
					improved = true
				} else if cost[i][q]+cost[j][p] < current-1e-9 {
					pairs[a], pairs[b] = [2]int{i, q}, [2]int{j, p}
					improved = true
				}
			}
		}
	}

	total := 0.0
	for i := range pairs {
		if pairs[i][0] > pairs[i][1] {
			pairs[i][0], pairs[i][1] = pairs[i][1], pairs[i][0]
		}
		total += cost[pairs[i][0]][pairs[i][1]]
	}
	if math.IsInf(total, 1) {
		return nil, 0, fmt.Errorf("%w: cost matrix has unreachable pairs", ErrNoPerfectMatching)
	}
	return pairs, total, nil
}
