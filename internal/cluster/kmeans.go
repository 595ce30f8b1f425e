package cluster

import (
	"math"
	"math/rand"
)

const (
	// randomSeed fixes restart initialization so training is reproducible.
	randomSeed = 42
	// maxIterations bounds Lloyd refinement per restart.
	maxIterations = 300
	// restarts is the number of random initializations; the one with the
	// lowest within-cluster sum of squares wins.
	restarts = 10
)

// kmeans partitions vectors into k clusters with Lloyd's algorithm and
// returns the winning centroids and per-vector labels.
func kmeans(vectors [][]float64, k int) ([][]float64, []int) {
	rng := rand.New(rand.NewSource(randomSeed))

	bestInertia := math.Inf(1)
	var bestCentroids [][]float64
	var bestLabels []int

	for r := 0; r < restarts; r++ {
		centroids := initCentroids(vectors, k, rng)
		labels := make([]int, len(vectors))

		for iter := 0; iter < maxIterations; iter++ {
			changed := false
			for i, vec := range vectors {
				label := nearestCentroid(vec, centroids)
				if label != labels[i] {
					labels[i] = label
					changed = true
				}
			}

			recomputeCentroids(vectors, labels, centroids, rng)

			if !changed && iter > 0 {
				break
			}
		}

		if inertia := totalInertia(vectors, labels, centroids); inertia < bestInertia {
			bestInertia = inertia
			bestCentroids = centroids
			bestLabels = labels
		}
	}

	return bestCentroids, bestLabels
}

// initCentroids picks k distinct vectors as the starting centroids.
func initCentroids(vectors [][]float64, k int, rng *rand.Rand) [][]float64 {
	perm := rng.Perm(len(vectors))
	centroids := make([][]float64, k)
	for i := 0; i < k; i++ {
		centroids[i] = append([]float64(nil), vectors[perm[i]]...)
	}
	return centroids
}

// nearestCentroid returns the index of the closest centroid by Euclidean
// distance, the lowest index winning ties.
func nearestCentroid(vec []float64, centroids [][]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, c := range centroids {
		if d := squaredDistance(vec, c); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

// recomputeCentroids replaces each centroid with the mean of its members. A
// cluster that lost all members is reseeded from a random vector.
func recomputeCentroids(vectors [][]float64, labels []int, centroids [][]float64, rng *rand.Rand) {
	dim := len(centroids[0])
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for i := range sums {
		sums[i] = make([]float64, dim)
	}

	for i, vec := range vectors {
		label := labels[i]
		counts[label]++
		for d, v := range vec {
			sums[label][d] += v
		}
	}

	for i := range centroids {
		if counts[i] == 0 {
			copy(centroids[i], vectors[rng.Intn(len(vectors))])
			continue
		}
		for d := range centroids[i] {
			centroids[i][d] = sums[i][d] / float64(counts[i])
		}
	}
}

func totalInertia(vectors [][]float64, labels []int, centroids [][]float64) float64 {
	var total float64
	for i, vec := range vectors {
		total += squaredDistance(vec, centroids[labels[i]])
	}
	return total
}

func squaredDistance(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
