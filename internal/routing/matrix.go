package routing

import "logiroute/internal/geo"

// DistanceMatrix returns pairwise great-circle distances in integer meters.
// The solver works over integers; the diagonal is always zero and the matrix
// is symmetric.
func DistanceMatrix(locs []Location) [][]int {
	n := len(locs)
	m := make([][]int, n)
	for i := range m {
		m[i] = make([]int, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := int(geo.HaversineMeters(locs[i].Latitude, locs[i].Longitude, locs[j].Latitude, locs[j].Longitude))
			m[i][j] = d
			m[j][i] = d
		}
	}
	return m
}

// TimeMatrix returns pairwise travel times in integer minutes, including the
// service time of the destination. Not symmetric once service times differ.
func TimeMatrix(dist [][]int, locs []Location, speedKmh float64) [][]int {
	n := len(locs)
	m := make([][]int, n)
	speedMPerMin := speedKmh * 1000 / 60
	for i := range m {
		m[i] = make([]int, n)
		for j := range m[i] {
			if i == j {
				continue
			}
			travel := float64(dist[i][j]) / speedMPerMin
			m[i][j] = int(travel) + locs[j].ServiceTime
		}
	}
	return m
}
