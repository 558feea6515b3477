package pipeline

import (
	"sort"

	"github.com/jengzang/journeys-backend-go/internal/models"
	"github.com/jengzang/journeys-backend-go/internal/spatial"
)

// Cluster is a transient group of samples forming one candidate stay.
// It exists only inside the pipeline; VisitBuilder turns it into a PlaceVisit.
type Cluster struct {
	Samples   []models.LocationSample // ordered by timestamp
	Centroid  spatial.Point
	StartTime int64
	EndTime   int64
}

// Duration returns the cluster's internal duration in seconds.
func (c Cluster) Duration() int64 {
	return c.EndTime - c.StartTime
}

// ClusterSamples groups time-sorted samples into candidate stationary clusters
// using DBSCAN with a spatial and a temporal constraint. Two samples are
// neighbors when their haversine distance is within epsilon inflated by their
// reported accuracies and their timestamps differ by at most the time window.
// Samples with fewer than MinPoints neighbors are noise. Clusters shorter than
// MinStayDuration are dropped.
func ClusterSamples(samples []models.LocationSample, cfg Config) []Cluster {
	if len(samples) == 0 {
		return nil
	}

	points := make([]spatial.Point, len(samples))
	maxAccuracy := 0.0
	for i, s := range samples {
		points[i] = spatial.Point{Lat: s.Latitude, Lon: s.Longitude}
		if s.Accuracy > maxAccuracy {
			maxAccuracy = s.Accuracy
		}
	}

	// The per-pair threshold is epsilon + mean of the two accuracies, so the
	// widest possible query radius is epsilon + maxAccuracy.
	index := spatial.NewGridIndex(points, cfg.Epsilon+maxAccuracy)

	neighborsOf := func(i int) []int {
		s := samples[i]
		candidates := index.Within(points[i], cfg.Epsilon+(s.Accuracy+maxAccuracy)/2)

		var neighbors []int
		window := int64(cfg.TimeWindow.Seconds())
		for _, j := range candidates {
			if j == i {
				continue
			}
			o := samples[j]
			dt := s.Timestamp - o.Timestamp
			if dt < 0 {
				dt = -dt
			}
			if dt > window {
				continue
			}
			threshold := cfg.Epsilon + (s.Accuracy+o.Accuracy)/2
			if spatial.HaversineDistance(s.Latitude, s.Longitude, o.Latitude, o.Longitude) <= threshold {
				neighbors = append(neighbors, j)
			}
		}
		return neighbors
	}

	visited := make([]bool, len(samples))
	clustered := make([]bool, len(samples))
	var clusters []Cluster

	for i := range samples {
		if visited[i] {
			continue
		}
		visited[i] = true

		neighbors := neighborsOf(i)
		if len(neighbors) < cfg.MinPoints {
			continue // noise, not an error
		}

		members := expandCluster(i, neighbors, neighborsOf, visited, clustered, cfg.MinPoints)
		cluster := buildCluster(samples, members)
		if cluster.Duration() >= int64(cfg.MinStayDuration.Seconds()) {
			clusters = append(clusters, cluster)
		}
	}

	return clusters
}

// expandCluster grows a cluster from core point seed via breadth-first search.
// Neighbors of core points are enqueued; border points terminate expansion.
func expandCluster(seed int, seedNeighbors []int, neighborsOf func(int) []int, visited, clustered []bool, minPoints int) []int {
	members := []int{seed}
	clustered[seed] = true

	queue := append([]int(nil), seedNeighbors...)
	for len(queue) > 0 {
		j := queue[0]
		queue = queue[1:]

		if !clustered[j] {
			members = append(members, j)
			clustered[j] = true
		}

		if visited[j] {
			continue
		}
		visited[j] = true

		neighbors := neighborsOf(j)
		if len(neighbors) >= minPoints {
			queue = append(queue, neighbors...)
		}
	}

	return members
}

func buildCluster(samples []models.LocationSample, members []int) Cluster {
	sort.Ints(members)

	c := Cluster{Samples: make([]models.LocationSample, 0, len(members))}
	points := make([]spatial.Point, 0, len(members))
	for _, idx := range members {
		s := samples[idx]
		c.Samples = append(c.Samples, s)
		points = append(points, spatial.Point{Lat: s.Latitude, Lon: s.Longitude})
	}

	// Input is time-sorted, so members sorted by index are sorted by time.
	c.StartTime = c.Samples[0].Timestamp
	c.EndTime = c.Samples[len(c.Samples)-1].Timestamp
	c.Centroid = spatial.Centroid(points)
	return c
}
