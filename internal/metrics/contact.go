package metrics

import (
	"fmt"
	"math"
	"strconv"

	"github.com/katalvlaran/lvlath/bfs"
	"github.com/katalvlaran/lvlath/core"

	"github.com/san-kum/aglogen/internal/geom"
	"github.com/san-kum/aglogen/internal/spatial"
)

// CoordinationStats summarizes the contact-adjacency structure of an
// aggregate.
type CoordinationStats struct {
	// PerParticle[i] is the number of particles in contact with particle i.
	PerParticle []int   `json:"per_particle"`
	Mean        float64 `json:"mean"`
	Std         float64 `json:"std"`
	// Components is the number of connected components of the contact
	// graph. A well-formed aggregate has exactly one.
	Components int `json:"components"`
}

// ContactGraph builds the undirected contact-adjacency graph. Particles i
// and j are adjacent when their center distance is at most
// (ri+rj)*(1+tolerance); the slack admits sintered contacts. Vertex IDs
// are the decimal particle indices.
func ContactGraph(spheres []geom.Sphere, tolerance float64) (*core.Graph, error) {
	g := core.NewGraph()

	maxRadius := 0.0
	for _, s := range spheres {
		if s.Radius > maxRadius {
			maxRadius = s.Radius
		}
	}
	grid := spatial.NewGrid(maxRadius * 4)
	for i, s := range spheres {
		if err := g.AddVertex(strconv.Itoa(i)); err != nil {
			return nil, fmt.Errorf("metrics: contact graph vertex: %w", err)
		}
		grid.Insert(i, s)
	}

	var buf []int
	for i, s := range spheres {
		buf = grid.Neighbors(s, buf[:0])
		for _, j := range buf {
			if j <= i {
				continue
			}
			o := spheres[j]
			contact := (s.Radius + o.Radius) * (1 + tolerance)
			if s.Center.DistanceTo(o.Center) <= contact {
				if _, err := g.AddEdge(strconv.Itoa(i), strconv.Itoa(j), 0); err != nil {
					return nil, fmt.Errorf("metrics: contact graph edge: %w", err)
				}
			}
		}
	}
	return g, nil
}

// Coordination computes per-particle contact counts and the component
// count of the contact graph.
func Coordination(spheres []geom.Sphere, tolerance float64) (CoordinationStats, error) {
	stats := CoordinationStats{PerParticle: make([]int, len(spheres))}
	if len(spheres) == 0 {
		return stats, nil
	}

	g, err := ContactGraph(spheres, tolerance)
	if err != nil {
		return stats, err
	}

	var sum float64
	for i := range spheres {
		_, _, undirected, err := g.Degree(strconv.Itoa(i))
		if err != nil {
			return stats, fmt.Errorf("metrics: coordination degree: %w", err)
		}
		stats.PerParticle[i] = undirected
		sum += float64(undirected)
	}
	stats.Mean = sum / float64(len(spheres))

	var sq float64
	for _, c := range stats.PerParticle {
		d := float64(c) - stats.Mean
		sq += d * d
	}
	if len(spheres) > 1 {
		stats.Std = math.Sqrt(sq / float64(len(spheres)))
	}

	stats.Components, err = componentCount(g, len(spheres))
	if err != nil {
		return stats, err
	}
	return stats, nil
}

// componentCount counts connected components by repeated BFS sweeps.
func componentCount(g *core.Graph, n int) (int, error) {
	visited := make(map[string]bool, n)
	components := 0
	for i := 0; i < n; i++ {
		id := strconv.Itoa(i)
		if visited[id] {
			continue
		}
		res, err := bfs.BFS(g, id)
		if err != nil {
			return 0, fmt.Errorf("metrics: component sweep: %w", err)
		}
		for _, v := range res.Order {
			visited[v] = true
		}
		components++
	}
	return components, nil
}
