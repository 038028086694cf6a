// Package agg builds particle aggregates. It implements stochastic
// growth (diffusion-limited and ballistic deposition), cluster-cluster
// merging, scaling-law guided placement, and deterministic limiting
// geometries with known fractal dimension.
//
// Every run is driven by a private random stream seeded from its
// parameters, so equal inputs reproduce aggregates bit for bit. Results
// carry the particles in deposition order, the radius-of-gyration growth
// trace, and a derived morphology summary.
package agg
