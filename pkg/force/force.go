package force

import "math/rand/v2"

// Force is one contribution to the simulation step.
//
// Initialize is called whenever the node or link set changes, giving the
// force a chance to precompute per-node or per-link state. Apply reads node
// positions and accumulates into node velocities (or, for positional forces
// such as [Center], adjusts positions directly), scaled by alpha.
type Force interface {
	Initialize(nodes []Node, links []Link, rng *rand.Rand)
	Apply(nodes []Node, links []Link, alpha float64)
}

// ViewportAware is implemented by forces that depend on the viewport size.
type ViewportAware interface {
	SetViewport(v Viewport)
}

// DefaultForces returns the standard force collection for cfg, in the order
// they are applied: link, many-body, center, collide.
func DefaultForces(cfg Config) []Force {
	return []Force{
		&LinkForce{Distance: cfg.LinkDistance, Iterations: cfg.LinkIterations},
		&ManyBody{
			Strength:    cfg.Repulsion,
			Theta:       cfg.Theta,
			DistanceMin: cfg.DistanceMin,
			DistanceMax: cfg.DistanceMax,
		},
		&Center{Strength: cfg.CenterStrength},
		&Collide{Radius: cfg.CollisionRadius, Strength: cfg.CollisionStrength},
	}
}
