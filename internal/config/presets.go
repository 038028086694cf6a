package config

import "github.com/san-kum/aglogen/internal/agg"

// preset builds a full config around one simulation parameter set.
func preset(mutate func(*agg.Params)) *Config {
	cfg := DefaultConfig()
	mutate(&cfg.Simulation)
	return cfg
}

var Presets = map[agg.Algorithm]map[string]*Config{
	agg.DLA: {
		"standard": preset(func(p *agg.Params) {
			*p = agg.DefaultParams(agg.DLA)
		}),
		"sticky": preset(func(p *agg.Params) {
			*p = agg.DefaultParams(agg.DLA)
			p.StickingProbability = 0.3
		}),
		"sintered": preset(func(p *agg.Params) {
			*p = agg.DefaultParams(agg.DLA)
			p.Sintering = agg.FixedSintering(0.9)
		}),
		"polydisperse": preset(func(p *agg.Params) {
			*p = agg.DefaultParams(agg.DLA)
			p.RadiusMin = 0.7
			p.RadiusMax = 1.3
		}),
	},
	agg.CCA: {
		"standard": preset(func(p *agg.Params) {
			*p = agg.DefaultParams(agg.CCA)
		}),
		"uniform": preset(func(p *agg.Params) {
			*p = agg.DefaultParams(agg.CCA)
			p.Selection = agg.SelectUniform
		}),
	},
	agg.Ballistic: {
		"standard": preset(func(p *agg.Params) {
			*p = agg.DefaultParams(agg.Ballistic)
		}),
		"porous": preset(func(p *agg.Params) {
			*p = agg.DefaultParams(agg.Ballistic)
			p.StickingProbability = 0.5
		}),
	},
	agg.BallisticCC: {
		"standard": preset(func(p *agg.Params) {
			*p = agg.DefaultParams(agg.BallisticCC)
		}),
	},
	agg.Tunable: {
		"dlca": preset(func(p *agg.Params) {
			*p = agg.DefaultParams(agg.Tunable)
			p.TargetDf = 1.78
			p.TargetKf = 1.3
		}),
		"soot": preset(func(p *agg.Params) {
			*p = agg.DefaultParams(agg.Tunable)
			p.TargetDf = 1.85
			p.TargetKf = 1.4
		}),
		"compact": preset(func(p *agg.Params) {
			*p = agg.DefaultParams(agg.Tunable)
			p.TargetDf = 2.4
			p.TargetKf = 1.1
		}),
	},
	agg.Limiting: {
		"chain": preset(func(p *agg.Params) {
			*p = agg.DefaultParams(agg.Limiting)
			p.Geometry = agg.GeomChain
		}),
		"plane": preset(func(p *agg.Params) {
			*p = agg.DefaultParams(agg.Limiting)
			p.Geometry = agg.GeomPlane
			p.N = 61
		}),
		"cuboctahedron": preset(func(p *agg.Params) {
			*p = agg.DefaultParams(agg.Limiting)
			p.Geometry = agg.GeomCuboctahedron
			p.N = 147
		}),
	},
}

func GetPreset(alg agg.Algorithm, name string) *Config {
	algPresets, ok := Presets[alg]
	if !ok {
		return nil
	}
	cfg, ok := algPresets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(alg agg.Algorithm) []string {
	algPresets, ok := Presets[alg]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(algPresets))
	for name := range algPresets {
		names = append(names, name)
	}
	return names
}
