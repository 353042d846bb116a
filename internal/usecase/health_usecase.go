package usecase

import (
	"context"
	"sort"
	"time"
)

// HealthProbe reports whether a dependency is reachable
type HealthProbe func(ctx context.Context) error

type HealthUsecase interface {
	// Check returns "ok", "down" or "disabled" per dependency and whether all
	// configured dependencies are up
	Check(ctx context.Context) (map[string]string, bool)
}

type healthUsecase struct {
	probes  map[string]HealthProbe
	timeout time.Duration
}

// NewHealthUsecase builds a health check. A nil probe marks the dependency disabled.
func NewHealthUsecase(probes map[string]HealthProbe) HealthUsecase {
	return &healthUsecase{probes: probes, timeout: 2 * time.Second}
}

func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	status := map[string]string{"status": "ok"}
	healthy := true

	names := make([]string, 0, len(u.probes))
	for name := range u.probes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		probe := u.probes[name]
		if probe == nil {
			status[name] = "disabled"
			continue
		}
		pctx, cancel := context.WithTimeout(ctx, u.timeout)
		err := probe(pctx)
		cancel()
		if err != nil {
			status[name] = "down"
			healthy = false
			continue
		}
		status[name] = "ok"
	}

	if !healthy {
		status["status"] = "degraded"
	}
	return status, healthy
}
