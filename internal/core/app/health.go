package app

import (
	"context"
	"fmt"
	"time"
)

type HealthStatus struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

type HealthService struct {
	app *App
}

func NewHealthService(app *App) *HealthService {
	return &HealthService{app: app}
}

func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}
	if err := ctx.Err(); err != nil {
		status.Status = "down"
		status.Components["context"] = err.Error()
		return status
	}

	cfg, eng := s.app.current()
	if eng == nil || eng.parser == nil {
		status.Status = "degraded"
		status.Components["parser"] = "missing"
	} else {
		status.Components["parser"] = fmt.Sprintf("ok (%v)", eng.parser.SupportedExtensions())
		status.Components["rules"] = fmt.Sprintf("ok (%d enabled)", len(eng.rules))
	}

	if s.app.store != nil {
		if _, err := s.app.store.LoadRuns(1); err != nil {
			status.Status = "degraded"
			status.Components["state"] = "error: " + err.Error()
		} else {
			status.Components["state"] = "ok"
		}
	} else if cfg != nil && cfg.State.Enabled {
		status.Status = "degraded"
		status.Components["state"] = "missing but enabled in config"
	}

	s.app.watchMu.Lock()
	watching := s.app.watcher != nil
	s.app.watchMu.Unlock()
	if watching {
		status.Components["watcher"] = "running"
	}

	return status
}
