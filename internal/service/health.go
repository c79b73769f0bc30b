package service

import (
	"context"
)

// HealthService checks the agent API.
type HealthService struct {
	conn *Connector
}

// NewHealthService creates the health widget.
func NewHealthService(conn *Connector) *HealthService {
	return &HealthService{conn: conn}
}

// Check returns "OK" when GET /health answers 2xx, "DOWN: <reason>"
// otherwise. Only a missing base URL is returned as an error.
func (s *HealthService) Check(ctx context.Context) (string, error) {
	client, err := s.conn.Connect(ctx, "health")
	if err != nil {
		return "", err
	}
	if err := client.Health(ctx); err != nil {
		return "DOWN: " + err.Error(), nil
	}
	return "OK", nil
}
