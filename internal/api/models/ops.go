package models

// Health is the liveness and readiness payload.
type Health struct {
	Status  HealthStatus   `json:"status"`
	Time    Timestamp      `json:"time"`
	Details map[string]any `json:"details,omitempty"`
}

// SystemStatus reports the health of every upstream provider.
type SystemStatus struct {
	Status    HealthStatus     `json:"status"`
	Time      Timestamp        `json:"time"`
	Providers []ProviderStatus `json:"providers"`
}

// ProviderStatus is the circuit and outcome history of one provider.
type ProviderStatus struct {
	Provider            string       `json:"provider"`
	Status              HealthStatus `json:"status"`
	CircuitState        string       `json:"circuit_state"`
	ConsecutiveFailures int          `json:"consecutive_failures"`
	LastSuccessAt       *Timestamp   `json:"last_success_at,omitempty"`
	LastFailureAt       *Timestamp   `json:"last_failure_at,omitempty"`
	Message             *string      `json:"message,omitempty"`
}
