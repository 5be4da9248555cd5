package models

// Health represents the health status of the service.
type Health struct {
	Status  HealthStatus           `json:"status"`
	Time    Timestamp              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// SystemStatus represents the overall system status.
type SystemStatus struct {
	Status HealthStatus  `json:"status"`
	Time   Timestamp     `json:"time"`
	Stores []StoreStatus `json:"stores"`
}

// StoreStatus is the circuit state of one guarded backing store.
type StoreStatus struct {
	Name                string       `json:"name"`
	Status              HealthStatus `json:"status"`
	ConsecutiveFailures uint32       `json:"consecutiveFailures"`
	LastSuccessAt       *Timestamp   `json:"lastSuccessAt,omitempty"`
	LastFailureAt       *Timestamp   `json:"lastFailureAt,omitempty"`
	Message             *string      `json:"message,omitempty"`
}
