package dto

import "time"

type Health struct {
	Status        int     `json:"status"`
	StatusMessage string  `json:"status_message"`
	Timestamp     string  `json:"timestamp"`
	IPAddress     string  `json:"ip_address"`
	Echo          *string `json:"echo"`
	PathEcho      *string `json:"path_echo"`
}

// NewHealth builds an OK health report stamped with now in UTC.
func NewHealth(now time.Time, ip string, echo, pathEcho *string) Health {
	return Health{
		Status:        200,
		StatusMessage: "OK",
		Timestamp:     now.UTC().Format(time.RFC3339Nano),
		IPAddress:     ip,
		Echo:          echo,
		PathEcho:      pathEcho,
	}
}
