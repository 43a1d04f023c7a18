package dtos

type HealthCheckResponse struct {
	Status     string `json:"status"`
	DataSource string `json:"data_source"`
}
