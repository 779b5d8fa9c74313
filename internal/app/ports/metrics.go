package ports

// RequestMetrics receives one record per automation request.
type RequestMetrics interface {
	RecordRequest(endpoint string, failed bool)
	RecordNoGame()
}
