package restserver

// Error codes returned in API error responses
const (
	errCodeInvalidInput     = "INVALID_INPUT"
	errCodeInvalidIceSheet  = "INVALID_ICE_SHEET"
	errCodeInvalidParameter = "INVALID_PARAMETER"
	errCodeInternal         = "INTERNAL_ERROR"
)

// errorResponse is the standard error body for API requests
type errorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Path      string `json:"path"`
	Timestamp int64  `json:"timestamp"` // milliseconds since the Unix epoch
}

// healthResponse reports service liveness and aggregate request counters
type healthResponse struct {
	Status                    string `json:"status"`
	TotalCalculatorRequests   int64  `json:"totalCalculatorRequests"`
	CurrentConcurrentRequests int64  `json:"currentConcurrentRequests"`
	TotalDataServiceRequests  int64  `json:"totalDataServiceRequests"`
}

// apiInfoResponse describes the API surface for connectivity checks
type apiInfoResponse struct {
	Message   string   `json:"message"`
	Status    string   `json:"status"`
	Endpoints []string `json:"endpoints"`
}
