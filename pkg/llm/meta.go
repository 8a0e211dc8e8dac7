package llm

// APIVersion is the version reported by /api/version.
const APIVersion = "1.0"

// CapabilityCompletion is the single capability advertised by /api/show.
const CapabilityCompletion = "completion"

// VersionResponse is the /api/version body.
type VersionResponse struct {
	Version string `json:"version"`
}

// ShowResponse is the /api/show body.
type ShowResponse struct {
	Capabilities []string `json:"capabilities"`
}
