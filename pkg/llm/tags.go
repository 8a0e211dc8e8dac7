package llm

import "time"

// ListResponse is the /api/tags envelope.
type ListResponse struct {
	Models []ListModel `json:"models"`
}

// ListModel is one entry of /api/tags.
//
// The upstream model listing carries only an id and a creation time, so Size is
// always zero, Digest repeats the name and Details is always empty.
type ListModel struct {
	Name       string       `json:"name"`
	Model      string       `json:"model"`
	ModifiedAt string       `json:"modified_at"`
	Size       int64        `json:"size"`
	Digest     string       `json:"digest"`
	Details    ModelDetails `json:"details"`
}

// ModelDetails mirrors Ollama's details block. Every field is left unset.
type ModelDetails struct {
	ParentModel       string   `json:"parent_model,omitempty"`
	Format            string   `json:"format,omitempty"`
	Family            string   `json:"family,omitempty"`
	Families          []string `json:"families,omitempty"`
	ParameterSize     string   `json:"parameter_size,omitempty"`
	QuantizationLevel string   `json:"quantization_level,omitempty"`
}

// NewListModel maps an upstream model id and creation time to a tags entry.
func NewListModel(id string, created time.Time) ListModel {
	return ListModel{
		Name:       id,
		Model:      id,
		ModifiedAt: created.UTC().Format(time.RFC3339Nano),
		Size:       0,
		Digest:     id,
	}
}
