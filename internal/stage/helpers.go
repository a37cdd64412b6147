package stage

import (
	"encoding/json"
	"strings"

	"lessonforge/internal/services"
)

// DecodeArtifact decodes a JSON artifact column from an order into target.
// On failure it returns a services.ErrValidation suitable for stage Execute
// methods, naming the artifact so review messages stay actionable.
func DecodeArtifact(name, raw string, target any) error {
	if strings.TrimSpace(raw) == "" {
		return services.Wrap(
			services.ErrValidation, "stage", "decode "+name,
			name+" missing; rerun the stage that produces it", nil)
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return services.Wrap(
			services.ErrValidation, "stage", "decode "+name,
			name+" is corrupt; rerun the stage that produces it", err)
	}
	return nil
}

// EncodeArtifact marshals a stage artifact for persistence on the order.
func EncodeArtifact(name string, value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", services.Wrap(services.ErrValidation, "stage", "encode "+name, "could not serialize "+name, err)
	}
	return string(data), nil
}
