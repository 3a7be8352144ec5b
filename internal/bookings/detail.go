package bookings

import "encoding/json"

// detailProjection maps the caller-supplied extra payload into the
// booking's detail and comment fields for one therapy type.
type detailProjection func(Extra) (detail, comment string)

var detailProjections = map[string]detailProjection{
	TherapyQuiromasaje: func(e Extra) (string, string) {
		return e.MassageKind, e.Comment
	},
	TherapyOsteopatia: func(e Extra) (string, string) {
		return e.TargetArea, e.OsteoComment
	},
	TherapyEntrenamiento: func(e Extra) (string, string) {
		return encodeGoals(e.Goals), ""
	},
}

// projectDetail resolves the detail/comment pair for any therapy type.
// Unrecognized types fall through to the generic passthrough projection,
// so the mapping is total: no input can make it fail.
func projectDetail(therapyType string, extra Extra) (detail, comment string) {
	if project, ok := detailProjections[therapyType]; ok {
		return project(extra)
	}
	return extra.MassageKind, extra.Comment
}

// encodeGoals normalizes the training goals object to compact JSON text.
// Missing or malformed input encodes as an empty object.
func encodeGoals(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	var goals map[string]any
	if err := json.Unmarshal(raw, &goals); err != nil {
		return "{}"
	}
	encoded, err := json.Marshal(goals)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}
