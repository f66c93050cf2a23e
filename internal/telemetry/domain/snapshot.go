package telemetry

// Snapshot is a point-in-time bundle of sensor and operational readings fed
// to a classifier. Fields are optional; it is created per call and never
// persisted itself.
type Snapshot map[string]any

// Number returns a numeric field. JSON decoding hands numbers over as
// float64; ints from in-process producers are accepted too.
func (s Snapshot) Number(key string) (float64, bool) {
	value, ok := s[key]
	if !ok {
		return 0, false
	}
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// Text returns a string field.
func (s Snapshot) Text(key string) (string, bool) {
	value, ok := s[key]
	if !ok {
		return "", false
	}
	text, ok := value.(string)
	return text, ok
}

// Field describes one position of a feature vector. A non-nil Encoding marks
// the field categorical: the reading's text is looked up in the map and
// unknown or absent values encode to zero.
type Field struct {
	Key      string
	Encoding map[string]float64
}

// FeatureSpec fixes the order and encoding of the model input vector.
type FeatureSpec struct {
	Fields []Field
}

// Vector maps a snapshot into a fixed-length ordered vector. Missing numeric
// fields default to zero; the names of absent fields are reported so callers
// can tell a sensor dropout apart from a genuine zero reading.
func (spec FeatureSpec) Vector(snap Snapshot) ([]float64, []string) {
	vector := make([]float64, len(spec.Fields))
	var missing []string
	for i, field := range spec.Fields {
		if field.Encoding != nil {
			text, ok := snap.Text(field.Key)
			if !ok {
				missing = append(missing, field.Key)
				continue
			}
			vector[i] = field.Encoding[text]
			continue
		}
		value, ok := snap.Number(field.Key)
		if !ok {
			missing = append(missing, field.Key)
			continue
		}
		vector[i] = value
	}
	return vector, missing
}

// DPFeatureSpec is the input layout of the DP advisor scoring model.
func DPFeatureSpec() FeatureSpec {
	return FeatureSpec{Fields: []Field{
		{Key: "windSpeed"},
		{Key: "currentSpeed"},
		{Key: "mode", Encoding: map[string]float64{"AUTO": 1}},
		{Key: "load"},
		{Key: "generatorLoad"},
		{Key: "positionError"},
	}}
}

// MaintenanceFeatureSpec is the input layout of the maintenance scoring model.
func MaintenanceFeatureSpec() FeatureSpec {
	return FeatureSpec{Fields: []Field{
		{Key: "runningHours"},
		{Key: "vibration"},
		{Key: "temperature"},
		{Key: "overdueOrders"},
	}}
}
