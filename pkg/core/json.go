// pkg/core/json.go
package core

import (
	"encoding/json"
	"math"
)

// JSON has no representation for NaN or the infinities and encoding/json
// rejects them. Straight stations carry Radius +Inf and NO_DATA stations
// carry NaN heights, so the affected types marshal non-finite values as
// null, matching the NULL mapping the database backends use.

// nullableFloat marshals non-finite values as null.
type nullableFloat float64

func (f nullableFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// MarshalJSON renders a straight station's radius as null.
func (s Station) MarshalJSON() ([]byte, error) {
	type plain Station
	return json.Marshal(struct {
		plain
		Radius nullableFloat `json:"radiusM"`
	}{plain(s), nullableFloat(s.Radius)})
}

// UnmarshalJSON restores a null radius to +Inf.
func (s *Station) UnmarshalJSON(data []byte) error {
	type plain Station
	aux := struct {
		*plain
		Radius *float64 `json:"radiusM"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Radius == nil {
		s.Radius = math.Inf(1)
	} else {
		s.Radius = *aux.Radius
	}
	return nil
}

// MarshalJSON renders the NaN heights of a NO_DATA station as null.
func (r StationResult) MarshalJSON() ([]byte, error) {
	type plain StationResult
	return json.Marshal(struct {
		plain
		MaxHeight  nullableFloat `json:"maxHeightM"`
		MeanHeight nullableFloat `json:"meanHeightM"`
	}{plain(r), nullableFloat(r.MaxHeight), nullableFloat(r.MeanHeight)})
}

// UnmarshalJSON restores null heights to NaN.
func (r *StationResult) UnmarshalJSON(data []byte) error {
	type plain StationResult
	aux := struct {
		*plain
		MaxHeight  *float64 `json:"maxHeightM"`
		MeanHeight *float64 `json:"meanHeightM"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.MaxHeight = math.NaN()
	if aux.MaxHeight != nil {
		r.MaxHeight = *aux.MaxHeight
	}
	r.MeanHeight = math.NaN()
	if aux.MeanHeight != nil {
		r.MeanHeight = *aux.MeanHeight
	}
	return nil
}

// MarshalJSON renders MaxHeight as null when no station had valid samples.
func (s Summary) MarshalJSON() ([]byte, error) {
	type plain Summary
	return json.Marshal(struct {
		plain
		MaxHeight nullableFloat `json:"maxHeightM"`
	}{plain(s), nullableFloat(s.MaxHeight)})
}

// UnmarshalJSON restores a null MaxHeight to NaN.
func (s *Summary) UnmarshalJSON(data []byte) error {
	type plain Summary
	aux := struct {
		*plain
		MaxHeight *float64 `json:"maxHeightM"`
	}{plain: (*plain)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.MaxHeight == nil {
		s.MaxHeight = math.NaN()
	} else {
		s.MaxHeight = *aux.MaxHeight
	}
	return nil
}
