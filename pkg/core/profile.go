// pkg/core/profile.go
package core

import "fmt"

// TractorLength is the overall tractor length in metres, shared by all
// supported convoy configurations.
const TractorLength = 18.0

// VehicleProfile holds the static geometry of one blade-transport convoy.
// All dimensions are in metres. Instances never mutate.
type VehicleProfile struct {
	BladeType      string  `json:"bladeType"`
	BladeLength    float64 `json:"bladeLengthM"`
	PivotToFront   float64 `json:"pivotToFrontM"`
	PivotToRear    float64 `json:"pivotToRearM"`
	FrontWheelbase float64 `json:"frontWheelbaseM"`
	RearWheelbase  float64 `json:"rearWheelbaseM"`
	ConvoyWidth    float64 `json:"convoyWidthM"`
}

// EffectiveLength is the distance from the pivot point to the swept
// extremity: blade length plus half the tractor.
func (p VehicleProfile) EffectiveLength() float64 {
	return p.BladeLength + TractorLength/2
}

// HalfWidth is the static convoy half-width.
func (p VehicleProfile) HalfWidth() float64 {
	return p.ConvoyWidth / 2
}

// profiles is the closed set of supported blade types.
var profiles = map[string]VehicleProfile{
	"N117": {BladeType: "N117", BladeLength: 60.0, PivotToFront: 1.6, PivotToRear: 19.1, FrontWheelbase: 3, RearWheelbase: 36.3, ConvoyWidth: 5},
	"N131": {BladeType: "N131", BladeLength: 65.0, PivotToFront: 1.6, PivotToRear: 17.9, FrontWheelbase: 3, RearWheelbase: 47.5, ConvoyWidth: 5},
	"N149": {BladeType: "N149", BladeLength: 75.0, PivotToFront: 1.6, PivotToRear: 23.2, FrontWheelbase: 3, RearWheelbase: 57.2, ConvoyWidth: 5},
	"E82":  {BladeType: "E82", BladeLength: 45.0, PivotToFront: 1.6, PivotToRear: 15.0, FrontWheelbase: 3, RearWheelbase: 30.0, ConvoyWidth: 5},
}

// ProfileByName returns the profile for a blade type.
func ProfileByName(name string) (VehicleProfile, error) {
	p, ok := profiles[name]
	if !ok {
		return VehicleProfile{}, &InvalidParameterError{
			Param:  "bladeType",
			Reason: fmt.Sprintf("unknown blade type %q", name),
		}
	}
	return p, nil
}

// ProfileNames lists the supported blade types in a stable order.
func ProfileNames() []string {
	return []string{"N117", "N131", "N149", "E82"}
}
