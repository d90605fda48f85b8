// Package costing models the engine's travel-mode cost profiles as a closed union.
//
// Every variant carries its own option record. All option fields are pointers so
// that an unset option is omitted from the wire payload and the engine applies its
// own default, while an explicit zero or false is still sent.
package costing

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Tag is the wire name of a costing variant.
type Tag string

// Known costing tags.
const (
	TagAuto         Tag = "auto"
	TagBicycle      Tag = "bicycle"
	TagBus          Tag = "bus"
	TagBikeshare    Tag = "bikeshare"
	TagTruck        Tag = "truck"
	TagTaxi         Tag = "taxi"
	TagMotorScooter Tag = "motor_scooter"
	TagMotorcycle   Tag = "motorcycle"
	TagMultimodal   Tag = "multimodal"
	TagPedestrian   Tag = "pedestrian"
)

// Costing is one travel-mode profile. The set of implementations is closed;
// Unrecognized stands in for tags this package does not know.
type Costing interface {
	Tag() Tag
	// options returns the value serialized under costing_options.
	options() any
}

// Auto is standard automobile routing.
type Auto struct{ Options AutoOptions }

// Bus is automobile routing restricted to bus-accessible roads.
type Bus struct{ Options AutoOptions }

// Taxi is automobile routing that may use taxi-only lanes.
type Taxi struct{ Options AutoOptions }

// Truck is routing for heavy goods vehicles.
type Truck struct{ Options TruckOptions }

// MotorScooter is routing for mopeds and scooters.
type MotorScooter struct{ Options MotorScooterOptions }

// Motorcycle is routing for motorcycles.
type Motorcycle struct{ Options MotorcycleOptions }

// Bicycle is routing for bicycles.
type Bicycle struct{ Options BicycleOptions }

// Bikeshare combines walking with rented bicycles.
type Bikeshare struct{ Options BicycleOptions }

// Pedestrian is walking.
type Pedestrian struct{ Options PedestrianOptions }

// Multimodal combines walking with public transit. Either part may be left nil
// to keep the engine's defaults.
type Multimodal struct {
	Pedestrian *PedestrianOptions `json:"pedestrian,omitempty"`
	Transit    *TransitOptions    `json:"transit,omitempty"`
}

// Unrecognized preserves a costing tag this package does not model, with its raw options.
type Unrecognized struct {
	Name    string
	Options json.RawMessage
}

func (Auto) Tag() Tag         { return TagAuto }
func (Bus) Tag() Tag          { return TagBus }
func (Taxi) Tag() Tag         { return TagTaxi }
func (Truck) Tag() Tag        { return TagTruck }
func (MotorScooter) Tag() Tag { return TagMotorScooter }
func (Motorcycle) Tag() Tag   { return TagMotorcycle }
func (Bicycle) Tag() Tag      { return TagBicycle }
func (Bikeshare) Tag() Tag    { return TagBikeshare }
func (Pedestrian) Tag() Tag   { return TagPedestrian }
func (Multimodal) Tag() Tag   { return TagMultimodal }
func (u Unrecognized) Tag() Tag {
	return Tag(u.Name)
}

func (c Auto) options() any         { return c.Options }
func (c Bus) options() any          { return c.Options }
func (c Taxi) options() any         { return c.Options }
func (c Truck) options() any        { return c.Options }
func (c MotorScooter) options() any { return c.Options }
func (c Motorcycle) options() any   { return c.Options }
func (c Bicycle) options() any      { return c.Options }
func (c Bikeshare) options() any    { return c.Options }
func (c Pedestrian) options() any   { return c.Options }
func (c Multimodal) options() any   { return c }
func (c Unrecognized) options() any { return c.Options }

// Fields returns the values of the costing and costing_options wire fields.
func Fields(c Costing) (string, map[string]any) {
	if c == nil {
		return "", nil
	}
	if u, ok := c.(Unrecognized); ok && len(u.Options) == 0 {
		return u.Name, map[string]any{u.Name: json.RawMessage("{}")}
	}
	return string(c.Tag()), map[string]any{string(c.Tag()): c.options()}
}

// wire is the standalone JSON form of a costing.
type wire struct {
	Costing        string                     `json:"costing"`
	CostingOptions map[string]json.RawMessage `json:"costing_options,omitempty"`
}

// Marshal encodes c as {"costing": tag, "costing_options": {tag: {...}}}.
func Marshal(c Costing) ([]byte, error) {
	if c == nil {
		return nil, fmt.Errorf("marshaling costing: nil costing")
	}
	tag, opts := Fields(c)
	return json.Marshal(struct {
		Costing        string         `json:"costing"`
		CostingOptions map[string]any `json:"costing_options"`
	}{tag, opts})
}

// Unmarshal decodes the standalone JSON form produced by Marshal. It also accepts
// any object carrying costing and costing_options keys, such as a full manifest.
func Unmarshal(data []byte) (Costing, error) {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("unmarshaling costing: %w", err)
	}
	return FromFields(w.Costing, w.CostingOptions)
}

// FromFields rebuilds a costing from the costing tag and the costing_options object.
// Unknown tags yield Unrecognized rather than an error.
func FromFields(tag string, options map[string]json.RawMessage) (Costing, error) {
	if tag == "" {
		return nil, fmt.Errorf("unmarshaling costing: missing costing tag")
	}

	raw := options[tag]
	switch Tag(tag) {
	case TagAuto:
		return build(tag, raw, func(o AutoOptions) Costing { return Auto{Options: o} })
	case TagBus:
		return build(tag, raw, func(o AutoOptions) Costing { return Bus{Options: o} })
	case TagTaxi:
		return build(tag, raw, func(o AutoOptions) Costing { return Taxi{Options: o} })
	case TagTruck:
		return build(tag, raw, func(o TruckOptions) Costing { return Truck{Options: o} })
	case TagMotorScooter:
		return build(tag, raw, func(o MotorScooterOptions) Costing { return MotorScooter{Options: o} })
	case TagMotorcycle:
		return build(tag, raw, func(o MotorcycleOptions) Costing { return Motorcycle{Options: o} })
	case TagBicycle:
		return build(tag, raw, func(o BicycleOptions) Costing { return Bicycle{Options: o} })
	case TagBikeshare:
		return build(tag, raw, func(o BicycleOptions) Costing { return Bikeshare{Options: o} })
	case TagPedestrian:
		return build(tag, raw, func(o PedestrianOptions) Costing { return Pedestrian{Options: o} })
	case TagMultimodal:
		return build(tag, raw, func(o Multimodal) Costing { return o })
	default:
		return Unrecognized{Name: tag, Options: raw}, nil
	}
}

// Encode returns the costing tag and the encoded costing_options object, for
// manifests that embed a costing. A nil costing yields an empty tag and no options.
func Encode(c Costing) (string, json.RawMessage, error) {
	if c == nil {
		return "", nil, nil
	}
	tag, opts := Fields(c)
	raw, err := json.Marshal(opts)
	if err != nil {
		return "", nil, fmt.Errorf("marshaling %s costing options: %w", tag, err)
	}
	return tag, raw, nil
}

// Decode is the inverse of Encode. An empty tag yields a nil costing.
func Decode(tag string, options json.RawMessage) (Costing, error) {
	if tag == "" {
		return nil, nil
	}
	var opts map[string]json.RawMessage
	if len(options) > 0 && !bytes.Equal(options, []byte("null")) {
		if err := json.Unmarshal(options, &opts); err != nil {
			return nil, fmt.Errorf("unmarshaling costing options: %w", err)
		}
	}
	return FromFields(tag, opts)
}

func build[O any](tag string, raw json.RawMessage, wrap func(O) Costing) (Costing, error) {
	var opts O
	if err := decodeOptions(tag, raw, &opts); err != nil {
		return nil, err
	}
	return wrap(opts), nil
}

func decodeOptions(tag string, raw json.RawMessage, dst any) error {
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("unmarshaling %s costing options: %w", tag, err)
	}
	return nil
}

// IgnoresClosures reports whether a motorized costing was told to route through closures.
func IgnoresClosures(c Costing) bool {
	var m *MotorOptions
	switch v := c.(type) {
	case Auto:
		m = &v.Options.MotorOptions
	case Bus:
		m = &v.Options.MotorOptions
	case Taxi:
		m = &v.Options.MotorOptions
	case Truck:
		m = &v.Options.MotorOptions
	case MotorScooter:
		m = &v.Options.MotorOptions
	case Motorcycle:
		m = &v.Options.MotorOptions
	default:
		return false
	}
	return m.IgnoreClosures != nil && *m.IgnoreClosures
}
