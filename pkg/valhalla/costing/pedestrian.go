package costing

// PedestrianType selects the walking profile.
type PedestrianType string

// Pedestrian types.
const (
	PedestrianFoot  PedestrianType = "foot"
	PedestrianBlind PedestrianType = "blind"
)

// PedestrianOptions tune pedestrian costing and the walking part of multimodal routes.
type PedestrianOptions struct {
	// WalkingSpeed is in km/h.
	WalkingSpeed   *float64 `json:"walking_speed,omitempty"`
	WalkwayFactor  *float64 `json:"walkway_factor,omitempty"`
	SidewalkFactor *float64 `json:"sidewalk_factor,omitempty"`
	AlleyFactor    *float64 `json:"alley_factor,omitempty"`
	DrivewayFactor *float64 `json:"driveway_factor,omitempty"`
	StepPenalty    *float64 `json:"step_penalty,omitempty"`

	UseFerry         *float64 `json:"use_ferry,omitempty"`
	UseLivingStreets *float64 `json:"use_living_streets,omitempty"`
	UseTracks        *float64 `json:"use_tracks,omitempty"`
	UseHills         *float64 `json:"use_hills,omitempty"`
	UseLit           *float64 `json:"use_lit,omitempty"`

	ServicePenalty         *float64 `json:"service_penalty,omitempty"`
	ServiceFactor          *float64 `json:"service_factor,omitempty"`
	DestinationOnlyPenalty *float64 `json:"destination_only_penalty,omitempty"`

	// MaxHikingDifficulty follows the SAC scale, 1 through 6.
	MaxHikingDifficulty *int `json:"max_hiking_difficulty,omitempty"`

	BSSRentCost    *float64 `json:"bss_rent_cost,omitempty"`
	BSSRentPenalty *float64 `json:"bss_rent_penalty,omitempty"`

	Shortest *bool `json:"shortest,omitempty"`

	// Distances in meters.
	MaxDistance                *float64 `json:"max_distance,omitempty"`
	TransitStartEndMaxDistance *float64 `json:"transit_start_end_max_distance,omitempty"`
	TransitTransferMaxDistance *float64 `json:"transit_transfer_max_distance,omitempty"`

	Type       *PedestrianType `json:"type,omitempty"`
	ModeFactor *float64        `json:"mode_factor,omitempty"`
}
