package costing

// BicycleType describes the bicycle, which sets the default cycling speed and
// the tolerance for rough surfaces.
type BicycleType string

// Bicycle types.
const (
	BicycleRoad     BicycleType = "road"
	BicycleHybrid   BicycleType = "hybrid"
	BicycleCross    BicycleType = "cross"
	BicycleMountain BicycleType = "mountain"
)

// BicycleOptions tune bicycle and bikeshare costing.
type BicycleOptions struct {
	BicycleType *BicycleType `json:"bicycle_type,omitempty"`

	// CyclingSpeed is the average speed on smooth flat roads, in km/h.
	CyclingSpeed *float64 `json:"cycling_speed,omitempty"`

	UseRoads         *float64 `json:"use_roads,omitempty"`
	UseHills         *float64 `json:"use_hills,omitempty"`
	UseFerry         *float64 `json:"use_ferry,omitempty"`
	UseLivingStreets *float64 `json:"use_living_streets,omitempty"`
	AvoidBadSurfaces *float64 `json:"avoid_bad_surfaces,omitempty"`

	// Bike share station costs, applied when returning a bicycle.
	BSSReturnCost    *float64 `json:"bss_return_cost,omitempty"`
	BSSReturnPenalty *float64 `json:"bss_return_penalty,omitempty"`

	Shortest               *bool    `json:"shortest,omitempty"`
	ManeuverPenalty        *float64 `json:"maneuver_penalty,omitempty"`
	GateCost               *float64 `json:"gate_cost,omitempty"`
	GatePenalty            *float64 `json:"gate_penalty,omitempty"`
	CountryCrossingCost    *float64 `json:"country_crossing_cost,omitempty"`
	CountryCrossingPenalty *float64 `json:"country_crossing_penalty,omitempty"`
	ServicePenalty         *float64 `json:"service_penalty,omitempty"`
}
