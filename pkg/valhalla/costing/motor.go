package costing

// SpeedType names a source of speed data the engine may use for motorized costing.
type SpeedType string

// Speed types.
const (
	SpeedAll         SpeedType = "all"
	SpeedFreeflow    SpeedType = "freeflow"
	SpeedConstrained SpeedType = "constrained"
	SpeedPredicted   SpeedType = "predicted"
	SpeedCurrent     SpeedType = "current"
)

// MotorOptions are the options shared by every motorized costing.
//
// Penalties and costs are in seconds. The use_* preferences range from 0
// (avoid) to 1 (prefer) and are passed to the engine verbatim.
type MotorOptions struct {
	ManeuverPenalty        *float64 `json:"maneuver_penalty,omitempty"`
	GateCost               *float64 `json:"gate_cost,omitempty"`
	GatePenalty            *float64 `json:"gate_penalty,omitempty"`
	PrivateAccessPenalty   *float64 `json:"private_access_penalty,omitempty"`
	DestinationOnlyPenalty *float64 `json:"destination_only_penalty,omitempty"`
	TollBoothCost          *float64 `json:"toll_booth_cost,omitempty"`
	TollBoothPenalty       *float64 `json:"toll_booth_penalty,omitempty"`
	FerryCost              *float64 `json:"ferry_cost,omitempty"`
	UseFerry               *float64 `json:"use_ferry,omitempty"`
	UseHighways            *float64 `json:"use_highways,omitempty"`
	UseTolls               *float64 `json:"use_tolls,omitempty"`
	UseLivingStreets       *float64 `json:"use_living_streets,omitempty"`
	UseTracks              *float64 `json:"use_tracks,omitempty"`
	ServicePenalty         *float64 `json:"service_penalty,omitempty"`
	ServiceFactor          *float64 `json:"service_factor,omitempty"`
	CountryCrossingCost    *float64 `json:"country_crossing_cost,omitempty"`
	CountryCrossingPenalty *float64 `json:"country_crossing_penalty,omitempty"`

	// Shortest ignores speed and optimizes for distance only.
	Shortest                *bool    `json:"shortest,omitempty"`
	UseDistance             *float64 `json:"use_distance,omitempty"`
	DisableHierarchyPruning *bool    `json:"disable_hierarchy_pruning,omitempty"`
	TopSpeed                *float64 `json:"top_speed,omitempty"`
	FixedSpeed              *int     `json:"fixed_speed,omitempty"`
	ClosureFactor           *float64 `json:"closure_factor,omitempty"`

	// IgnoreClosures cannot be combined with a location search filter that
	// excludes closures; manifests reject that combination.
	IgnoreClosures                *bool `json:"ignore_closures,omitempty"`
	IgnoreRestrictions            *bool `json:"ignore_restrictions,omitempty"`
	IgnoreOneways                 *bool `json:"ignore_oneways,omitempty"`
	IgnoreNonVehicularRestriction *bool `json:"ignore_non_vehicular_restrictions,omitempty"`
	IgnoreAccess                  *bool `json:"ignore_access,omitempty"`

	SpeedTypes []SpeedType `json:"speed_types,omitempty"`

	// Vehicle dimensions in meters.
	Height *float64 `json:"height,omitempty"`
	Width  *float64 `json:"width,omitempty"`

	ExcludeUnpaved       *bool `json:"exclude_unpaved,omitempty"`
	ExcludeCashOnlyTolls *bool `json:"exclude_cash_only_tolls,omitempty"`
	IncludeHOV2          *bool `json:"include_hov2,omitempty"`
	IncludeHOV3          *bool `json:"include_hov3,omitempty"`
	IncludeHOT           *bool `json:"include_hot,omitempty"`
}

// AutoOptions tune auto, bus and taxi costing.
type AutoOptions struct {
	MotorOptions
}

// TruckOptions tune truck costing. Dimensions are metric: meters and metric tons.
type TruckOptions struct {
	MotorOptions

	Length             *float64 `json:"length,omitempty"`
	Weight             *float64 `json:"weight,omitempty"`
	AxleLoad           *float64 `json:"axle_load,omitempty"`
	AxleCount          *int     `json:"axle_count,omitempty"`
	Hazmat             *bool    `json:"hazmat,omitempty"`
	HGVNoAccessPenalty *float64 `json:"hgv_no_access_penalty,omitempty"`
	LowClassPenalty    *float64 `json:"low_class_penalty,omitempty"`
	UseTruckRoute      *float64 `json:"use_truck_route,omitempty"`
}

// MotorScooterOptions tune motor_scooter costing.
type MotorScooterOptions struct {
	MotorOptions

	UsePrimary *float64 `json:"use_primary,omitempty"`
	UseHills   *float64 `json:"use_hills,omitempty"`
}

// MotorcycleOptions tune motorcycle costing.
type MotorcycleOptions struct {
	MotorOptions

	UseTrails *float64 `json:"use_trails,omitempty"`
}
