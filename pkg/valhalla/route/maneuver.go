package route

import (
	"encoding/json"
	"fmt"

	"github.com/breatheroute/valhalla/pkg/valhalla"
)

// ManeuverType is the engine's maneuver code. Codes this package does not know
// decode to ManeuverUnknown instead of failing.
type ManeuverType int

// Maneuver types, numbered as on the wire.
const (
	ManeuverNone ManeuverType = iota
	ManeuverStart
	ManeuverStartRight
	ManeuverStartLeft
	ManeuverDestination
	ManeuverDestinationRight
	ManeuverDestinationLeft
	ManeuverBecomes
	ManeuverContinue
	ManeuverSlightRight
	ManeuverRight
	ManeuverSharpRight
	ManeuverUturnRight
	ManeuverUturnLeft
	ManeuverSharpLeft
	ManeuverLeft
	ManeuverSlightLeft
	ManeuverRampStraight
	ManeuverRampRight
	ManeuverRampLeft
	ManeuverExitRight
	ManeuverExitLeft
	ManeuverStayStraight
	ManeuverStayRight
	ManeuverStayLeft
	ManeuverMerge
	ManeuverRoundaboutEnter
	ManeuverRoundaboutExit
	ManeuverFerryEnter
	ManeuverFerryExit
	ManeuverTransit
	ManeuverTransitTransfer
	ManeuverTransitRemainOn
	ManeuverTransitConnectionStart
	ManeuverTransitConnectionTransfer
	ManeuverTransitConnectionDestination
	ManeuverPostTransitConnectionDestination
	ManeuverMergeRight
	ManeuverMergeLeft
	ManeuverElevatorEnter
	ManeuverStepsEnter
	ManeuverEscalatorEnter
	ManeuverBuildingEnter
	ManeuverBuildingExit

	// ManeuverUnknown stands in for codes added to the engine after this package.
	ManeuverUnknown ManeuverType = -1
)

var maneuverNames = [...]string{
	"none", "start", "start_right", "start_left",
	"destination", "destination_right", "destination_left",
	"becomes", "continue",
	"slight_right", "right", "sharp_right", "uturn_right",
	"uturn_left", "sharp_left", "left", "slight_left",
	"ramp_straight", "ramp_right", "ramp_left", "exit_right", "exit_left",
	"stay_straight", "stay_right", "stay_left",
	"merge", "roundabout_enter", "roundabout_exit", "ferry_enter", "ferry_exit",
	"transit", "transit_transfer", "transit_remain_on",
	"transit_connection_start", "transit_connection_transfer",
	"transit_connection_destination", "post_transit_connection_destination",
	"merge_right", "merge_left",
	"elevator_enter", "steps_enter", "escalator_enter", "building_enter", "building_exit",
}

// Known reports whether t is one of the documented codes.
func (t ManeuverType) Known() bool {
	return t >= 0 && int(t) < len(maneuverNames)
}

func (t ManeuverType) String() string {
	if t.Known() {
		return maneuverNames[t]
	}
	return "unknown"
}

// UnmarshalJSON maps any value outside the documented codes to ManeuverUnknown.
func (t *ManeuverType) UnmarshalJSON(data []byte) error {
	var code int
	if err := json.Unmarshal(data, &code); err != nil {
		*t = ManeuverUnknown
		return nil
	}
	*t = ManeuverType(code)
	if !t.Known() {
		*t = ManeuverUnknown
	}
	return nil
}

// TravelMode is the broad mode of a maneuver.
type TravelMode string

// Travel modes.
const (
	TravelModeDrive      TravelMode = "drive"
	TravelModePedestrian TravelMode = "pedestrian"
	TravelModeBicycle    TravelMode = "bicycle"
	TravelModeTransit    TravelMode = "transit"
)

// TravelType refines a TravelMode. Values outside the constants below are kept verbatim.
type TravelType string

// Travel types by mode.
const (
	TravelTypeCar          TravelType = "car"
	TravelTypeMotorcycle   TravelType = "motorcycle"
	TravelTypeTruck        TravelType = "truck"
	TravelTypeMotorScooter TravelType = "motor_scooter"

	TravelTypeFoot  TravelType = "foot"
	TravelTypeBlind TravelType = "blind"

	TravelTypeRoad     TravelType = "road"
	TravelTypeHybrid   TravelType = "hybrid"
	TravelTypeCross    TravelType = "cross"
	TravelTypeMountain TravelType = "mountain"

	TravelTypeTram      TravelType = "tram"
	TravelTypeMetro     TravelType = "metro"
	TravelTypeRail      TravelType = "rail"
	TravelTypeBus       TravelType = "bus"
	TravelTypeFerry     TravelType = "ferry"
	TravelTypeCableCar  TravelType = "cable_car"
	TravelTypeGondola   TravelType = "gondola"
	TravelTypeFunicular TravelType = "funicular"
)

// BssManeuverType marks bike share station actions in bikeshare routes.
type BssManeuverType string

// Bike share maneuver types.
const (
	BssNoneAction            BssManeuverType = "NoneAction"
	BssRentBikeAtBikeShare   BssManeuverType = "RentBikeAtBikeShare"
	BssReturnBikeAtBikeShare BssManeuverType = "ReturnBikeAtBikeShare"
)

// SignElement is one text element of a guide sign.
type SignElement struct {
	Text             string `json:"text"`
	ConsecutiveCount int    `json:"consecutive_count,omitempty"`
}

// Sign describes the exit sign of a maneuver.
type Sign struct {
	ExitNumber []SignElement `json:"exit_number_elements,omitempty"`
	ExitBranch []SignElement `json:"exit_branch_elements,omitempty"`
	ExitToward []SignElement `json:"exit_toward_elements,omitempty"`
	ExitName   []SignElement `json:"exit_name_elements,omitempty"`
}

// TransitStopType distinguishes simple stops from stations.
type TransitStopType int

// Transit stop types.
const (
	TransitStop    TransitStopType = 0
	TransitStation TransitStopType = 1
)

// TransitStopInfo is a stop along a transit maneuver.
type TransitStopInfo struct {
	Type              TransitStopType     `json:"type"`
	OnestopID         string              `json:"onestop_id,omitempty"`
	Name              string              `json:"name"`
	ArrivalDateTime   *valhalla.LocalTime `json:"arrival_date_time,omitempty"`
	DepartureDateTime *valhalla.LocalTime `json:"departure_date_time,omitempty"`
	IsParentStop      bool                `json:"is_parent_stop,omitempty"`
	AssumedSchedule   bool                `json:"assumed_schedule,omitempty"`
	Lat               float64             `json:"lat"`
	Lon               float64             `json:"lon"`
}

// TransitInfo describes the transit line of a transit maneuver.
type TransitInfo struct {
	OnestopID         string            `json:"onestop_id,omitempty"`
	ShortName         string            `json:"short_name,omitempty"`
	LongName          string            `json:"long_name,omitempty"`
	Headsign          string            `json:"headsign,omitempty"`
	Color             int               `json:"color,omitempty"`
	TextColor         int               `json:"text_color,omitempty"`
	Description       string            `json:"description,omitempty"`
	OperatorOnestopID string            `json:"operator_onestop_id,omitempty"`
	OperatorName      string            `json:"operator_name,omitempty"`
	OperatorURL       string            `json:"operator_url,omitempty"`
	TransitStops      []TransitStopInfo `json:"transit_stops,omitempty"`
}

// Maneuver is one instruction within a leg. BeginShapeIndex and EndShapeIndex
// index into the owning leg's Shape.
type Maneuver struct {
	Type        ManeuverType `json:"type"`
	Instruction string       `json:"instruction"`

	VerbalTransitionAlertInstruction string `json:"verbal_transition_alert_instruction,omitempty"`
	VerbalPreTransitionInstruction   string `json:"verbal_pre_transition_instruction,omitempty"`
	VerbalPostTransitionInstruction  string `json:"verbal_post_transition_instruction,omitempty"`

	StreetNames      []string `json:"street_names,omitempty"`
	BeginStreetNames []string `json:"begin_street_names,omitempty"`

	// Time is in seconds; Length is in the units of the trip.
	Time   float64 `json:"time"`
	Length float64 `json:"length"`

	BeginShapeIndex int `json:"begin_shape_index"`
	EndShapeIndex   int `json:"end_shape_index"`

	Toll    bool `json:"toll,omitempty"`
	Highway bool `json:"highway,omitempty"`
	Rough   bool `json:"rough,omitempty"`
	Gate    bool `json:"gate,omitempty"`
	Ferry   bool `json:"ferry,omitempty"`

	Sign                *Sign `json:"sign,omitempty"`
	RoundaboutExitCount int   `json:"roundabout_exit_count,omitempty"`

	DepartInstruction       string `json:"depart_instruction,omitempty"`
	VerbalDepartInstruction string `json:"verbal_depart_instruction,omitempty"`
	ArriveInstruction       string `json:"arrive_instruction,omitempty"`
	VerbalArriveInstruction string `json:"verbal_arrive_instruction,omitempty"`

	TransitInfo    *TransitInfo `json:"transit_info,omitempty"`
	VerbalMultiCue bool         `json:"verbal_multi_cue,omitempty"`

	TravelMode      TravelMode      `json:"travel_mode"`
	TravelType      TravelType      `json:"travel_type"`
	BssManeuverType BssManeuverType `json:"bss_maneuver_type,omitempty"`
}

func (m Maneuver) String() string {
	return fmt.Sprintf("%s: %s", m.Type, m.Instruction)
}
