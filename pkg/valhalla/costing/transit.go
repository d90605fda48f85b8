package costing

// FilterAction decides whether the listed transit ids are the only ones used or are avoided.
type FilterAction string

// Filter actions.
const (
	FilterInclude FilterAction = "include"
	FilterExclude FilterAction = "exclude"
)

// TransitFilter selects transit entities by onestop id.
type TransitFilter struct {
	IDs    []string     `json:"ids"`
	Action FilterAction `json:"action"`
}

// TransitFilters restricts which stops, routes and operators a transit route may use.
type TransitFilters struct {
	Stops     *TransitFilter `json:"stops,omitempty"`
	Routes    *TransitFilter `json:"routes,omitempty"`
	Operators *TransitFilter `json:"operators,omitempty"`
}

// TransitOptions tune the transit part of multimodal routes.
type TransitOptions struct {
	UseBus       *float64        `json:"use_bus,omitempty"`
	UseRail      *float64        `json:"use_rail,omitempty"`
	UseTransfers *float64        `json:"use_transfers,omitempty"`
	Filters      *TransitFilters `json:"filters,omitempty"`
}

// FilterStops returns a copy that includes or excludes the given stop ids.
func (o TransitOptions) FilterStops(action FilterAction, ids ...string) TransitOptions {
	f := o.filters()
	f.Stops = &TransitFilter{IDs: ids, Action: action}
	o.Filters = &f
	return o
}

// FilterRoutes returns a copy that includes or excludes the given route ids.
func (o TransitOptions) FilterRoutes(action FilterAction, ids ...string) TransitOptions {
	f := o.filters()
	f.Routes = &TransitFilter{IDs: ids, Action: action}
	o.Filters = &f
	return o
}

// FilterOperators returns a copy that includes or excludes the given operator ids.
func (o TransitOptions) FilterOperators(action FilterAction, ids ...string) TransitOptions {
	f := o.filters()
	f.Operators = &TransitFilter{IDs: ids, Action: action}
	o.Filters = &f
	return o
}

func (o TransitOptions) filters() TransitFilters {
	if o.Filters == nil {
		return TransitFilters{}
	}
	return *o.Filters
}
