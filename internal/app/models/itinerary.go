package models

import (
	"time"
)

// ItineraryStatus is the lifecycle state of a trip plan.
type ItineraryStatus string

const (
	StatusDraft     ItineraryStatus = "draft"
	StatusConfirmed ItineraryStatus = "confirmed"
	StatusCompleted ItineraryStatus = "completed"
	StatusCancelled ItineraryStatus = "cancelled"
)

// StopCategory classifies a scheduled activity.
type StopCategory string

const (
	CategoryAttraction StopCategory = "attraction"
	CategoryRestaurant StopCategory = "restaurant"
	CategoryHotel      StopCategory = "hotel"
	CategoryTransport  StopCategory = "transport"
	CategoryActivity   StopCategory = "activity"
)

// Coordinates is a longitude/latitude pair in WGS84 degrees.
type Coordinates struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

// Valid reports whether the pair is inside the representable range.
// Zero/zero is treated as missing data, matching the map view contract.
func (c Coordinates) Valid() bool {
	if c.Latitude == 0 && c.Longitude == 0 {
		return false
	}
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Stop is one scheduled activity inside a day.
type Stop struct {
	ID          string       `json:"id"`
	Day         int          `json:"day"`
	Time        string       `json:"time"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Location    string       `json:"location"`
	Category    StopCategory `json:"category"`
	Duration    int          `json:"duration"` // minutes
	Cost        float64      `json:"cost"`
	Notes       string       `json:"notes,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
}

// Day is one calendar day of an itinerary. Stops keep insertion order.
type Day struct {
	Day       int       `json:"day"`
	Date      time.Time `json:"date"`
	TotalCost float64   `json:"total_cost"`
	Summary   string    `json:"summary,omitempty"`
	Stops     []Stop    `json:"stops"`
}

// Itinerary is the root trip-plan aggregate. It exclusively owns its days,
// and each day exclusively owns its stops.
//
// TotalDays and ActualCost are denormalized: they are stored as submitted and
// never recomputed from the day list on save.
type Itinerary struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id,omitempty"`
	Title           string          `json:"title"`
	Destination     string          `json:"destination"`
	StartDate       time.Time       `json:"start_date"`
	EndDate         time.Time       `json:"end_date"`
	TotalDays       int             `json:"total_days"`
	TotalBudget     int             `json:"total_budget"`
	ActualCost      float64         `json:"actual_cost"`
	Travelers       int             `json:"travelers"`
	TravelStyle     string          `json:"travel_style,omitempty"`
	Days            []Day           `json:"days"`
	Summary         string          `json:"summary,omitempty"`
	Recommendations []string        `json:"recommendations,omitempty"`
	Status          ItineraryStatus `json:"status"`
	Tags            []string        `json:"tags,omitempty"`
	IsPublic        bool            `json:"is_public"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       *time.Time      `json:"updated_at,omitempty"`
}

// Clone returns a deep copy of the itinerary, including its full day/stop
// subtree.
func (it Itinerary) Clone() Itinerary {
	out := it
	if it.Days != nil {
		out.Days = make([]Day, len(it.Days))
		for i, d := range it.Days {
			nd := d
			if d.Stops != nil {
				nd.Stops = make([]Stop, len(d.Stops))
				copy(nd.Stops, d.Stops)
				for j, st := range d.Stops {
					if st.Coordinates != nil {
						c := *st.Coordinates
						nd.Stops[j].Coordinates = &c
					}
				}
			}
			out.Days[i] = nd
		}
	}
	if it.Recommendations != nil {
		out.Recommendations = append([]string(nil), it.Recommendations...)
	}
	if it.Tags != nil {
		out.Tags = append([]string(nil), it.Tags...)
	}
	if it.UpdatedAt != nil {
		t := *it.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

// SortField selects the column an itinerary listing is ordered by.
type SortField string

const (
	SortByCreatedAt  SortField = "created_at"
	SortByStartDate  SortField = "start_date"
	SortByTitle      SortField = "title"
	SortByActualCost SortField = "actual_cost"
)

// SortOrder is the listing direction.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// ItineraryFilter describes one repository query. All predicates are
// AND-combined; zero values mean "no constraint".
type ItineraryFilter struct {
	Search      string          `json:"search,omitempty" form:"search"`
	Destination string          `json:"destination,omitempty" form:"destination"`
	Status      ItineraryStatus `json:"status,omitempty" form:"status"`
	DateFrom    *time.Time      `json:"date_from,omitempty"`
	DateTo      *time.Time      `json:"date_to,omitempty"`
	BudgetMin   *int            `json:"budget_min,omitempty"`
	BudgetMax   *int            `json:"budget_max,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	SortBy      SortField       `json:"sort_by,omitempty" form:"sort_by"`
	SortOrder   SortOrder       `json:"sort_order,omitempty" form:"sort_order"`
	Page        int             `json:"page,omitempty" form:"page"`
	Limit       int             `json:"limit,omitempty" form:"limit"`
}

// Normalize fills in listing defaults and clamps the page size.
func (f *ItineraryFilter) Normalize() {
	switch f.SortBy {
	case SortByCreatedAt, SortByStartDate, SortByTitle, SortByActualCost:
	default:
		f.SortBy = SortByCreatedAt
	}
	if f.SortOrder != SortAsc {
		f.SortOrder = SortDesc
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
}

// ItineraryPage is one page of a filtered listing. Total counts every match
// before pagination.
type ItineraryPage struct {
	Total int         `json:"total"`
	Items []Itinerary `json:"items"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// DestinationCount is one entry of the top-destinations ranking.
type DestinationCount struct {
	Destination string `json:"destination"`
	Count       int    `json:"count"`
}

// MonthlyActivity aggregates itineraries by the calendar month of their start
// date.
type MonthlyActivity struct {
	Month string  `json:"month"` // "2006-01"
	Count int     `json:"count"`
	Cost  float64 `json:"cost"`
}

// ItineraryStats is the aggregate view over a user's full collection.
type ItineraryStats struct {
	TotalCount      int                `json:"total_count"`
	CompletedCount  int                `json:"completed_count"`
	TotalCost       float64            `json:"total_cost"`
	AverageCost     float64            `json:"average_cost"`
	TopDestinations []DestinationCount `json:"top_destinations"`
	MonthlyActivity []MonthlyActivity  `json:"monthly_activity"`
}

// TripRequest is the requirements record handed to the generation client.
type TripRequest struct {
	Destination    string    `json:"destination"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	Budget         int       `json:"budget"`
	Travelers      int       `json:"travelers"`
	TravelStyle    string    `json:"travel_style,omitempty"`
	Preferences    string    `json:"preferences,omitempty"`
	Transportation string    `json:"transportation,omitempty"`
	Accommodation  string    `json:"accommodation,omitempty"`
	Interests      []string  `json:"interests,omitempty"`
}

// Marker is one map point handed to the map rendering collaborator.
type Marker struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Coordinates Coordinates  `json:"coordinates"`
	Category    StopCategory `json:"category"`
	Day         int          `json:"day"`
}
