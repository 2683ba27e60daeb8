package strava

// Activity is a single recorded activity as returned by the activities
// endpoints. Distances are meters, times are seconds, speeds are m/s.
type Activity struct {
	ID                 int64   `json:"id"`
	Name               string  `json:"name"`
	Type               string  `json:"type"`
	SportType          string  `json:"sport_type,omitempty"`
	Distance           float64 `json:"distance"`
	MovingTime         int     `json:"moving_time"`
	ElapsedTime        int     `json:"elapsed_time"`
	TotalElevationGain float64 `json:"total_elevation_gain"`
	StartDate          string  `json:"start_date"`
	StartDateLocal     string  `json:"start_date_local"`
	Timezone           string  `json:"timezone,omitempty"`
	AverageSpeed       float64 `json:"average_speed"`
	MaxSpeed           float64 `json:"max_speed"`
	AverageHeartrate   float64 `json:"average_heartrate,omitempty"`
	MaxHeartrate       float64 `json:"max_heartrate,omitempty"`
	AverageWatts       float64 `json:"average_watts,omitempty"`
	Kilojoules         float64 `json:"kilojoules,omitempty"`
	Description        string  `json:"description,omitempty"`
	Calories           float64 `json:"calories,omitempty"`
	AchievementCount   int     `json:"achievement_count,omitempty"`
	KudosCount         int     `json:"kudos_count,omitempty"`
	PRCount            int     `json:"pr_count,omitempty"`
	GearID             string  `json:"gear_id,omitempty"`
	Manual             bool    `json:"manual,omitempty"`
	Trainer            bool    `json:"trainer,omitempty"`
	Commute            bool    `json:"commute,omitempty"`
}

// Athlete is the authenticated athlete's profile.
type Athlete struct {
	ID        int64  `json:"id"`
	Username  string `json:"username,omitempty"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Country   string `json:"country,omitempty"`
	Sex       string `json:"sex,omitempty"`
	Premium   bool   `json:"premium,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	Weight    float64 `json:"weight,omitempty"`
}

// ActivityTotals is a rollup of a group of activities.
type ActivityTotals struct {
	Count         int     `json:"count"`
	Distance      float64 `json:"distance"`
	MovingTime    int     `json:"moving_time"`
	ElapsedTime   int     `json:"elapsed_time"`
	ElevationGain float64 `json:"elevation_gain"`
}

// AthleteStats are the recent (last 4 weeks), year-to-date and all-time
// rollups for an athlete, split by sport.
type AthleteStats struct {
	BiggestRideDistance   float64        `json:"biggest_ride_distance,omitempty"`
	BiggestClimbElevation float64        `json:"biggest_climb_elevation_gain,omitempty"`
	RecentRideTotals      ActivityTotals `json:"recent_ride_totals"`
	RecentRunTotals       ActivityTotals `json:"recent_run_totals"`
	RecentSwimTotals      ActivityTotals `json:"recent_swim_totals"`
	YTDRideTotals         ActivityTotals `json:"ytd_ride_totals"`
	YTDRunTotals          ActivityTotals `json:"ytd_run_totals"`
	YTDSwimTotals         ActivityTotals `json:"ytd_swim_totals"`
	AllRideTotals         ActivityTotals `json:"all_ride_totals"`
	AllRunTotals          ActivityTotals `json:"all_run_totals"`
	AllSwimTotals         ActivityTotals `json:"all_swim_totals"`
}
