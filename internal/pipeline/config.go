package pipeline

import "time"

// Trip segmentation heuristics. HeuristicHomeDistance cuts trips where visits
// move beyond TripDistanceThreshold from the detected home; HeuristicGapReturn
// is home-independent and cuts on long temporal gaps or a return to the first
// visit of the run.
const (
	HeuristicHomeDistance = "home-distance"
	HeuristicGapReturn    = "gap-return"
)

// SpeedThresholds holds the ordered transport classification cutoffs.
// All speeds are km/h, all distances km.
type SpeedThresholds struct {
	WalkMaxAvgSpeed   float64 `validate:"gt=0"`
	BikeMaxAvgSpeed   float64 `validate:"gt=0"`
	CarMaxSpeed       float64 `validate:"gt=0"`
	CarMaxDistance    float64 `validate:"gt=0"`
	TrainMinAvgSpeed  float64 `validate:"gt=0"`
	TrainMinDistance  float64 `validate:"gt=0"`
	TrainMaxSpeedCV   float64 `validate:"gt=0"`
	FlightMinSpeed    float64 `validate:"gt=0"`
	FlightMinDistance float64 `validate:"gt=0"`
}

// Config enumerates every tunable of the pipeline. There are no hidden
// defaults at call sites; DefaultConfig is the single source of defaults.
type Config struct {
	// Clustering
	Epsilon         float64       `validate:"gt=0"` // meters
	MinPoints       int           `validate:"gte=1"`
	TimeWindow      time.Duration `validate:"gt=0"`
	MinStayDuration time.Duration `validate:"gte=0"`

	// Home detection
	HomeRadius       float64       `validate:"gt=0"` // meters
	MinNightsForHome int           `validate:"gte=1"`
	NightMinDuration time.Duration `validate:"gt=0"`

	// Trip boundaries
	TripHeuristic         string        `validate:"oneof=home-distance gap-return"`
	TripDistanceThreshold float64       `validate:"gt=0"` // meters from home
	MinTripDuration       time.Duration `validate:"gt=0"`
	TripGapThreshold      time.Duration `validate:"gt=0"` // gap-return heuristic
	TripReturnRadius      float64       `validate:"gt=0"` // meters, gap-return heuristic
	TripMaxSameCitySpan   time.Duration `validate:"gt=0"`

	// Routes
	Transport           SpeedThresholds
	PathSimplifyEpsilon float64 `validate:"gt=0"` // meters

	// Day aggregation. Local midnights are computed in this location.
	Timezone *time.Location `validate:"required"`
}

// DefaultConfig returns the pipeline defaults.
func DefaultConfig() Config {
	return Config{
		Epsilon:         100,
		MinPoints:       3,
		TimeWindow:      30 * time.Minute,
		MinStayDuration: 10 * time.Minute,

		HomeRadius:       500,
		MinNightsForHome: 3,
		NightMinDuration: 6 * time.Hour,

		TripHeuristic:         HeuristicHomeDistance,
		TripDistanceThreshold: 100_000,
		MinTripDuration:       4 * time.Hour,
		TripGapThreshold:      24 * time.Hour,
		TripReturnRadius:      5_000,
		TripMaxSameCitySpan:   7 * 24 * time.Hour,

		Transport: SpeedThresholds{
			WalkMaxAvgSpeed:   7,
			BikeMaxAvgSpeed:   25,
			CarMaxSpeed:       120,
			CarMaxDistance:    500,
			TrainMinAvgSpeed:  60,
			TrainMinDistance:  50,
			TrainMaxSpeedCV:   0.5,
			FlightMinSpeed:    200,
			FlightMinDistance: 500,
		},
		PathSimplifyEpsilon: 50,

		Timezone: time.UTC,
	}
}
