package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/jengzang/journeys-backend-go/internal/pipeline"
)

// Config 应用配置
type Config struct {
	Port        string
	DBPath      string
	JWTSecret   string
	AuthEnabled bool

	// Nominatim 反向地理编码
	NominatimURL       string
	NominatimUserAgent string

	Pipeline pipeline.Config
}

// Load 加载配置
func Load() (*Config, error) {
	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	}

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./data/journeys/journeys.db"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	authEnabled := jwtSecret != ""
	if jwtSecret == "" {
		jwtSecret = "your-secret-key-change-in-production"
	}

	nominatimURL := os.Getenv("NOMINATIM_URL")
	nominatimUA := os.Getenv("NOMINATIM_USER_AGENT")
	if nominatimUA == "" {
		nominatimUA = "journeys-backend-go/1.0"
	}

	pipelineCfg, err := LoadPipelineConfig(os.Getenv("PIPELINE_CONFIG"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:               port,
		DBPath:             dbPath,
		JWTSecret:          jwtSecret,
		AuthEnabled:        authEnabled,
		NominatimURL:       nominatimURL,
		NominatimUserAgent: nominatimUA,
		Pipeline:           pipelineCfg,
	}, nil
}

// pipelineFile is the YAML shape of the optional tuning file. Every field is
// optional; omitted ones keep the pipeline defaults. Durations use Go syntax
// ("30m", "6h").
type pipelineFile struct {
	Epsilon         *float64 `yaml:"epsilon"`
	MinPoints       *int     `yaml:"minPoints"`
	TimeWindow      *string  `yaml:"timeWindow"`
	MinStayDuration *string  `yaml:"minStayDuration"`

	HomeRadius       *float64 `yaml:"homeRadius"`
	MinNightsForHome *int     `yaml:"minNightsForHome"`
	NightMinDuration *string  `yaml:"nightMinDuration"`

	TripHeuristic         *string  `yaml:"tripHeuristic"`
	TripDistanceThreshold *float64 `yaml:"tripDistanceThreshold"`
	MinTripDuration       *string  `yaml:"minTripDuration"`
	TripGapThreshold      *string  `yaml:"tripGapThreshold"`
	TripReturnRadius      *float64 `yaml:"tripReturnRadius"`
	TripMaxSameCitySpan   *string  `yaml:"tripMaxSameCitySpan"`

	Transport struct {
		WalkMaxAvgSpeed   *float64 `yaml:"walkMaxAvgSpeed"`
		BikeMaxAvgSpeed   *float64 `yaml:"bikeMaxAvgSpeed"`
		CarMaxSpeed       *float64 `yaml:"carMaxSpeed"`
		CarMaxDistance    *float64 `yaml:"carMaxDistance"`
		TrainMinAvgSpeed  *float64 `yaml:"trainMinAvgSpeed"`
		TrainMinDistance  *float64 `yaml:"trainMinDistance"`
		TrainMaxSpeedCV   *float64 `yaml:"trainMaxSpeedCV"`
		FlightMinSpeed    *float64 `yaml:"flightMinSpeed"`
		FlightMinDistance *float64 `yaml:"flightMinDistance"`
	} `yaml:"transport"`

	PathSimplifyEpsilon *float64 `yaml:"pathSimplifyEpsilon"`
	Timezone            *string  `yaml:"timezone"` // IANA name, e.g. "Europe/Berlin"
}

// LoadPipelineConfig reads the optional YAML tuning file on top of the
// pipeline defaults and validates the merged result. Empty path means
// defaults only.
func LoadPipelineConfig(path string) (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read pipeline config %s: %w", path, err)
	}

	var file pipelineFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return cfg, fmt.Errorf("failed to parse pipeline config %s: %w", path, err)
	}
	if err := applyPipelineFile(&cfg, file); err != nil {
		return cfg, fmt.Errorf("invalid pipeline config %s: %w", path, err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid pipeline config %s: %w", path, err)
	}

	return cfg, nil
}

func applyPipelineFile(cfg *pipeline.Config, file pipelineFile) error {
	setFloat := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setInt := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setDuration := func(dst *time.Duration, src *string) error {
		if src == nil {
			return nil
		}
		d, err := time.ParseDuration(*src)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", *src, err)
		}
		*dst = d
		return nil
	}

	setFloat(&cfg.Epsilon, file.Epsilon)
	setInt(&cfg.MinPoints, file.MinPoints)
	if err := setDuration(&cfg.TimeWindow, file.TimeWindow); err != nil {
		return err
	}
	if err := setDuration(&cfg.MinStayDuration, file.MinStayDuration); err != nil {
		return err
	}

	setFloat(&cfg.HomeRadius, file.HomeRadius)
	setInt(&cfg.MinNightsForHome, file.MinNightsForHome)
	if err := setDuration(&cfg.NightMinDuration, file.NightMinDuration); err != nil {
		return err
	}

	if file.TripHeuristic != nil {
		cfg.TripHeuristic = *file.TripHeuristic
	}
	setFloat(&cfg.TripDistanceThreshold, file.TripDistanceThreshold)
	if err := setDuration(&cfg.MinTripDuration, file.MinTripDuration); err != nil {
		return err
	}
	if err := setDuration(&cfg.TripGapThreshold, file.TripGapThreshold); err != nil {
		return err
	}
	setFloat(&cfg.TripReturnRadius, file.TripReturnRadius)
	if err := setDuration(&cfg.TripMaxSameCitySpan, file.TripMaxSameCitySpan); err != nil {
		return err
	}

	setFloat(&cfg.Transport.WalkMaxAvgSpeed, file.Transport.WalkMaxAvgSpeed)
	setFloat(&cfg.Transport.BikeMaxAvgSpeed, file.Transport.BikeMaxAvgSpeed)
	setFloat(&cfg.Transport.CarMaxSpeed, file.Transport.CarMaxSpeed)
	setFloat(&cfg.Transport.CarMaxDistance, file.Transport.CarMaxDistance)
	setFloat(&cfg.Transport.TrainMinAvgSpeed, file.Transport.TrainMinAvgSpeed)
	setFloat(&cfg.Transport.TrainMinDistance, file.Transport.TrainMinDistance)
	setFloat(&cfg.Transport.TrainMaxSpeedCV, file.Transport.TrainMaxSpeedCV)
	setFloat(&cfg.Transport.FlightMinSpeed, file.Transport.FlightMinSpeed)
	setFloat(&cfg.Transport.FlightMinDistance, file.Transport.FlightMinDistance)

	setFloat(&cfg.PathSimplifyEpsilon, file.PathSimplifyEpsilon)

	if file.Timezone != nil {
		loc, err := time.LoadLocation(*file.Timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone %q: %w", *file.Timezone, err)
		}
		cfg.Timezone = loc
	}

	return nil
}
