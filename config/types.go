package config

import "time"

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int `yaml:"port" validate:"gte=0"`
	CacheTTLSeconds int `yaml:"cacheTTLSeconds" validate:"gte=0"`
}

// GTFSConfig contains GTFS static feed configuration
type GTFSConfig struct {
	StaticURL string `yaml:"staticURL" validate:"omitempty,url"`
	AgencyID  string `yaml:"agency_id" validate:"omitempty"`
	// CachePath is where parsed tables are kept between restarts. Empty disables the cache.
	CachePath string `yaml:"cachePath"`
	// RefreshInterval is an ISO-8601 duration such as P1D.
	RefreshInterval string `yaml:"refreshInterval"`
}

// GTFSRTConfig contains GTFS-Realtime feed configuration
type GTFSRTConfig struct {
	VehiclePositionsURL  string   `yaml:"vehiclePositionsURL" validate:"omitempty,url"`
	VehiclePositionsURLs []string `yaml:"vehiclePositionsURLs" validate:"dive,url"`
	ReadIntervalMS       int      `yaml:"readIntervalMS" validate:"gte=0"`
	TimeoutMS            int      `yaml:"timeoutMS" validate:"gte=0"`
	// StaleAfter drops vehicles whose report is older than this ISO-8601 duration. Empty keeps all.
	StaleAfter string `yaml:"staleAfter"`
}

// PositionURLs returns every configured vehicle positions endpoint, single URL first.
func (c GTFSRTConfig) PositionURLs() []string {
	urls := make([]string, 0, len(c.VehiclePositionsURLs)+1)
	if c.VehiclePositionsURL != "" {
		urls = append(urls, c.VehiclePositionsURL)
	}
	return append(urls, c.VehiclePositionsURLs...)
}

// ReadInterval is the live polling period.
func (c GTFSRTConfig) ReadInterval() time.Duration {
	return time.Duration(c.ReadIntervalMS) * time.Millisecond
}

// Timeout is the per-request fetch timeout.
func (c GTFSRTConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// PlannerConfig tunes route search, alternative generation and ranking
type PlannerConfig struct {
	MaxWalkingMeters float64 `yaml:"maxWalkingMeters" validate:"gte=0"`
	// WalkingSpeed in meters per minute.
	WalkingSpeed       float64 `yaml:"walkingSpeed" validate:"gte=0"`
	Timezone           string  `yaml:"timezone" validate:"omitempty,timezone"`
	SensitiveThreshold string  `yaml:"sensitiveThreshold" validate:"omitempty,oneof=EMPTY MANY_SEATS_AVAILABLE FEW_SEATS_AVAILABLE STANDING_ROOM_ONLY CRUSHED_STANDING_ROOM_ONLY FULL NOT_ACCEPTING_PASSENGERS"`
	TolerantThreshold  string  `yaml:"tolerantThreshold" validate:"omitempty,oneof=EMPTY MANY_SEATS_AVAILABLE FEW_SEATS_AVAILABLE STANDING_ROOM_ONLY CRUSHED_STANDING_ROOM_ONLY FULL NOT_ACCEPTING_PASSENGERS"`
	MaxAlternatives    int     `yaml:"maxAlternatives" validate:"gte=0"`
	ScoreExpression    string  `yaml:"scoreExpression"`
	DefaultSort        string  `yaml:"defaultSort" validate:"omitempty,oneof=time fare transfers score"`
}

// RedisConfig enables the plan response cache when Address is set
type RedisConfig struct {
	Address  string `yaml:"address" validate:"omitempty,hostname_port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db" validate:"gte=0"`
}

// Spot is a named place that requests may reference by id
type Spot struct {
	ID   string  `yaml:"id" validate:"required"`
	Name string  `yaml:"name" validate:"required"`
	Lat  float64 `yaml:"lat" validate:"latitude"`
	Lon  float64 `yaml:"lon" validate:"longitude"`
}

// Feed represents a single GTFS feed configuration
type Feed struct {
	Name   string       `yaml:"name" validate:"required"`
	GTFS   GTFSConfig   `yaml:"gtfs" validate:"required"`
	GTFSRT GTFSRTConfig `yaml:"gtfsrt" validate:"required"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	GTFS    GTFSConfig    `yaml:"gtfs"`
	GTFSRT  GTFSRTConfig  `yaml:"gtfsrt"`
	Planner PlannerConfig `yaml:"planner"`
	Redis   RedisConfig   `yaml:"redis"`
	Spots   []Spot        `yaml:"spots" validate:"dive"`
	Feeds   []Feed        `yaml:"feeds" validate:"dive"`
}

// Spot looks up a configured spot by id.
func (c AppConfig) Spot(id string) (Spot, bool) {
	for _, s := range c.Spots {
		if s.ID == id {
			return s, true
		}
	}
	return Spot{}, false
}
