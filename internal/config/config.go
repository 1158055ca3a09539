package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
	Artifacts   ArtifactsConfig   `yaml:"artifacts" mapstructure:"artifacts"`
	Google      GoogleConfig      `yaml:"google" mapstructure:"google"`
	Places      PlacesConfig      `yaml:"places" mapstructure:"places"`
	Overpass    OverpassConfig    `yaml:"overpass" mapstructure:"overpass"`
	PostGIS     PostGISConfig     `yaml:"postgis" mapstructure:"postgis"`
	Predictor   PredictorConfig   `yaml:"predictor" mapstructure:"predictor"`
	Aggregation AggregationConfig `yaml:"aggregation" mapstructure:"aggregation"`
	Prediction  PredictionConfig  `yaml:"prediction" mapstructure:"prediction"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int           `yaml:"port" mapstructure:"port"`
	CORSOrigins    []string      `yaml:"cors_origins" mapstructure:"cors_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// ArtifactsConfig locates the model artifacts loaded at startup.
type ArtifactsConfig struct {
	Dir           string `yaml:"dir" mapstructure:"dir"`
	CatalogFile   string `yaml:"catalog_file" mapstructure:"catalog_file"`
	ColumnsFile   string `yaml:"columns_file" mapstructure:"columns_file"`
	LandTypesFile string `yaml:"land_types_file" mapstructure:"land_types_file"`
}

// GoogleConfig holds Google Maps Platform settings.
type GoogleConfig struct {
	APIKey            string        `yaml:"api_key" mapstructure:"api_key"`
	MapsBaseURL       string        `yaml:"maps_base_url" mapstructure:"maps_base_url"`
	AirQualityBaseURL string        `yaml:"air_quality_base_url" mapstructure:"air_quality_base_url"`
	AirQuality        bool          `yaml:"air_quality" mapstructure:"air_quality"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Retries           int           `yaml:"retries" mapstructure:"retries"`
}

// PlacesConfig selects the place lookup backend.
type PlacesConfig struct {
	Provider string        `yaml:"provider" mapstructure:"provider"`
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// OverpassConfig configures the OpenStreetMap Overpass backend.
type OverpassConfig struct {
	Endpoint    string        `yaml:"endpoint" mapstructure:"endpoint"`
	MaxParallel int           `yaml:"max_parallel" mapstructure:"max_parallel"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// PostGISConfig configures the local PostGIS backend.
type PostGISConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Table       string `yaml:"table" mapstructure:"table"`
}

// PredictorConfig configures the model server.
type PredictorConfig struct {
	Endpoint    string        `yaml:"endpoint" mapstructure:"endpoint"`
	MetadataURL string        `yaml:"metadata_url" mapstructure:"metadata_url"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Retries     int           `yaml:"retries" mapstructure:"retries"`
}

// AggregationConfig bounds the per-request amenity fan-out.
type AggregationConfig struct {
	MaxConcurrency int           `yaml:"max_concurrency" mapstructure:"max_concurrency"`
	CallTimeout    time.Duration `yaml:"call_timeout" mapstructure:"call_timeout"`
	Deadline       time.Duration `yaml:"deadline" mapstructure:"deadline"`
}

// PredictionConfig sets the year-offset window, inclusive on both ends.
type PredictionConfig struct {
	WindowStart int `yaml:"window_start" mapstructure:"window_start"`
	WindowEnd   int `yaml:"window_end" mapstructure:"window_end"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LANDPRICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.request_timeout", "60s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("artifacts.dir", "./artifacts")
	v.SetDefault("artifacts.catalog_file", "types.json")
	v.SetDefault("artifacts.columns_file", "columns.json")
	v.SetDefault("artifacts.land_types_file", "landType.json")
	v.SetDefault("google.api_key", "")
	v.SetDefault("google.maps_base_url", "https://maps.googleapis.com/maps/api")
	v.SetDefault("google.air_quality_base_url", "https://airquality.googleapis.com/v1")
	v.SetDefault("google.air_quality", true)
	v.SetDefault("google.requests_per_second", 20)
	v.SetDefault("google.timeout", "10s")
	v.SetDefault("google.retries", 2)
	v.SetDefault("places.provider", "google")
	v.SetDefault("places.cache_ttl", "10m")
	v.SetDefault("overpass.endpoint", "https://overpass-api.de/api/interpreter")
	v.SetDefault("overpass.max_parallel", 2)
	v.SetDefault("overpass.timeout", "25s")
	v.SetDefault("postgis.database_url", "")
	v.SetDefault("postgis.table", "public.places")
	v.SetDefault("predictor.endpoint", "http://localhost:8501/predict")
	v.SetDefault("predictor.metadata_url", "")
	v.SetDefault("predictor.timeout", "10s")
	v.SetDefault("predictor.retries", 2)
	v.SetDefault("aggregation.max_concurrency", 8)
	v.SetDefault("aggregation.call_timeout", "5s")
	v.SetDefault("aggregation.deadline", "15s")
	v.SetDefault("prediction.window_start", -4)
	v.SetDefault("prediction.window_end", 1)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	switch c.Places.Provider {
	case "google", "overpass", "postgis":
	default:
		return eris.Errorf("config: unknown places provider %q", c.Places.Provider)
	}
	if c.Places.Provider == "google" && c.Google.APIKey == "" {
		return eris.New("config: google.api_key is required for the google provider")
	}
	if c.Places.Provider == "postgis" && c.PostGIS.DatabaseURL == "" {
		return eris.New("config: postgis.database_url is required for the postgis provider")
	}
	if c.Aggregation.MaxConcurrency <= 0 {
		return eris.New("config: aggregation.max_concurrency must be positive")
	}
	if c.Aggregation.CallTimeout <= 0 || c.Aggregation.Deadline <= 0 {
		return eris.New("config: aggregation timeouts must be positive")
	}
	if c.Prediction.WindowStart > 0 || c.Prediction.WindowEnd < 0 {
		return eris.New("config: prediction window must include the current year")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
