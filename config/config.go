package config

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Operation timeouts are part of the product contract, fixed rather than
// configurable.
const (
	GeocodeTimeout  = 10 * time.Second
	BoundaryTimeout = 10 * time.Second
	SubmitTimeout   = 15 * time.Second
)

const defaultBoundaryURL = "https://raw.githubusercontent.com/geohacker/india/master/state/uttarakhand/uttarakhand_districts.geojson"

// Config holds everything the service reads from the environment.
type Config struct {
	Addr               string
	GovernmentEndpoint string
	UsersFile          string

	NominatimBaseURL   string
	NominatimUserAgent string
	MapsAPIKey         string
	Geocoder           string // "nominatim" or "google"

	Classifier         string // "keyword", "openai" or "remote"
	OpenAIKey          string
	ClassifierModelURL string
	RedKeywords        []string

	BoundaryURL         string
	BoundaryRefreshSpec string

	SessionSecret string
	SessionMaxAge time.Duration

	LogLevel      string
	LogFilename   string
	LogMaxSizeMB  int
	LogMaxAgeDays int
	LogMaxBackups int
}

// Load reads .env (when present) and assembles the service configuration.
// Every value has a workable default so a bare `go run .` comes up.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set directly.")
	}

	cfg := &Config{
		Addr:               getenv("ADDR", ":8080"),
		GovernmentEndpoint: getenv("GOVERNMENT_ENDPOINT", "https://example.com/api/report"),
		UsersFile:          getenv("USERS_FILE", "users.json"),

		NominatimBaseURL:   getenv("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent: getenv("NOMINATIM_USER_AGENT", "go-monsoon/1.0 (flood report demo)"),
		MapsAPIKey:         os.Getenv("MAPS_CREDENTIALS"),
		Geocoder:           getenv("GEOCODER", "nominatim"),

		Classifier:         getenv("CLASSIFIER", "keyword"),
		OpenAIKey:          os.Getenv("OPENAI_API_KEY"),
		ClassifierModelURL: os.Getenv("CLASSIFIER_MODEL_URL"),
		RedKeywords:        getlist("RED_KEYWORDS", "flood,water,flooding,danger,submerged"),

		BoundaryURL:         getenv("BOUNDARY_GEOJSON_URL", defaultBoundaryURL),
		BoundaryRefreshSpec: getenv("BOUNDARY_REFRESH_CRON", "@every 6h"),

		SessionSecret: os.Getenv("SESSION_SECRET"),
		SessionMaxAge: time.Duration(getint("SESSION_MAX_AGE_HOURS", 12)) * time.Hour,

		LogLevel:      getenv("LOG_LEVEL", "info"),
		LogFilename:   os.Getenv("LOG_FILENAME"),
		LogMaxSizeMB:  getint("LOG_MAX_SIZE", 50),
		LogMaxAgeDays: getint("LOG_MAX_AGE", 14),
		LogMaxBackups: getint("LOG_MAX_BACKUPS", 3),
	}

	if cfg.SessionSecret == "" {
		// Sessions live only in process memory; a restart logs everyone
		// out regardless of the secret.
		cfg.SessionSecret = randomHex(32)
		log.Println("SESSION_SECRET not set, generated an ephemeral one for this run")
	}

	return cfg
}

// getenv returns the env var value or a default.
func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Ignoring %s=%q: not an integer", key, v)
		return def
	}
	return n
}

// getlist splits a comma-separated env var, trimming blanks.
func getlist(key, def string) []string {
	raw := getenv(key, def)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func randomHex(n int) string {
	b := make([]byte, (n+1)/2)
	_, _ = rand.Read(b)
	s := hex.EncodeToString(b)
	if len(s) > n {
		s = s[:n]
	}
	return s
}
