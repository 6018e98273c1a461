/*
Package configs is responsible for loading and parsing the application's configuration settings.

It primarily configures server parameters by reading operating system environment variables,
including the running environment, port, CORS allowed origins, and the room lifecycle knobs
(history cap, match threshold, member listing limit, idle reap TTL).
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig contains all configuration parameters required for the application to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// Security Settings
	AllowedOrigins []string

	// Room Settings
	//
	// HistoryCap bounds the number of messages retained per room. The widget
	// only ever renders the most recent page, so older entries are evicted FIFO.
	HistoryCap int

	// MatchThreshold is the minimum tag-similarity score an existing room must
	// strictly exceed before a new visitor is routed into it.
	MatchThreshold float64

	// MembersPageLimit caps how many member profiles a single directory query returns.
	MembersPageLimit int

	// RoomIdleTTL is how long a room with no members may keep its message
	// history before the reaper removes it. Zero disables reaping.
	RoomIdleTTL time.Duration
}

// LoadConfig reads and parses the application configuration from environment variables.
// It provides default values for each configuration item and performs necessary type conversions and validation.
// It returns a pointer to the AppConfig struct and any error encountered.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	// Environment
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// Port
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// --- Security Settings ---
	// AllowedOrigins
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for _, origin := range origins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	// --- Room Settings ---
	// HistoryCap
	historyCapStr := os.Getenv("HISTORY_CAP")
	if historyCapStr == "" {
		historyCapStr = "50"
	}
	historyCap, err := strconv.Atoi(historyCapStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HISTORY_CAP environment variable: %w", err)
	}
	if historyCap < 1 {
		return nil, fmt.Errorf("HISTORY_CAP must be at least 1, got %d", historyCap)
	}
	cfg.HistoryCap = historyCap

	// MatchThreshold
	thresholdStr := os.Getenv("MATCH_THRESHOLD")
	if thresholdStr == "" {
		thresholdStr = "0.1"
	}
	threshold, err := strconv.ParseFloat(thresholdStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid MATCH_THRESHOLD environment variable: %w", err)
	}
	if threshold < 0 || threshold >= 1 {
		return nil, fmt.Errorf("MATCH_THRESHOLD must be in [0, 1), got %g", threshold)
	}
	cfg.MatchThreshold = threshold

	// MembersPageLimit
	membersLimitStr := os.Getenv("MEMBERS_PAGE_LIMIT")
	if membersLimitStr == "" {
		membersLimitStr = "50"
	}
	membersLimit, err := strconv.Atoi(membersLimitStr)
	if err != nil {
		return nil, fmt.Errorf("invalid MEMBERS_PAGE_LIMIT environment variable: %w", err)
	}
	if membersLimit < 1 {
		return nil, fmt.Errorf("MEMBERS_PAGE_LIMIT must be at least 1, got %d", membersLimit)
	}
	cfg.MembersPageLimit = membersLimit

	// RoomIdleTTL
	idleTTLStr := os.Getenv("ROOM_IDLE_TTL")
	if idleTTLStr == "" {
		idleTTLStr = "30m"
	}
	idleTTL, err := time.ParseDuration(idleTTLStr)
	if err != nil {
		return nil, fmt.Errorf("invalid ROOM_IDLE_TTL environment variable: %w", err)
	}
	if idleTTL < 0 {
		return nil, fmt.Errorf("ROOM_IDLE_TTL must not be negative, got %s", idleTTL)
	}
	cfg.RoomIdleTTL = idleTTL

	return cfg, nil
}
