package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultRPCURL = "https://mainnet.infura.io/v3/YOUR_INFURA_KEY"

	BackendJSONRPC = "jsonrpc"
	BackendGeth    = "geth"
)

var ErrInvalidRPCURL = errors.New("invalid rpc url")

type Config struct {
	RPCURL        string
	Samples       int
	RPCTimeout    time.Duration
	Backend       string
	LogLevel      string
	ListenPort    int
	WatchInterval time.Duration
}

func Load() *Config {
	return &Config{
		RPCURL:        getEnv("RPC_URL", DefaultRPCURL),
		Samples:       parseInt(getEnv("SAMPLES", "5")),
		RPCTimeout:    parseDurationSec(getEnv("RPC_TIMEOUT_SECONDS", "30")),
		Backend:       strings.ToLower(getEnv("RPC_BACKEND", BackendJSONRPC)),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		ListenPort:    parseInt(getEnv("LISTEN_PORT", "9105")),
		WatchInterval: parseDurationMs(getEnv("WATCH_INTERVAL_MS", "15000")),
	}
}

// ValidateRPCURL rejects endpoints the selected backend cannot dial.
// Websocket schemes are only understood by the geth backend.
func (c *Config) ValidateRPCURL() error {
	u, err := url.Parse(c.RPCURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRPCURL, err)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host in %q", ErrInvalidRPCURL, c.RPCURL)
	}

	switch u.Scheme {
	case "http", "https":
		return nil
	case "ws", "wss":
		if c.Backend == BackendGeth {
			return nil
		}
	}
	return fmt.Errorf("%w: scheme %q not supported by %s backend", ErrInvalidRPCURL, u.Scheme, c.Backend)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func parseInt(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func parseDurationSec(s string) time.Duration {
	sec, _ := strconv.Atoi(s)
	return time.Duration(sec) * time.Second
}

func parseDurationMs(s string) time.Duration {
	ms, _ := strconv.Atoi(s)
	return time.Duration(ms) * time.Millisecond
}
