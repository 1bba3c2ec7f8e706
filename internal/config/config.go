package config

import (
	"encoding/base64"
	"fmt"

	"github.com/pixil98/go-errors"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	ServerAddr     string
	Store          string
	DatabaseDSN    string
	SigningKey     []byte
	AllowedOrigins []string
	StartRoomId    string
}

func decodeSigningSecret(base64Secret string) ([]byte, error) {
	if base64Secret == "" {
		return nil, fmt.Errorf("signing secret cannot be empty")
	}
	return base64.StdEncoding.DecodeString(base64Secret)
}

// NewConfig validates the command line settings. Every problem is reported,
// not just the first.
func NewConfig(serverAddr, store, databaseDSN, base64Secret string, allowedOrigins []string, startRoomId string) (*Config, error) {
	el := errors.NewErrorList()

	if serverAddr == "" {
		el.Add(fmt.Errorf("server address cannot be empty"))
	}

	switch store {
	case StorePostgres:
		if databaseDSN == "" {
			el.Add(fmt.Errorf("database DSN cannot be empty for the %s store", store))
		}
	case StoreMemory:
	default:
		el.Add(fmt.Errorf("unknown store %q, want %q or %q", store, StorePostgres, StoreMemory))
	}

	signingKey, err := decodeSigningSecret(base64Secret)
	if err != nil {
		el.Add(fmt.Errorf("decode signing secret: %w", err))
	}

	if err := el.Err(); err != nil {
		return nil, err
	}

	return &Config{
		ServerAddr:     serverAddr,
		Store:          store,
		DatabaseDSN:    databaseDSN,
		SigningKey:     signingKey,
		AllowedOrigins: allowedOrigins,
		StartRoomId:    startRoomId,
	}, nil
}
