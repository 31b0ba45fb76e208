package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and
// string-friendly durations for file-based configuration.
type StructuredJSONConfig struct {
	Auth struct {
		AccessTokenSecret  string   `json:"access_token_secret"`
		RefreshTokenSecret string   `json:"refresh_token_secret"`
		TokenIssuer        string   `json:"token_issuer"`
		AccessTokenTTL     Duration `json:"access_token_ttl"`
		RefreshTokenTTL    Duration `json:"refresh_token_ttl"`
		OTPTTLSeconds      int      `json:"otp_ttl_seconds"`
	} `json:"auth,omitempty"`

	Limiter struct {
		FailureThreshold       int      `json:"failure_threshold"`
		FailureWindow          Duration `json:"failure_window"`
		LockDurationSeconds    int      `json:"lock_duration_seconds"`
		BanDistinctIdentifiers int      `json:"ban_distinct_identifiers"`
		BanTotalLockouts       int      `json:"ban_total_lockouts"`
		BanWindow              Duration `json:"ban_window"`
	} `json:"limiter,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
		Redis struct {
			Addr     string `json:"addr"`
			Password string `json:"password"`
			DB       int    `json:"db"`
		} `json:"redis,omitempty"`
	} `json:"storage,omitempty"`

	Mailer struct {
		APIKey       string `json:"api_key"`
		BaseURL      string `json:"base_url"`
		From         string `json:"from"`
		FailureFatal bool   `json:"failure_fatal"`
	} `json:"mailer,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		ThrottleRPS    float64  `json:"throttle_rps"`
	} `json:"server,omitempty"`

	SentryDSN string `json:"sentry_dsn,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Auth: Auth{
			AccessTokenSecret:  jsonCfg.Auth.AccessTokenSecret,
			RefreshTokenSecret: jsonCfg.Auth.RefreshTokenSecret,
			TokenIssuer:        jsonCfg.Auth.TokenIssuer,
			AccessTokenTTL:     time.Duration(jsonCfg.Auth.AccessTokenTTL),
			RefreshTokenTTL:    time.Duration(jsonCfg.Auth.RefreshTokenTTL),
			OTPTTLSeconds:      jsonCfg.Auth.OTPTTLSeconds,
		},
		Limiter: Limiter{
			FailureThreshold:       jsonCfg.Limiter.FailureThreshold,
			FailureWindow:          time.Duration(jsonCfg.Limiter.FailureWindow),
			LockDurationSeconds:    jsonCfg.Limiter.LockDurationSeconds,
			BanDistinctIdentifiers: jsonCfg.Limiter.BanDistinctIdentifiers,
			BanTotalLockouts:       jsonCfg.Limiter.BanTotalLockouts,
			BanWindow:              time.Duration(jsonCfg.Limiter.BanWindow),
		},
		Storage: Storage{
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			Redis: Redis{
				Addr:     jsonCfg.Storage.Redis.Addr,
				Password: jsonCfg.Storage.Redis.Password,
				DB:       jsonCfg.Storage.Redis.DB,
			},
		},
		Mailer: Mailer{
			APIKey:       jsonCfg.Mailer.APIKey,
			BaseURL:      jsonCfg.Mailer.BaseURL,
			From:         jsonCfg.Mailer.From,
			FailureFatal: jsonCfg.Mailer.FailureFatal,
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
			ThrottleRPS:    jsonCfg.Server.ThrottleRPS,
		},
		SentryDSN:    jsonCfg.SentryDSN,
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s".
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
