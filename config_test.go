package authcore

import (
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RelyingParty.ID = "example.test"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := map[string]func(cfg *Config){
		"missing relying party": func(cfg *Config) { cfg.RelyingParty.ID = "" },
		"zero challenge TTL":    func(cfg *Config) { cfg.Challenge.TTL = 0 },
		"short challenge":       func(cfg *Config) { cfg.Challenge.ValueSize = 16 },
		"zero attempts":         func(cfg *Config) { cfg.RateLimit.MaxAttempts = 0 },
		"zero window":           func(cfg *Config) { cfg.RateLimit.Window = 0 },
		"zero code count":       func(cfg *Config) { cfg.Recovery.CodeCount = 0 },
		"short codes":           func(cfg *Config) { cfg.Recovery.CodeLength = 4 },
		"negative trust TTL":    func(cfg *Config) { cfg.TrustedDevice.TrustTTL = -time.Hour },
		"zero ip ceiling":       func(cfg *Config) { cfg.Anomaly.MaxDistinctIPs = 0 },
		"zero failure window":   func(cfg *Config) { cfg.Anomaly.FailureWindow = 0 },
		"ticket without key": func(cfg *Config) {
			cfg.Ticket.Enabled = true
			cfg.Ticket.PrivateKey = nil
		},
		"ticket bad method": func(cfg *Config) {
			cfg.Ticket.Enabled = true
			cfg.Ticket.PrivateKey = []byte("k")
			cfg.Ticket.SigningMethod = "rsa"
		},
		"audit zero buffer": func(cfg *Config) {
			cfg.Audit.Enabled = true
			cfg.Audit.BufferSize = 0
		},
	}

	for name, mutate := range cases {
		cfg := DefaultConfig()
		cfg.RelyingParty.ID = "example.test"
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation failure", name)
		}
	}
}

func TestCloneConfigIsolatesKeyMaterial(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Ticket.PrivateKey = []byte("secret-key")

	clone := cloneConfig(cfg)
	clone.Ticket.PrivateKey[0] = 'X'

	if cfg.Ticket.PrivateKey[0] != 's' {
		t.Fatal("clone must not share key backing arrays")
	}
}
