package main

import (
	"testing"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", Config{port: 8080}, false},
		{"tls pair", Config{port: 443, tlsCert: "c.pem", tlsKey: "k.pem"}, false},
		{"cert without key", Config{port: 8080, tlsCert: "c.pem"}, true},
		{"key without cert", Config{port: 8080, tlsKey: "k.pem"}, true},
		{"port too low", Config{port: 0}, true},
		{"port too high", Config{port: 70000}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestConfigScheme(t *testing.T) {
	plain := Config{}
	if got := plain.scheme(); got != "http" {
		t.Errorf("scheme() = %q, want http", got)
	}
	tls := Config{tlsCert: "c.pem", tlsKey: "k.pem"}
	if got := tls.scheme(); got != "https" {
		t.Errorf("scheme() = %q, want https", got)
	}
}
