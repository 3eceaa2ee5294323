package notifications

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
)

func TestNewAPNsClient_MissingConfigDisables(t *testing.T) {
	logger := log.New(io.Discard, "", 0)

	tests := []struct {
		name string
		cfg  APNsConfig
	}{
		{"empty", APNsConfig{}},
		{"missing key path", APNsConfig{KeyID: "K1", TeamID: "T1", BundleID: "com.example.supervisor"}},
		{"missing bundle id", APNsConfig{KeyPath: "/tmp/key.p8", KeyID: "K1", TeamID: "T1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewAPNsClient(tt.cfg, logger)
			if err != nil {
				t.Errorf("err = %v, want nil", err)
			}
			if client != nil {
				t.Error("client should be nil when APNs is not configured")
			}
		})
	}
}

func TestNewAPNsClient_BadKeyFile(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	keyPath := filepath.Join(t.TempDir(), "key.p8")
	if err := os.WriteFile(keyPath, []byte("not a pem"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := NewAPNsClient(APNsConfig{
		KeyPath:  keyPath,
		KeyID:    "K1",
		TeamID:   "T1",
		BundleID: "com.example.supervisor",
	}, logger)
	if err == nil {
		t.Error("expected an error for an invalid key file")
	}
}

func TestSendToneAlert_NilClientIsNoOp(t *testing.T) {
	var client *APNsClient
	if err := client.SendToneAlert("device-token", ToneAlert{SessionID: "s1"}); err != nil {
		t.Errorf("err = %v, want nil from a nil client", err)
	}
}
