package providers

import (
	"context"
	"testing"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	mock := NewMockClient()
	r.Register("primary", mock)

	got, err := r.Get("primary")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != Client(mock) {
		t.Error("Get() returned a different client")
	}

	if _, err := r.Get("missing"); err == nil {
		t.Error("Get(missing) should fail")
	}
}

func TestRegistry_Reload(t *testing.T) {
	r := NewRegistry()
	r.Reload(RegistryConfig{
		Clients: map[string]ClientConfig{
			"gemini":   {Type: "gemini", APIKey: "k", Enabled: true},
			"disabled": {Type: "gemini", APIKey: "k", Enabled: false},
			"bogus":    {Type: "no-such-type", Enabled: true},
			"test":     {Type: "mock", Enabled: true},
		},
		Default: "gemini",
	})

	names := r.List()
	if len(names) != 2 {
		t.Errorf("List() = %v, want gemini and test only", names)
	}
	if _, err := r.Get("disabled"); err == nil {
		t.Error("disabled provider should not be registered")
	}
	if _, err := r.Get("bogus"); err == nil {
		t.Error("unknown provider type should not be registered")
	}

	def, err := r.Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if def.Name() != GeminiName {
		t.Errorf("default provider = %s, want %s", def.Name(), GeminiName)
	}
}

func TestRegistry_ReloadReplacesClients(t *testing.T) {
	r := NewRegistry()
	r.Register("old", NewMockClient())

	r.Reload(RegistryConfig{
		Clients: map[string]ClientConfig{
			"new": {Type: "mock", Enabled: true},
		},
		Default: "new",
	})

	if _, err := r.Get("old"); err == nil {
		t.Error("reload should replace prior registrations")
	}
	if _, err := r.Get("new"); err != nil {
		t.Errorf("Get(new) error = %v", err)
	}
}

func TestRegistry_NoDefault(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Default(); err == nil {
		t.Error("Default() without config should fail")
	}
}

func TestMockClient_FailAfter(t *testing.T) {
	mock := NewMockClient()
	mock.FailAfter = 1

	if _, err := mock.Extract(context.Background(), nil, "", ""); err != nil {
		t.Fatalf("first request error = %v", err)
	}
	if _, err := mock.Extract(context.Background(), nil, "", ""); err == nil {
		t.Fatal("second request should fail")
	}
}
