package providers

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ClientConfig describes one provider entry in the registry config.
type ClientConfig struct {
	Type           string // "gemini", "openai", "mock"
	Model          string
	APIKey         string
	BaseURL        string
	RateLimit      int // Requests per minute
	TimeoutSeconds int
	Enabled        bool
}

// RegistryConfig is the config-driven view of all providers.
type RegistryConfig struct {
	Clients map[string]ClientConfig
	Default string
}

// Registry holds named provider clients. It supports config-driven
// instantiation, hot-reload, and thread-safe access.
type Registry struct {
	mu         sync.RWMutex
	clients    map[string]Client
	defaultKey string
	logger     *slog.Logger
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[string]Client),
		logger:  slog.Default(),
	}
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger *slog.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

// Register adds a client by name.
func (r *Registry) Register(name string, client Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients[name] = client
	r.logger.Info("registered provider", "name", name, "type", client.Name())
}

// Get returns a client by name.
func (r *Registry) Get(name string) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	client, ok := r.clients[name]
	if !ok {
		return nil, fmt.Errorf("provider not found: %s", name)
	}
	return client, nil
}

// Default returns the configured default client.
func (r *Registry) Default() (Client, error) {
	r.mu.RLock()
	key := r.defaultKey
	r.mu.RUnlock()
	if key == "" {
		return nil, fmt.Errorf("no default provider configured")
	}
	return r.Get(key)
}

// List returns all registered client names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.clients))
	for name := range r.clients {
		names = append(names, name)
	}
	return names
}

// Reload replaces the registry contents from config. Disabled and unknown
// provider types are skipped with a log line rather than failing the reload.
func (r *Registry) Reload(cfg RegistryConfig) {
	clients := make(map[string]Client, len(cfg.Clients))
	for name, cc := range cfg.Clients {
		if !cc.Enabled {
			continue
		}
		client, err := buildClient(cc)
		if err != nil {
			r.logger.Warn("skipping provider", "name", name, "error", err)
			continue
		}
		clients[name] = client
	}

	r.mu.Lock()
	r.clients = clients
	r.defaultKey = cfg.Default
	r.mu.Unlock()

	r.logger.Info("provider registry reloaded", "providers", len(clients), "default", cfg.Default)
}

// buildClient instantiates a client from its config entry.
func buildClient(cc ClientConfig) (Client, error) {
	cfg := Config{
		APIKey:    cc.APIKey,
		Model:     cc.Model,
		BaseURL:   cc.BaseURL,
		Timeout:   time.Duration(cc.TimeoutSeconds) * time.Second,
		RateLimit: cc.RateLimit,
	}

	switch cc.Type {
	case GeminiName:
		return NewGeminiClient(cfg), nil
	case OpenAIName:
		return NewOpenAIClient(cfg), nil
	case MockName:
		return NewMockClient(), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %s", cc.Type)
	}
}
