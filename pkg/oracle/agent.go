package oracle

import (
	"context"
	"fmt"
	"strings"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Agent completes prompts through a go-agents chat agent. A fresh agent is
// created per call so concurrent runs share nothing but configuration.
type Agent struct {
	cfg gaconfig.AgentConfig
}

// NewAgent converts cfg into a go-agents AgentConfig.
func NewAgent(cfg *Config) (*Agent, error) {
	ac := gaconfig.DefaultAgentConfig()
	ac.Name = "hackid-oracle"

	ac.Provider = &gaconfig.ProviderConfig{
		Name:    cfg.Provider,
		BaseURL: cfg.BaseURL,
		Options: make(map[string]any),
	}
	setOption := func(key, v string) {
		if v != "" {
			ac.Provider.Options[key] = v
		}
	}
	setOption("token", cfg.Token)
	setOption("deployment", cfg.Deployment)
	setOption("api_version", cfg.APIVersion)
	setOption("auth_type", cfg.AuthType)

	ac.Model = &gaconfig.ModelConfig{Name: cfg.Model}

	if _, err := agent.New(&ac); err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	return &Agent{cfg: ac}, nil
}

func (a *Agent) Complete(ctx context.Context, prompt string) (string, error) {
	ag, err := agent.New(&a.cfg)
	if err != nil {
		return "", fmt.Errorf("create agent: %w", err)
	}

	resp, err := ag.Chat(ctx, prompt)
	if err != nil {
		if IsRateLimited(err) {
			return "", fmt.Errorf("%w: %w", ErrRateLimited, err)
		}
		return "", fmt.Errorf("chat call: %w", err)
	}

	content := resp.Content()
	if strings.TrimSpace(content) == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
