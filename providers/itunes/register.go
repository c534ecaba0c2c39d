package itunes

import (
	"github.com/vibestream/vibestream/core/config"
	logpkg "github.com/vibestream/vibestream/core/logger"
	"github.com/vibestream/vibestream/core/provider"
	"github.com/vibestream/vibestream/core/provider/plugins"
)

func init() {
	_ = plugins.Register(provider.SourceITunes.String(), func(cfg *config.Config, logger *logpkg.Logger) (*plugins.Contribution, error) {
		apiBase := cfg.GetProviderString(provider.SourceITunes.String(), "api_base")
		client := NewClient(apiBase, logger)
		return &plugins.Contribution{
			Provider: New(client, logger),
		}, nil
	})
}
