package youtube

import (
	"github.com/vibestream/vibestream/core/config"
	logpkg "github.com/vibestream/vibestream/core/logger"
	"github.com/vibestream/vibestream/core/provider"
	"github.com/vibestream/vibestream/core/provider/plugins"
)

func init() {
	_ = plugins.Register(provider.SourceYouTube.String(), func(cfg *config.Config, logger *logpkg.Logger) (*plugins.Contribution, error) {
		name := provider.SourceYouTube.String()
		apiBase := cfg.GetProviderString(name, "api_base")
		publicBaseURL := cfg.GetProviderString(name, "public_base_url")
		if publicBaseURL == "" {
			publicBaseURL = cfg.GetString("PublicBaseURL")
		}

		client := NewClient(apiBase, logger)
		return &plugins.Contribution{
			Provider: New(client, publicBaseURL, logger),
		}, nil
	})
}
