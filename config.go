package readtime

import "github.com/goliatone/go-readtime/internal/runtimeconfig"

var (
	ErrMarkdownContentDirRequired = runtimeconfig.ErrMarkdownContentDirRequired
	ErrMarkdownPluginInvalid      = runtimeconfig.ErrMarkdownPluginInvalid
	ErrMarkdownOptionsInvalid     = runtimeconfig.ErrMarkdownOptionsInvalid
	ErrGeneratorOutputDirRequired = runtimeconfig.ErrGeneratorOutputDirRequired
	ErrGeneratorWorkersInvalid    = runtimeconfig.ErrGeneratorWorkersInvalid
	ErrSiteURLInvalid             = runtimeconfig.ErrSiteURLInvalid
	ErrLoggingProviderRequired    = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown     = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid        = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid       = runtimeconfig.ErrLoggingFormatInvalid
	ErrConfigNotFound             = runtimeconfig.ErrConfigNotFound
)

type (
	Config               = runtimeconfig.Config
	SiteConfig           = runtimeconfig.SiteConfig
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	GeneratorConfig      = runtimeconfig.GeneratorConfig
	LoggingConfig        = runtimeconfig.LoggingConfig
)

// DefaultConfig returns the configuration a site starts from.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig resolves and validates the configuration for a run. See
// runtimeconfig.Load for the lookup order. The returned path is empty when
// defaults were used.
func LoadConfig(path string) (Config, string, error) {
	return runtimeconfig.Load(path)
}
