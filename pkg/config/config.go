package config

import (
	"github.com/arthur-debert/relink/pkg/fields"
	"github.com/arthur-debert/relink/pkg/report"
)

// ProjectConfigFile is looked up in the working directory
const ProjectConfigFile = ".relink.toml"

// EnvPrefix is the prefix of environment overrides. The first underscore after
// it separates the section from the key: RELINK_POLICY_RESET_EFFECTS sets
// policy.reset_effects.
const EnvPrefix = "RELINK_"

// Config is the merged relink configuration
type Config struct {
	Policy  fields.Policy `koanf:"policy"`
	Match   Match         `koanf:"match"`
	Output  Output        `koanf:"output"`
	Library Library       `koanf:"library"`

	// Sources lists the files that were merged, lowest precedence first
	Sources []string `koanf:"-"`
}

// Match holds criterion defaults
type Match struct {
	CaseSensitive bool `koanf:"case_sensitive"`
}

// Output holds report rendering settings
type Output struct {
	Format string `koanf:"format"`
}

// Library lists where templates are loaded from
type Library struct {
	Paths []string `koanf:"paths"`
}

// FieldPolicy returns the configured policy with a normalized update set
func (c *Config) FieldPolicy() fields.Policy {
	return c.Policy.Normalize()
}

// ReportFormat parses the configured output format
func (c *Config) ReportFormat() (report.Format, error) {
	return report.ParseFormat(c.Output.Format)
}
