package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/fields"
)

// SavePolicy writes policy into the [policy] table of the TOML file at path,
// keeping every other table. The file is created if needed.
func SavePolicy(path string, policy fields.Policy) error {
	doc := make(map[string]interface{})

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &doc); err != nil {
			return errors.Wrapf(err, errors.ErrConfigParse, "cannot parse %s", path)
		}
	case !os.IsNotExist(err):
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot read %s", path)
	}

	policy = policy.Normalize()
	if policy.UpdateFields == nil {
		policy.UpdateFields = []string{}
	}
	doc["policy"] = policy

	out, err := toml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot encode policy")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot create directory for %s", path)
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot write %s", path)
	}
	return nil
}
