package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Template renders Default() as TOML.
func Template() (string, error) {
	data, err := toml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("config template render failed: %w", err)
	}
	return templateHeader + string(data), nil
}

func WriteTemplate(path string, overwrite bool) error {
	template, err := Template()
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const templateHeader = `# memstream configuration
# byte_order: "little" (engine wire order) or "big"
# narrow_charset: IANA name of a single-byte charset used by STRING values
# truncate_integers: keep low-order bytes of out-of-range integers instead of failing

`
