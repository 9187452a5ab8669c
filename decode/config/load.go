/*
DESCRIPTION
  load.go reads configuration variables from a TOML file.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml"
)

// Load reads the TOML file at path and returns its top level keys and values
// in the form accepted by Config.Update.
func Load(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read parses TOML from r and returns its top level keys and values in the
// form accepted by Config.Update. Tables and arrays are rejected.
func Read(r io.Reader) (map[string]string, error) {
	tree, err := toml.LoadReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}

	vars := make(map[string]string)
	for k, v := range tree.ToMap() {
		switch v.(type) {
		case map[string]interface{}, []interface{}, []map[string]interface{}:
			return nil, fmt.Errorf("config key %s: expected a single value", k)
		}
		vars[k] = fmt.Sprint(v)
	}
	return vars, nil
}
