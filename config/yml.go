package config

import (
	"fmt"

	yaml "gopkg.in/yaml.v2"
)

/*
ReadYML takes a slice of bytes with a YAML object with a property for each
option and returns them as a map of option names to their values as strings.
Options must have scalar values.
*/
func ReadYML(data []byte) (map[string]string, error) {
	raw := map[string]interface{}{}
	err := yaml.Unmarshal(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("parsing yml options: %v", err)
	}
	options := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v.(type) {
		case string, int, int64, float64, bool:
			options[k] = fmt.Sprintf("%v", v)
		case nil:
		default:
			return nil, fmt.Errorf("invalid value of type %T for option %s", v, k)
		}
	}
	return options, nil
}
