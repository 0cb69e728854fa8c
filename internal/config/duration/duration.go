package duration

import (
	"encoding/json"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is custom duration type to unmarshal configuration. Only string
// format of the value is supported
type Duration struct {
	time.Duration
}

// UnmarshalJSON unmarshal data from json to duration
func (d *Duration) UnmarshalJSON(b []byte) error {
	value := ""

	err := json.Unmarshal(b, &value)
	if err != nil {
		return err
	}

	return d.parse(value)
}

// UnmarshalYAML unmarshal data from yaml node to duration
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	value := ""

	err := node.Decode(&value)
	if err != nil {
		return err
	}

	return d.parse(value)
}

func (d *Duration) parse(value string) error {
	var err error

	d.Duration, err = time.ParseDuration(value)
	if err != nil {
		return err
	}

	return nil
}
