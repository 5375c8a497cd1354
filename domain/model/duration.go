package model

import (
	"encoding/json"
	"time"

	"github.com/sosodev/duration"
)

// Duration is an ISO-8601 duration as published by the API together with its parsed value.
type Duration struct {
	ISO   string
	Value time.Duration
}

// ParseDuration parses strings such as "PT4M13S" or "P1DT2H".
func ParseDuration(s string) (Duration, error) {
	d, err := duration.Parse(s)
	if err != nil {
		return Duration{}, err
	}
	return Duration{ISO: s, Value: d.ToTimeDuration()}, nil
}

func (d Duration) String() string {
	return d.ISO
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.ISO)
}
