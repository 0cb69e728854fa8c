package kafka

// Config of event producer. Empty addrs disables publishing
type Config struct {
	Addrs   []string `json:"addrs" yaml:"addrs"`
	Topic   string   `json:"topic" yaml:"topic"`
	Timeout int      `json:"timeout" yaml:"timeout"`
	Retries int      `json:"retries" yaml:"retries"`
}
