package storage

const (
	DriverPQ  = "postgres"
	DriverPGX = "pgx"
)

// Config object representation of database configuration
type Config struct {
	Driver       string `json:"driver" yaml:"driver"`
	DBName       string `json:"dbname" yaml:"dbname"`
	User         string `json:"user" yaml:"user"`
	Password     string `json:"password" yaml:"password"`
	Host         string `json:"host" yaml:"host"`
	Port         int    `json:"port" yaml:"port"`
	Timeout      int    `json:"connection-timeout,omitempty" yaml:"connection-timeout,omitempty"`
	MaxOpenConns int    `json:"max-open-conns,omitempty" yaml:"max-open-conns,omitempty"`
	MaxIdleConns int    `json:"max-idle-conns,omitempty" yaml:"max-idle-conns,omitempty"`
}
