package userProvider

import (
	"github.com/IlianBuh/Blog-service/internal/config/duration"
)

// Config of SSO user-info client. Empty host disables identity checks
type Config struct {
	Host    string            `json:"host" yaml:"host"`
	Port    int               `json:"port" yaml:"port"`
	Timeout duration.Duration `json:"timeout" yaml:"timeout"`
}
