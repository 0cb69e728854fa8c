package http

import (
	"github.com/IlianBuh/Blog-service/internal/config/duration"
)

type Config struct {
	Port     int               `json:"port" yaml:"port"`
	Timeout  duration.Duration `json:"timeout" yaml:"timeout"`
	LoginURL string            `json:"login-url" yaml:"login-url"`
	// Templates is a directory overriding embedded templates
	Templates string `json:"templates,omitempty" yaml:"templates,omitempty"`
}
