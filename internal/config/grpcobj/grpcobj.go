package grpcobj

import (
	"github.com/IlianBuh/Blog-service/internal/config/duration"
)

// GRPCObj object representation of grpc server configuration.
// Zero port disables the server
type GRPCObj struct {
	Port    int               `json:"port" yaml:"port"`
	Timeout duration.Duration `json:"timeout" yaml:"timeout"`
}
