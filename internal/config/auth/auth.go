package auth

type Config struct {
	Secret string `json:"secret" yaml:"secret"`
	Cookie string `json:"cookie" yaml:"cookie"`
}
