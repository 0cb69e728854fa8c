package postgres

import (
	"net/url"
	"testing"

	cfgStorage "github.com/IlianBuh/Blog-service/internal/config/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		password string
	}{
		{name: "plain", user: "blog", password: "secret"},
		{name: "reserved characters", user: "blog@home", password: "p@ss/w#rd?x=1"},
		{name: "spaces and percent", user: "blog", password: "100% sure "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn := DSN(cfgStorage.Config{
				DBName:   "blog",
				User:     tt.user,
				Password: tt.password,
				Host:     "db",
				Port:     5432,
				Timeout:  5,
			})

			u, err := url.Parse(dsn)
			require.NoError(t, err)

			password, _ := u.User.Password()
			assert.Equal(t, "postgres", u.Scheme)
			assert.Equal(t, tt.user, u.User.Username())
			assert.Equal(t, tt.password, password)
			assert.Equal(t, "db:5432", u.Host)
			assert.Equal(t, "/blog", u.Path)
			assert.Equal(t, "disable", u.Query().Get("sslmode"))
			assert.Equal(t, "5", u.Query().Get("connect_timeout"))
		})
	}
}
