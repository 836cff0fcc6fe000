package configs

import (
	"strings"
	"time"

	"github.com/tmacey/keystash/internal/utils"
)

// Params holds the process-wide template parameters available to format
// strings in the config file ({date}, {user}, {host}). It is constructed
// once at startup and threaded explicitly into everything that expands
// templates.
type Params struct {
	Date time.Time
	User string
	Host string
}

// NewParams captures the current date, user, and host.
func NewParams() (Params, error) {
	user, err := utils.GetUsername()
	if err != nil {
		return Params{}, err
	}
	host, err := utils.GetHostname()
	if err != nil {
		return Params{}, err
	}
	return Params{Date: time.Now(), User: user, Host: host}, nil
}

// Expand substitutes {date}, {user}, and {host} placeholders in s.
func (p Params) Expand(s string) string {
	r := strings.NewReplacer(
		"{date}", p.Date.Format("2006-01-02"),
		"{user}", p.User,
		"{host}", p.Host,
	)
	return r.Replace(s)
}
