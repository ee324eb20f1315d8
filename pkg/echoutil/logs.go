// Package echoutil holds middlewares and settings shared by echo servers.
package echoutil

import (
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// LogHandlerFunc logs each request and its response.
func LogHandlerFunc(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		begin := time.Now()
		c.Logger().Infof("< request %s %s", req.Method, req.URL)

		err := next(c)

		c.Logger().Infof(
			"> response %d for %s %s (in %s) / error = %v",
			c.Response().Status, req.Method, req.URL, time.Since(begin), err,
		)
		return err
	}
}

// ParseLevel parses log level names: debug, info, warn, error and off.
//
// Empty string means warn.
func ParseLevel(level string) (log.Lvl, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG, true
	case "info":
		return log.INFO, true
	case "warn", "":
		return log.WARN, true
	case "error":
		return log.ERROR, true
	case "off":
		return log.OFF, true
	}
	return log.WARN, false
}

// SetLevel sets the level of e's logger. Unknown levels fall back to warn.
func SetLevel(e *echo.Echo, level string) {
	lvl, ok := ParseLevel(level)
	e.Logger.SetLevel(lvl)
	if !ok {
		e.Logger.Warnf("unknown loglevel: %s . fall back to warn", level)
	}
}
