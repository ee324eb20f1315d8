package echoutil_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/investperdiem/perdiem/pkg/echoutil"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

func TestParseLevel(t *testing.T) {
	for name, testcase := range map[string]struct {
		when   string
		then   log.Lvl
		thenOk bool
	}{
		"debug":         {when: "debug", then: log.DEBUG, thenOk: true},
		"upper INFO":    {when: "INFO", then: log.INFO, thenOk: true},
		"warn":          {when: "warn", then: log.WARN, thenOk: true},
		"empty":         {when: "", then: log.WARN, thenOk: true},
		"error":         {when: "error", then: log.ERROR, thenOk: true},
		"off":           {when: "off", then: log.OFF, thenOk: true},
		"unknown level": {when: "verbose", then: log.WARN, thenOk: false},
	} {
		t.Run(name, func(t *testing.T) {
			actual, ok := echoutil.ParseLevel(testcase.when)
			if actual != testcase.then || ok != testcase.thenOk {
				t.Errorf(
					"(actual, expected) = ((%v, %v), (%v, %v))",
					actual, ok, testcase.then, testcase.thenOk,
				)
			}
		})
	}
}

func TestLogHandlerFunc(t *testing.T) {
	e := echo.New()
	buf := new(bytes.Buffer)
	e.Logger.SetOutput(buf)
	echoutil.SetLevel(e, "info")
	e.Use(echoutil.LogHandlerFunc)
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusTeapot, "pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("status: (actual, expected) = (%d, %d)", rec.Code, http.StatusTeapot)
	}
	logs := buf.String()
	if !strings.Contains(logs, "< request GET /ping") {
		t.Errorf("request is not logged: %s", logs)
	}
	if !strings.Contains(logs, "> response 418 for GET /ping") {
		t.Errorf("response is not logged: %s", logs)
	}
}
