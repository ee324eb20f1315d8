// Package hook reads the file telling where emails are delivered.
package hook

import (
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

func Load(filename string) (Config, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, err
	}
	return Parse(content)
}

func Parse(content []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type Config struct {
	// Base URL of the site, prefixed to links in emails.
	Host string `yaml:"host,omitempty"`

	// Endpoints sending transactional emails (invest_success and so on).
	Mail WebHook `yaml:"mail,omitempty"`

	// Endpoints synchronizing the newsletter mailing list.
	MailingList WebHook `yaml:"mailing-list,omitempty"`
}

// WebHook is a list of URLs. Payloads are posted as JSON to each of them.
type WebHook struct {
	URLs []*url.URL
}

func (wh *WebHook) UnmarshalYAML(node *yaml.Node) error {
	raw := []string{}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	wh.URLs = make([]*url.URL, len(raw))
	for i, u := range raw {
		parsed, err := url.Parse(u)
		if err != nil {
			return err
		}
		wh.URLs[i] = parsed
	}
	return nil
}

// Empty reports whether the hook has no URLs.
func (wh WebHook) Empty() bool {
	return len(wh.URLs) == 0
}
