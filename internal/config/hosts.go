package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// hostsFile is the YAML shape of a wiki credentials file:
//
//	hosts:
//	  - host: example.atlassian.net
//	    token: ${TOKEN}
type hostsFile struct {
	Hosts []hostEntry `yaml:"hosts"`
}

type hostEntry struct {
	Host  string `yaml:"host"`
	Token string `yaml:"token"`
}

// LoadHosts reads wiki credentials from a YAML file. Token values support
// ${VAR} expansion from the environment so tokens can stay out of the file.
func LoadHosts(path string) ([]WikiHost, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hosts file: %w", err)
	}

	var parsed hostsFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse hosts file %s: %w", path, err)
	}

	wikis := make([]WikiHost, 0, len(parsed.Hosts))
	for i, h := range parsed.Hosts {
		if h.Host == "" {
			return nil, fmt.Errorf("hosts file %s: entry %d has no host", path, i)
		}
		wikis = append(wikis, NewWikiHost(h.Host, os.ExpandEnv(h.Token)))
	}
	return wikis, nil
}
