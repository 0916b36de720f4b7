package jabber

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hjson/hjson-go"
	log "github.com/sirupsen/logrus"
)

const maxConfigFileSize = 2777216

// ReadConfig probes a list of candidate paths for an hjson config file:
// skip unreadable or oversized candidates, log and continue, first
// successful parse wins.
func (b *Bot) ReadConfig() error {
	executablePath, err := os.Executable()

	if err != nil {
		return fmt.Errorf("unable to get current executable path: %w", err)
	}

	configJSONPath := filepath.Join(filepath.Dir(executablePath), "data", "config.json")

	locations := []string{
		"~/.groupchat-relay-bot.json",
		"/etc/groupchat-relay-bot.json",
		configJSONPath,
	}

	for _, location := range locations {
		cfg, ok := tryLoadConfig(location)

		if !ok {
			continue
		}

		if err := applyDefaults(&cfg); err != nil {
			return err
		}

		b.C = cfg

		log.Infof("Using %s as config file", location)

		return nil
	}

	return errors.New("config was not loaded")
}

func tryLoadConfig(location string) (Config, bool) {
	var cfg Config

	location = expandHome(location)

	fileInfo, err := os.Stat(location)

	if err != nil {
		return cfg, false
	}

	if fileInfo.Size() > maxConfigFileSize {
		log.Warnf("Config file %s is too long for config, skipping", location)

		return cfg, false
	}

	buf, err := os.ReadFile(location)

	if err != nil {
		log.Warnf("Skip reading config file %s: %s", location, err)

		return cfg, false
	}

	var tmp map[string]interface{}

	if err := hjson.Unmarshal(buf, &tmp); err != nil {
		log.Warnf("Skip parsing config file %s: %s", location, err)

		return cfg, false
	}

	tmpJSON, err := json.Marshal(tmp)

	if err != nil {
		log.Warnf("Skip parsing config file %s: %s", location, err)

		return cfg, false
	}

	if err := json.Unmarshal(tmpJSON, &cfg); err != nil {
		log.Warnf("Skip parsing config file %s: %s", location, err)

		return cfg, false
	}

	return cfg, true
}

func applyDefaults(cfg *Config) error {
	if cfg.Jabber.Server == "" {
		log.Error("Jabber server is not defined in config, using localhost")

		cfg.Jabber.Server = "localhost"
	}

	if cfg.Jabber.Port == 0 {
		cfg.Jabber.Port = 5222

		if cfg.Jabber.Ssl && !cfg.Jabber.StartTLS {
			cfg.Jabber.Port = 5223
		}

		log.Infof("Jabber port is not defined in config, using %d", cfg.Jabber.Port)
	}

	if !cfg.Jabber.Ssl {
		cfg.Jabber.StartTLS = false
		cfg.Jabber.SslVerify = false
	}

	if cfg.Jabber.Resource == "" {
		cfg.Jabber.Resource = "groupchat-relay-bot"
	}

	if cfg.Jabber.ConnectionTimeoutS == 0 {
		cfg.Jabber.ConnectionTimeoutS = 10

		log.Info("connection_timeout_s not defined in config, using 10 seconds")
	}

	if cfg.Jabber.ReconnectDelayS == 0 {
		cfg.Jabber.ReconnectDelayS = 3

		log.Info("reconnect_delay_s not defined in config, using 3 seconds")
	}

	if cfg.CredentialsFile == "" {
		return errors.New("credentials_file is not defined in config, quitting")
	}

	if cfg.StateFile == "" {
		cfg.StateFile = "groupchat-relay-bot.state.yaml"

		log.Info("state_file not defined in config, using groupchat-relay-bot.state.yaml")
	}

	if cfg.SaveIntervalS == 0 {
		cfg.SaveIntervalS = 10

		log.Info("save_interval_s not defined in config, using 10 seconds")
	}

	if cfg.BatchIntervalMs == 0 {
		cfg.BatchIntervalMs = 1000

		log.Info("batch_interval_ms not defined in config, using 1000ms")
	}

	if cfg.CSign == "" {
		cfg.CSign = "/"
	}

	if cfg.CSign != "/" {
		return fmt.Errorf("csign must be %q, got %q", "/", cfg.CSign)
	}

	if cfg.Loglevel == "" {
		cfg.Loglevel = "info"

		log.Info("loglevel not defined in config, using info")
	}

	return nil
}

// expandHome resolves a leading "~/" in a config candidate path, since
// os.Stat never expands it itself.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	home, err := os.UserHomeDir()

	if err != nil {
		return path
	}

	return filepath.Join(home, path[2:])
}
