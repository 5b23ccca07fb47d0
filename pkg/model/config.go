// SPDX-FileCopyrightText: 2026-present Cellplan Project <info@cellplan.io>
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"bytes"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// LoadScenario reads a scenario definition from a YAML file, applies the
// default radio parameters and validates the result.
func LoadScenario(path string) (*Scenario, error) {
	cfg := viper.New()
	cfg.SetConfigFile(path)
	if err := cfg.ReadInConfig(); err != nil {
		return nil, err
	}
	return decodeScenario(cfg)
}

// LoadScenarioFromBytes loads a scenario from raw YAML, for callers that
// fetch definitions from somewhere other than the filesystem.
func LoadScenarioFromBytes(data []byte) (*Scenario, error) {
	cfg := viper.New()
	cfg.SetConfigType("yaml")
	if err := cfg.ReadConfig(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return decodeScenario(cfg)
}

func decodeScenario(cfg *viper.Viper) (*Scenario, error) {
	// Shadowing is on unless explicitly disabled; a bool field cannot
	// express that on its own.
	cfg.SetDefault("shadowing", true)
	sc := &Scenario{}
	if err := cfg.Unmarshal(sc); err != nil {
		return nil, err
	}
	sc.ApplyDefaults()
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	log.Debugf("loaded scenario %q: %d transmitters, %d receivers, %.2f GHz %s %s",
		sc.Name, sc.TransmitterCount(), sc.ReceiverCount, sc.FrequencyGHz,
		sc.Generation, sc.Environment)
	return sc, nil
}
