/*
 * config.go, part of goace.
 *
 * Copyright 2026 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

package main

import (
	"fmt"
	"os"

	"github.com/rmera/goace/onep"
	"github.com/rmera/goace/symbasis"
	"github.com/rmera/goace/xyz"
	"gopkg.in/yaml.v3"
)

// Config describes a symmetric basis.
type Config struct {
	Order    int             `yaml:"order"`
	MaxDeg   float64         `yaml:"maxdeg"`
	Property string          `yaml:"property"`
	L        int             `yaml:"L"`
	Radial   onep.RYlmParams `yaml:"radial"`
	Species  []string        `yaml:"species"`
}

// DefaultConfig returns an invariant basis of body order 4 (3 neighbors).
func DefaultConfig() *Config {
	return &Config{
		Order:    3,
		MaxDeg:   6,
		Property: "invariant",
		Radial:   onep.RYlmParams{WL: 1, RIn: 0.5, RCut: 5},
	}
}

// LoadConfig reads a YAML configuration from the file name. Fields not
// present in the file keep their default values. An empty name means the defaults.
func LoadConfig(name string) (*Config, error) {
	c := DefaultConfig()
	if name != "" {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", name, err)
		}
	}
	if c.Radial.MaxDeg == 0 {
		c.Radial.MaxDeg = c.MaxDeg
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate returns an error if the configuration doesn't describe a basis.
func (c *Config) Validate() error {
	if c.Order < 1 {
		return fmt.Errorf("order must be positive, got %d", c.Order)
	}
	if c.MaxDeg <= 0 {
		return fmt.Errorf("maxdeg must be positive, got %g", c.MaxDeg)
	}
	if _, err := c.property(); err != nil {
		return err
	}
	if err := c.Radial.Check(); err != nil {
		return err
	}
	if _, err := c.SpeciesZ(); err != nil {
		return err
	}
	return nil
}

func (c *Config) property() (symbasis.Property, error) {
	return symbasis.ParseProperty(c.Property, c.L)
}

// SpeciesZ returns the atomic numbers of the species in the configuration.
func (c *Config) SpeciesZ() ([]int, error) {
	ret := make([]int, 0, len(c.Species))
	for _, s := range c.Species {
		z, ok := xyz.Z(s)
		if !ok {
			return nil, fmt.Errorf("unknown species %q", s)
		}
		ret = append(ret, z)
	}
	return ret, nil
}

// Build builds the basis described by the configuration.
func (c *Config) Build() (*symbasis.SymmetricBasis, error) {
	prop, err := c.property()
	if err != nil {
		return nil, err
	}
	rb, err := onep.NewRYlm(c.Radial)
	if err != nil {
		return nil, err
	}
	return symbasis.NewSymmetricBasis(rb, c.Order, c.MaxDeg, prop)
}
