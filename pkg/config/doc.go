// Package config loads and validates strata configuration files.
package config
