// Package config provides configuration management for tipitakafetch.
//
// It defines default values, the main Config struct populated from CLI
// flags, the registry of Nikaya ID ranges on the source site, and loading
// of the optional .tipitakafetch YAML file that can override fetch defaults
// and Nikaya ranges.
//
// Configuration follows XDG Base Directory conventions for locating the
// fetch database and downloaded text batches.
package config
