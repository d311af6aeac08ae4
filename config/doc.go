// Package config loads registry tool settings from .env files and the environment.
package config
