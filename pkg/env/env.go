// Copyright 2025 UMH Systems GmbH
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package env reads typed settings from environment variables. Getters return the
// default when the variable is unset and an error when it is required and missing or
// set but malformed.
package env

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

func lookup(key string, required bool) (string, bool, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		if required {
			return "", false, fmt.Errorf("required environment variable %s is not set", key)
		}

		return "", false, nil
	}

	return value, true, nil
}

func GetAsString(key string, required bool, defaultValue string) (string, error) {
	value, ok, err := lookup(key, required)
	if err != nil || !ok {
		return defaultValue, err
	}

	return value, nil
}

func GetAsBool(key string, required bool, defaultValue bool) (bool, error) {
	value, ok, err := lookup(key, required)
	if err != nil || !ok {
		return defaultValue, err
	}

	switch strings.ToLower(value) {
	case "true", "1", "yes", "y", "on":
		return true, nil
	case "false", "0", "no", "n", "off":
		return false, nil
	default:
		return defaultValue, fmt.Errorf("environment variable %s must be a boolean value, got %q", key, value)
	}
}

// GetAsDuration accepts Go duration syntax, e.g. "30s" or "1m30s".
func GetAsDuration(key string, required bool, defaultValue time.Duration) (time.Duration, error) {
	value, ok, err := lookup(key, required)
	if err != nil || !ok {
		return defaultValue, err
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue, fmt.Errorf("environment variable %s must be a duration: %w", key, err)
	}

	return d, nil
}

// GetAsURL requires an absolute http(s) URL.
func GetAsURL(key string, required bool, defaultValue string) (string, error) {
	value, ok, err := lookup(key, required)
	if err != nil || !ok {
		return defaultValue, err
	}

	u, err := url.Parse(value)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return defaultValue, fmt.Errorf("environment variable %s must be an absolute http(s) URL, got %q", key, value)
	}

	return value, nil
}
