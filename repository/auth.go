// SPDX-FileCopyrightText: Copyright 2025 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/stacklok/skillpack-core/env"
	vldhttp "github.com/stacklok/skillpack-core/validation/http"
)

// AuthType identifies an authentication mechanism.
type AuthType string

// Supported authentication mechanisms.
const (
	// AuthTypePat authenticates with a personal access token read from an
	// environment variable, sent as "token <value>".
	AuthTypePat AuthType = "pat"
	// AuthTypeSSHKey points at an SSH private key used for git transport.
	AuthTypeSSHKey AuthType = "ssh-key"
	// AuthTypeSSH points at an SSH private key used for git transport.
	// Retained as a distinct spelling for configs that predate ssh-key.
	AuthTypeSSH AuthType = "ssh"
	// AuthTypeBasic authenticates with HTTP basic auth; the password is
	// read from an environment variable.
	AuthTypeBasic AuthType = "basic"
	// AuthTypeAPIKey authenticates with a bearer token read from an
	// environment variable, sent as "Bearer <value>".
	AuthTypeAPIKey AuthType = "api_key"
)

// Auth configures how a repository authenticates. It stores only references
// to secrets: the environment variable holding a token, or the path of a key
// file. Secret values are resolved lazily per call and never stored back.
type Auth struct {
	// Type selects the mechanism.
	Type AuthType `toml:"type" json:"type"`

	// EnvVar names the environment variable holding the token (pat and
	// api_key).
	EnvVar string `toml:"env_var,omitempty" json:"env_var,omitempty"`

	// Path is the SSH private key location (ssh-key).
	Path string `toml:"path,omitempty" json:"path,omitempty"`

	// KeyPath is the SSH private key location (ssh).
	KeyPath string `toml:"key_path,omitempty" json:"key_path,omitempty"`

	// Username is the HTTP basic auth user (basic).
	Username string `toml:"username,omitempty" json:"username,omitempty"`

	// PasswordEnv names the environment variable holding the HTTP basic
	// auth password (basic).
	PasswordEnv string `toml:"password_env,omitempty" json:"password_env,omitempty"`
}

// Validate checks that the auth configuration carries the reference its
// mechanism needs.
func (a *Auth) Validate() error {
	switch a.Type {
	case AuthTypePat, AuthTypeAPIKey:
		if a.EnvVar == "" {
			return fmt.Errorf("auth type %q requires env_var", a.Type)
		}
	case AuthTypeSSHKey:
		if a.Path == "" {
			return fmt.Errorf("auth type %q requires path", a.Type)
		}
	case AuthTypeSSH:
		if a.KeyPath == "" {
			return fmt.Errorf("auth type %q requires key_path", a.Type)
		}
	case AuthTypeBasic:
		if a.Username == "" || a.PasswordEnv == "" {
			return fmt.Errorf("auth type %q requires username and password_env", a.Type)
		}
	default:
		return fmt.Errorf("unknown auth type %q", a.Type)
	}
	return nil
}

// Configured reports whether the referenced secret is currently resolvable.
func (a *Auth) Configured(environ env.Reader) bool {
	switch a.Type {
	case AuthTypePat, AuthTypeAPIKey:
		return environ.Getenv(a.EnvVar) != ""
	case AuthTypeBasic:
		return environ.Getenv(a.PasswordEnv) != ""
	case AuthTypeSSHKey:
		_, err := os.Stat(a.Path)
		return err == nil
	case AuthTypeSSH:
		_, err := os.Stat(a.KeyPath)
		return err == nil
	default:
		return false
	}
}

// Header resolves the Authorization header value for HTTP transports. The
// secret is read from the environment on every call so rotated credentials
// take effect without reloading configuration.
//
// SSH mechanisms authenticate the git transport, not HTTP; asking them for a
// header is an error.
func (a *Auth) Header(environ env.Reader) (string, error) {
	var value string

	switch a.Type {
	case AuthTypePat:
		token := environ.Getenv(a.EnvVar)
		if token == "" {
			return "", fmt.Errorf("access token not found: set the %s environment variable", a.EnvVar)
		}
		value = "token " + token
	case AuthTypeAPIKey:
		key := environ.Getenv(a.EnvVar)
		if key == "" {
			return "", fmt.Errorf("API key not found: set the %s environment variable", a.EnvVar)
		}
		value = "Bearer " + key
	case AuthTypeBasic:
		password := environ.Getenv(a.PasswordEnv)
		if password == "" {
			return "", fmt.Errorf("password not found: set the %s environment variable", a.PasswordEnv)
		}
		creds := base64.StdEncoding.EncodeToString([]byte(a.Username + ":" + password))
		value = "Basic " + creds
	case AuthTypeSSHKey, AuthTypeSSH:
		return "", fmt.Errorf("auth type %q authenticates the git transport, not HTTP requests", a.Type)
	default:
		return "", fmt.Errorf("unknown auth type %q", a.Type)
	}

	if err := vldhttp.ValidateHeaderValue(value); err != nil {
		return "", fmt.Errorf("resolved credential is not a valid header value: %w", err)
	}

	return value, nil
}
