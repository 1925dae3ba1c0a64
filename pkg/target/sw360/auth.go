// Copyright 2025 Interlynk.io
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

package sw360

import (
	"context"
	"net/http"

	"github.com/viveksahu26/sw360sync/pkg/logger"
	"golang.org/x/oauth2"
)

// ResolveToken returns the bearer token for cfg. A configured token wins;
// otherwise the password grant is performed against AuthURL.
func ResolveToken(ctx context.Context, cfg Config) (string, error) {
	if cfg.Token != "" {
		return cfg.Token, nil
	}
	if cfg.AuthURL == "" || cfg.Username == "" || cfg.Password == "" {
		return "", &ConfigurationError{
			Setting: "token",
			Reason:  "set SW360_TOKEN or provide auth url, username and password",
		}
	}

	logger.LogDebug(ctx, "Requesting sw360 token", "auth_url", cfg.AuthURL, "username", cfg.Username)

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL: cfg.AuthURL,
		},
	}

	if cfg.Timeout > 0 {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: cfg.Timeout})
	}

	token, err := oauthCfg.PasswordCredentialsToken(ctx, cfg.Username, cfg.Password)
	if err != nil {
		return "", &RemoteOperationError{Operation: "request token", Err: err}
	}
	return token.AccessToken, nil
}
