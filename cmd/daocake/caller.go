// Copyright 2026 Blink Labs Software
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

package main

import (
	"errors"
	"fmt"

	"github.com/blinklabs-io/daocake/governance"
	"github.com/blinklabs-io/daocake/internal/config"
	"github.com/blinklabs-io/daocake/internal/identity"
)

var errNoCaller = errors.New(
	"no caller configured: set --caller or --caller-key-file",
)

// resolveCaller builds the acting identity from either a hex key hash or a
// key file. Callers loaded from a key file carry the verification key as
// their token
func resolveCaller(cfg *config.Config) (governance.Caller, error) {
	switch {
	case cfg.CallerKeyFile != "":
		key, err := identity.LoadKeyFile(cfg.CallerKeyFile)
		if err != nil {
			return governance.Caller{}, fmt.Errorf("load caller key: %w", err)
		}
		return governance.Caller{
			Principal: key.Principal(),
			Token:     []byte(key.VKey),
		}, nil
	case cfg.Caller != "":
		principal, err := identity.ParsePrincipal(cfg.Caller)
		if err != nil {
			return governance.Caller{}, err
		}
		return governance.Caller{Principal: principal}, nil
	default:
		return governance.Caller{}, errNoCaller
	}
}
