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

package plugin

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

type PluginOptionType int

const (
	PluginOptionTypeString PluginOptionType = 1
	PluginOptionTypeBool   PluginOptionType = 2
	PluginOptionTypeInt    PluginOptionType = 3
	PluginOptionTypeUint   PluginOptionType = 4
)

const envVarPrefix = "DAOCAKE"

type PluginOption struct {
	DefaultValue any
	Dest         any
	Name         string
	Description  string
	Type         PluginOptionType
}

// flagName returns the command line flag for an option, e.g. blob-badger-gc
func (o PluginOption) flagName(pluginType PluginType, pluginName string) string {
	return strings.Join(
		[]string{PluginTypeName(pluginType), pluginName, o.Name},
		"-",
	)
}

// envVarName returns the environment variable for an option, e.g.
// DAOCAKE_BLOB_BADGER_DATA_DIR
func (o PluginOption) envVarName(pluginType PluginType, pluginName string) string {
	ret := strings.Join(
		[]string{envVarPrefix, PluginTypeName(pluginType), pluginName, o.Name},
		"_",
	)
	return strings.ToUpper(strings.ReplaceAll(ret, "-", "_"))
}

func (o PluginOption) addToFlagSet(
	fs *pflag.FlagSet,
	pluginType PluginType,
	pluginName string,
) error {
	name := o.flagName(pluginType, pluginName)
	switch o.Type {
	case PluginOptionTypeString:
		dest, ok := o.Dest.(*string)
		def, ok2 := o.DefaultValue.(string)
		if !ok || !ok2 {
			return fmt.Errorf("invalid string option %s", name)
		}
		fs.StringVar(dest, name, def, o.Description)
	case PluginOptionTypeBool:
		dest, ok := o.Dest.(*bool)
		def, ok2 := o.DefaultValue.(bool)
		if !ok || !ok2 {
			return fmt.Errorf("invalid bool option %s", name)
		}
		fs.BoolVar(dest, name, def, o.Description)
	case PluginOptionTypeInt:
		dest, ok := o.Dest.(*int)
		def, ok2 := o.DefaultValue.(int)
		if !ok || !ok2 {
			return fmt.Errorf("invalid int option %s", name)
		}
		fs.IntVar(dest, name, def, o.Description)
	case PluginOptionTypeUint:
		dest, ok := o.Dest.(*uint64)
		def, ok2 := o.DefaultValue.(uint64)
		if !ok || !ok2 {
			return fmt.Errorf("invalid uint option %s", name)
		}
		fs.Uint64Var(dest, name, def, o.Description)
	default:
		return fmt.Errorf("unknown plugin option type %d for option %s", o.Type, name)
	}
	return nil
}

func (o PluginOption) parseString(val string) (any, error) {
	switch o.Type {
	case PluginOptionTypeString:
		return val, nil
	case PluginOptionTypeBool:
		return strconv.ParseBool(val)
	case PluginOptionTypeInt:
		return strconv.Atoi(val)
	case PluginOptionTypeUint:
		return strconv.ParseUint(val, 10, 64)
	default:
		return nil, fmt.Errorf("unknown plugin option type %d for option %s", o.Type, o.Name)
	}
}

// PopulateCmdlineOptions adds a flag for every registered plugin option
func PopulateCmdlineOptions(fs *pflag.FlagSet) error {
	pluginEntriesMu.RLock()
	defer pluginEntriesMu.RUnlock()
	for _, p := range pluginEntries {
		for _, opt := range p.Options {
			if err := opt.addToFlagSet(fs, p.Type, p.Name); err != nil {
				return err
			}
		}
	}
	return nil
}

// ProcessEnvVars applies plugin options from environment variables
func ProcessEnvVars() error {
	pluginEntriesMu.RLock()
	defer pluginEntriesMu.RUnlock()
	for _, p := range pluginEntries {
		for _, opt := range p.Options {
			val, ok := os.LookupEnv(opt.envVarName(p.Type, p.Name))
			if !ok {
				continue
			}
			parsed, err := opt.parseString(val)
			if err != nil {
				return fmt.Errorf(
					"invalid value for %s: %w",
					opt.envVarName(p.Type, p.Name),
					err,
				)
			}
			if err := opt.assign(parsed); err != nil {
				return err
			}
		}
	}
	return nil
}

// ProcessConfig applies plugin options from a parsed config file. The map is
// keyed by plugin type name, then plugin name, then option name
func ProcessConfig(pluginConfig map[string]map[string]map[string]any) error {
	pluginEntriesMu.RLock()
	defer pluginEntriesMu.RUnlock()
	for _, p := range pluginEntries {
		typeConfig, ok := pluginConfig[PluginTypeName(p.Type)]
		if !ok {
			continue
		}
		options, ok := typeConfig[p.Name]
		if !ok {
			continue
		}
		for _, opt := range p.Options {
			val, ok := options[opt.Name]
			if !ok {
				continue
			}
			// YAML numbers and strings arrive untyped
			if s, isString := val.(string); isString && opt.Type != PluginOptionTypeString {
				parsed, err := opt.parseString(s)
				if err != nil {
					return fmt.Errorf("invalid value for option %s: %w", opt.Name, err)
				}
				val = parsed
			}
			if opt.Type == PluginOptionTypeUint {
				if i, isInt := val.(int); isInt && i >= 0 {
					val = uint64(i)
				}
			}
			if err := opt.assign(val); err != nil {
				return err
			}
		}
	}
	return nil
}
