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

package plugin_test

import (
	"testing"

	"github.com/blinklabs-io/daocake/database/plugin"
)

// Mock plugin implementation for testing
type mockPlugin struct{}

func (m *mockPlugin) Start() error { return nil }
func (m *mockPlugin) Stop() error  { return nil }

func TestRegister(t *testing.T) {
	pluginName := "test-plugin-" + t.Name()
	testEntry := plugin.PluginEntry{
		Type:               plugin.PluginTypeBlob,
		Name:               pluginName,
		NewFromOptionsFunc: func() plugin.Plugin { return &mockPlugin{} },
	}

	plugin.Register(testEntry)

	// Check that GetPlugin finds it
	p := plugin.GetPlugin(plugin.PluginTypeBlob, pluginName)
	if p == nil {
		t.Error("plugin not found")
	}

	// Check that GetPlugins includes it
	plugins := plugin.GetPlugins(plugin.PluginTypeBlob)
	found := false
	for _, pl := range plugins {
		if pl.Name == pluginName && pl.Type == plugin.PluginTypeBlob {
			found = true
			break
		}
	}
	if !found {
		t.Error("plugin not in GetPlugins list")
	}
}

func TestGetPluginsFiltersByType(t *testing.T) {
	blobName := "blob-test-" + t.Name()
	otherName := "other-test-" + t.Name()

	plugin.Register(plugin.PluginEntry{
		Type:               plugin.PluginTypeBlob,
		Name:               blobName,
		NewFromOptionsFunc: func() plugin.Plugin { return &mockPlugin{} },
	})
	plugin.Register(plugin.PluginEntry{
		Type:               plugin.PluginType(99),
		Name:               otherName,
		NewFromOptionsFunc: func() plugin.Plugin { return &mockPlugin{} },
	})

	for _, p := range plugin.GetPlugins(plugin.PluginTypeBlob) {
		if p.Name == otherName {
			t.Errorf("found plugin %s of another type in blob list", otherName)
		}
	}
	if p := plugin.GetPlugin(plugin.PluginTypeBlob, otherName); p != nil {
		t.Errorf("GetPlugin returned plugin %s for wrong type", otherName)
	}
}

func TestGetPluginNotFound(t *testing.T) {
	if p := plugin.GetPlugin(plugin.PluginTypeBlob, "nonexistent"); p != nil {
		t.Error("expected nil for nonexistent plugin")
	}
}

func TestPluginTypeName(t *testing.T) {
	if name := plugin.PluginTypeName(plugin.PluginTypeBlob); name != "blob" {
		t.Errorf("expected blob, got %s", name)
	}
	if name := plugin.PluginTypeName(plugin.PluginType(99)); name != "unknown" {
		t.Errorf("expected unknown, got %s", name)
	}
}
