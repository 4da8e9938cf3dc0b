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
	"bytes"
	"encoding/hex"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blinklabs-io/daocake/database/models"
	"github.com/blinklabs-io/daocake/internal/config"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var (
	alicePrincipal = strings.Repeat("a1", 28)
	bobPrincipal   = strings.Repeat("b2", 28)
)

type cliEnv struct {
	t       *testing.T
	dataDir string
}

func newCliEnv(t *testing.T) *cliEnv {
	t.Helper()
	// Keep any user config file out of the way
	t.Setenv("HOME", t.TempDir())
	return &cliEnv{
		t:       t,
		dataDir: filepath.Join(t.TempDir(), "db"),
	}
}

// run executes the CLI against the environment's data directory and returns
// what it wrote to stdout
func (e *cliEnv) run(args ...string) (string, error) {
	e.t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--data-dir", e.dataDir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (e *cliEnv) mustRun(args ...string) map[string]string {
	e.t.Helper()
	out, err := e.run(args...)
	require.NoError(e.t, err, "args: %v", args)
	var ret map[string]string
	require.NoError(e.t, yaml.Unmarshal([]byte(out), &ret), out)
	return ret
}

func TestMembershipRoundTrip(t *testing.T) {
	env := newCliEnv(t)

	created := env.mustRun(
		"--caller", alicePrincipal,
		"org", "create", "--name", "acme", "--creator-name", "alice",
	)
	orgId := created["orgId"]
	require.Len(t, orgId, 2*models.IdSize)

	added := env.mustRun(
		"--caller", bobPrincipal,
		"member", "add", "--org", orgId, "--name", "bob",
	)
	assert.Equal(t, added["memberId"], added["proposalId"])

	voted := env.mustRun("--caller", alicePrincipal, "vote", "--proposal", added["proposalId"])
	assert.Equal(t, "Approved", voted["decision"])

	out, err := env.run("query", "org", orgId)
	require.NoError(t, err)
	var org organisationView
	require.NoError(t, yaml.Unmarshal([]byte(out), &org))
	assert.Equal(t, "acme", org.Name)
	assert.Equal(t, uint16(2), org.MemberCount)

	out, err = env.run("query", "members", orgId)
	require.NoError(t, err)
	var members []memberView
	require.NoError(t, yaml.Unmarshal([]byte(out), &members))
	require.Len(t, members, 2)
	for _, m := range members {
		assert.Equal(t, "Approved", m.Decision)
	}

	out, err = env.run("query", "memberships", bobPrincipal, "--org", orgId)
	require.NoError(t, err)
	var status map[string]bool
	require.NoError(t, yaml.Unmarshal([]byte(out), &status))
	assert.True(t, status["member"])
	assert.True(t, status["approved"])
}

func TestProposalAndOwings(t *testing.T) {
	env := newCliEnv(t)
	orgId := env.mustRun(
		"--caller", alicePrincipal,
		"org", "create", "--name", "acme", "--creator-name", "alice",
	)["orgId"]

	proposalId := env.mustRun(
		"--caller", alicePrincipal,
		"proposal", "create",
		"--org", orgId,
		"--amount", "123456789012345678901234567890",
		"--evidence", "invoice-7",
		"--ref", "7",
	)["proposalId"]

	out, err := env.run("query", "owings", orgId, "--to", alicePrincipal)
	require.NoError(t, err)
	var owings []proposalView
	require.NoError(t, yaml.Unmarshal([]byte(out), &owings))
	require.Len(t, owings, 1)
	assert.Equal(t, proposalId, owings[0].Id)
	assert.Equal(t, "123456789012345678901234567890", owings[0].Amount)
	assert.Equal(t, "Undecided", owings[0].Decision)

	out, err = env.run("query", "owings", orgId, "--to", bobPrincipal)
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal([]byte(out), &owings))
	assert.Empty(t, owings)

	// Non-members may not raise proposals
	_, err = env.run(
		"--caller", bobPrincipal,
		"proposal", "create", "--org", orgId, "--amount", "1",
	)
	assert.Error(t, err)
}

func TestCallerRequired(t *testing.T) {
	env := newCliEnv(t)
	_, err := env.run("org", "create", "--name", "acme", "--creator-name", "alice")
	assert.ErrorIs(t, err, errNoCaller)
}

func TestCallerFlagsExclusive(t *testing.T) {
	env := newCliEnv(t)
	_, err := env.run(
		"--caller", alicePrincipal,
		"--caller-key-file", "payment.skey",
		"org", "create", "--name", "acme", "--creator-name", "alice",
	)
	assert.Error(t, err)
}

func TestResolveCaller(t *testing.T) {
	caller, err := resolveCaller(&config.Config{Caller: alicePrincipal})
	require.NoError(t, err)
	assert.Equal(t, alicePrincipal, hex.EncodeToString(caller.Principal.Bytes()))
	assert.Nil(t, caller.Token)

	_, err = resolveCaller(&config.Config{Caller: "zz"})
	assert.Error(t, err)

	_, err = resolveCaller(&config.Config{CallerKeyFile: filepath.Join(t.TempDir(), "missing.skey")})
	assert.Error(t, err)
}

func TestResolveCallerKeyFile(t *testing.T) {
	vkey := bytes.Repeat([]byte{0x42}, 32)
	cborHex := "5820" + hex.EncodeToString(vkey)
	path := filepath.Join(t.TempDir(), "payment.vkey")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"type": "PaymentVerificationKeyShelley_ed25519", "description": "", "cborHex": "`+cborHex+`"}`,
	), 0o644))

	caller, err := resolveCaller(&config.Config{CallerKeyFile: path})
	require.NoError(t, err)
	assert.Equal(t, vkey, caller.Token)
	assert.NotEqual(t, lcommon.Blake2b224{}, caller.Principal)
}

func TestParseAmount(t *testing.T) {
	amount, err := parseAmount("-5")
	require.NoError(t, err)
	assert.Equal(t, 0, amount.Cmp(big.NewInt(-5)))

	for _, bad := range []string{"", "1.5", "0x10", "ten"} {
		_, err := parseAmount(bad)
		assert.Error(t, err, bad)
	}
}

func TestDecodeIdFlag(t *testing.T) {
	ret, err := decodeIdFlag("org id", "")
	require.NoError(t, err)
	assert.Nil(t, ret)

	ret, err = decodeIdFlag("org id", "00ff")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xff}, ret)

	_, err = decodeIdFlag("org id", "not hex")
	assert.Error(t, err)
}

func TestListPlugins(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"list"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "badger")
}
