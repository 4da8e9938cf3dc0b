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
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"iter"
	"os"

	"github.com/blinklabs-io/daocake/database/models"
	"github.com/blinklabs-io/daocake/governance"
	"github.com/blinklabs-io/daocake/internal/config"
	"github.com/blinklabs-io/daocake/internal/node"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type organisationView struct {
	Id              string `yaml:"id"`
	Name            string `yaml:"name"`
	Creator         string `yaml:"creator"`
	MemberCount     uint16 `yaml:"memberCount"`
	VoteForRequired uint16 `yaml:"voteForRequired"`
}

type memberView struct {
	Id        string `yaml:"id"`
	Name      string `yaml:"name"`
	Principal string `yaml:"principal"`
	Decision  string `yaml:"decision"`
}

type proposalView struct {
	Id          string `yaml:"id"`
	OrgId       string `yaml:"orgId"`
	Kind        string `yaml:"kind"`
	Proposer    string `yaml:"proposer"`
	Amount      string `yaml:"amount"`
	EvidenceRef string `yaml:"evidenceRef,omitempty"`
	RefNo       string `yaml:"refNo,omitempty"`
	Decision    string `yaml:"decision"`
}

type voteView struct {
	Id         string `yaml:"id"`
	ProposalId string `yaml:"proposalId"`
	Voter      string `yaml:"voter"`
	VoteFor    bool   `yaml:"voteFor"`
}

func newOrganisationView(o *models.Organisation) organisationView {
	return organisationView{
		Id:              o.Id.String(),
		Name:            o.Name,
		Creator:         o.Creator.String(),
		MemberCount:     o.MemberCount,
		VoteForRequired: o.VoteForRequired,
	}
}

func newMemberView(m *models.Member) memberView {
	return memberView{
		Id:        m.Id.String(),
		Name:      m.Name,
		Principal: m.Principal.String(),
		Decision:  m.Decision.String(),
	}
}

func newProposalView(p *models.Proposal) proposalView {
	amount := "0"
	if p.Amount != nil {
		amount = p.Amount.String()
	}
	return proposalView{
		Id:          p.Id.String(),
		OrgId:       p.OrgId.String(),
		Kind:        p.Kind.String(),
		Proposer:    p.Proposer.String(),
		Amount:      amount,
		EvidenceRef: p.EvidenceRef,
		RefNo:       p.RefNo,
		Decision:    p.Decision.String(),
	}
}

func newVoteView(v *models.Vote) voteView {
	return voteView{
		Id:         v.Id.String(),
		ProposalId: v.ProposalId.String(),
		Voter:      v.Voter.String(),
		VoteFor:    v.VoteFor,
	}
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// collectViews drains seq into a slice of views, stopping at the first error
func collectViews[T, V any](seq iter.Seq2[T, error], view func(T) V) ([]V, error) {
	ret := []V{}
	for item, err := range seq {
		if err != nil {
			return nil, err
		}
		ret = append(ret, view(item))
	}
	return ret, nil
}

// decodeIdFlag returns nil for an empty flag so that an identifier is
// generated
func decodeIdFlag(name, value string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	ret, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", name, err)
	}
	return ret, nil
}

// withGovernance opens the configured store for the duration of fn. Logs go
// to stderr so that command output on stdout stays parseable
func withGovernance(
	cmd *cobra.Command,
	fn func(ctx context.Context, state *governance.State) error,
) error {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		return config.ErrConfigNotLoaded
	}
	logger := commonRun(os.Stderr)
	d, err := node.New(cfg, logger, nil, false)
	if err != nil {
		return err
	}
	if err := d.Open(); err != nil {
		_ = d.Stop()
		return err
	}
	fnErr := fn(cmd.Context(), d.Governance())
	if err := d.Stop(); err != nil {
		logger.Error(
			"failed to close database",
			"component", programName,
			"error", err,
		)
		if fnErr == nil {
			return err
		}
	}
	return fnErr
}

// withCaller is withGovernance for operations performed by the configured
// caller
func withCaller(
	cmd *cobra.Command,
	fn func(ctx context.Context, state *governance.State, caller governance.Caller) error,
) error {
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		return config.ErrConfigNotLoaded
	}
	caller, err := resolveCaller(cfg)
	if err != nil {
		return err
	}
	return withGovernance(cmd, func(ctx context.Context, state *governance.State) error {
		return fn(ctx, state, caller)
	})
}
