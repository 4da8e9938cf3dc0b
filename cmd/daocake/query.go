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
	"fmt"

	"github.com/blinklabs-io/daocake/governance"
	"github.com/blinklabs-io/daocake/internal/config"
	"github.com/blinklabs-io/daocake/internal/identity"
	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
	"github.com/spf13/cobra"
)

func queryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Read governance records",
	}
	cmd.AddCommand(
		queryIdCommand("org", "Show an organisation", "org id",
			func(ctx context.Context, state *governance.State, id []byte) (any, error) {
				org, err := state.GetOrganisation(ctx, id)
				if err != nil {
					return nil, err
				}
				return newOrganisationView(org), nil
			},
		),
		queryIdCommand("member", "Show a member", "member id",
			func(ctx context.Context, state *governance.State, id []byte) (any, error) {
				member, err := state.GetMember(ctx, id)
				if err != nil {
					return nil, err
				}
				return newMemberView(member), nil
			},
		),
		queryIdCommand("proposal", "Show a proposal", "proposal id",
			func(ctx context.Context, state *governance.State, id []byte) (any, error) {
				proposal, err := state.GetProposal(ctx, id)
				if err != nil {
					return nil, err
				}
				return newProposalView(proposal), nil
			},
		),
		queryIdCommand("members", "List the members of an organisation", "org id",
			func(ctx context.Context, state *governance.State, id []byte) (any, error) {
				return collectViews(state.MembersOfOrg(ctx, id), newMemberView)
			},
		),
		queryIdCommand("orgs", "List the organisations a member has joined", "member id",
			func(ctx context.Context, state *governance.State, id []byte) (any, error) {
				return collectViews(state.OrgsOfMember(ctx, id), newOrganisationView)
			},
		),
		queryIdCommand("votes", "List the votes cast on a proposal", "proposal id",
			func(ctx context.Context, state *governance.State, id []byte) (any, error) {
				return collectViews(state.Votes(ctx, id), newVoteView)
			},
		),
		queryOwingsCommand(),
		queryMembershipsCommand(),
	)
	return cmd
}

// queryIdCommand builds a query subcommand taking a single hex identifier
func queryIdCommand(
	use string,
	short string,
	argName string,
	fn func(ctx context.Context, state *governance.State, id []byte) (any, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <" + argName + ">",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := decodeIdFlag(argName, args[0])
			if err != nil {
				return err
			}
			return withGovernance(cmd, func(ctx context.Context, state *governance.State) error {
				ret, err := fn(ctx, state, id)
				if err != nil {
					return err
				}
				return writeYAML(cmd.OutOrStdout(), ret)
			})
		},
	}
}

// principalArg resolves an optional principal argument, falling back to the
// configured caller
func principalArg(cmd *cobra.Command, args []string) (lcommon.Blake2b224, error) {
	if len(args) > 0 {
		return identity.ParsePrincipal(args[0])
	}
	cfg := config.FromContext(cmd.Context())
	if cfg == nil {
		return lcommon.Blake2b224{}, config.ErrConfigNotLoaded
	}
	caller, err := resolveCaller(cfg)
	if err != nil {
		return lcommon.Blake2b224{}, err
	}
	return caller.Principal, nil
}

func queryOwingsCommand() *cobra.Command {
	var toUser string
	cmd := &cobra.Command{
		Use:   "owings <org id>",
		Short: "List the proposals raised in an organisation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			orgId, err := decodeIdFlag("org id", args[0])
			if err != nil {
				return err
			}
			var principal *lcommon.Blake2b224
			if toUser != "" {
				p, err := identity.ParsePrincipal(toUser)
				if err != nil {
					return err
				}
				principal = &p
			}
			return withGovernance(cmd, func(ctx context.Context, state *governance.State) error {
				seq := state.OwingsByOrg(ctx, orgId)
				if principal != nil {
					seq = state.OwingsToUser(ctx, orgId, *principal)
				}
				ret, err := collectViews(seq, newProposalView)
				if err != nil {
					return err
				}
				return writeYAML(cmd.OutOrStdout(), ret)
			})
		},
	}
	cmd.Flags().StringVar(&toUser, "to", "", "only proposals raised by this hex key hash")
	return cmd
}

func queryMembershipsCommand() *cobra.Command {
	var orgIdHex string
	cmd := &cobra.Command{
		Use:   "memberships [principal]",
		Short: "List a principal's member records, defaulting to the caller",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			principal, err := principalArg(cmd, args)
			if err != nil {
				return err
			}
			orgId, err := decodeIdFlag("org id", orgIdHex)
			if err != nil {
				return err
			}
			return withGovernance(cmd, func(ctx context.Context, state *governance.State) error {
				if orgId != nil {
					member, err := state.IsMemberOfOrg(ctx, orgId, principal, false)
					if err != nil {
						return err
					}
					approved, err := state.IsMemberOfOrg(ctx, orgId, principal, true)
					if err != nil {
						return err
					}
					return writeYAML(cmd.OutOrStdout(), map[string]bool{
						"member":   member,
						"approved": approved,
					})
				}
				members, err := collectViews(state.MembershipsOf(ctx, principal), newMemberView)
				if err != nil {
					return err
				}
				orgs, err := collectViews(
					state.OrgsOfMemberByPrincipal(ctx, principal),
					newOrganisationView,
				)
				if err != nil {
					return fmt.Errorf("list organisations: %w", err)
				}
				return writeYAML(cmd.OutOrStdout(), struct {
					Members       []memberView       `yaml:"members"`
					Organisations []organisationView `yaml:"organisations"`
				}{members, orgs})
			})
		},
	}
	cmd.Flags().StringVar(&orgIdHex, "org", "", "only report membership of this hex organisation id")
	return cmd
}
