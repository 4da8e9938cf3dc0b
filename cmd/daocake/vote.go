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
	"errors"
	"fmt"

	"github.com/blinklabs-io/daocake/governance"
	"github.com/spf13/cobra"
)

func voteCommand() *cobra.Command {
	var proposalIdHex string
	var against bool
	cmd := &cobra.Command{
		Use:   "vote",
		Short: "Vote on a proposal as the caller",
		RunE: func(cmd *cobra.Command, args []string) error {
			if proposalIdHex == "" {
				return errors.New("--proposal is required")
			}
			proposalId, err := decodeIdFlag("proposal id", proposalIdHex)
			if err != nil {
				return err
			}
			return withCaller(cmd, func(
				ctx context.Context,
				state *governance.State,
				caller governance.Caller,
			) error {
				voteId, err := state.CastVote(ctx, caller, proposalId, !against)
				if err != nil {
					return fmt.Errorf("cast vote: %w", err)
				}
				proposal, err := state.GetProposal(ctx, proposalId)
				if err != nil {
					return err
				}
				return writeYAML(cmd.OutOrStdout(), map[string]string{
					"voteId":   voteId.String(),
					"decision": proposal.Decision.String(),
				})
			})
		},
	}
	cmd.Flags().StringVar(&proposalIdHex, "proposal", "", "hex proposal id")
	cmd.Flags().BoolVar(&against, "against", false, "vote against the proposal")
	return cmd
}
