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
	"math/big"

	"github.com/blinklabs-io/daocake/database/models"
	"github.com/blinklabs-io/daocake/governance"
	"github.com/spf13/cobra"
)

func proposalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proposal",
		Short: "Manage proposals",
	}
	cmd.AddCommand(proposalCreateCommand())
	return cmd
}

// parseAmount accepts a base-10 integer of any size
func parseAmount(s string) (*big.Int, error) {
	ret, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %q", s)
	}
	return ret, nil
}

func proposalCreateCommand() *cobra.Command {
	var orgIdHex, kindName, amountStr, evidence, refNo, idHex string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Raise a payment or rules proposal in an organisation",
		RunE: func(cmd *cobra.Command, args []string) error {
			if orgIdHex == "" {
				return errors.New("--org is required")
			}
			orgId, err := decodeIdFlag("org id", orgIdHex)
			if err != nil {
				return err
			}
			kind, err := models.ParseProposalKind(kindName)
			if err != nil {
				return err
			}
			amount, err := parseAmount(amountStr)
			if err != nil {
				return err
			}
			id, err := decodeIdFlag("proposal id", idHex)
			if err != nil {
				return err
			}
			params := governance.ProposalParams{
				OrgId:       orgId,
				Kind:        kind,
				Amount:      amount,
				EvidenceRef: evidence,
				RefNo:       refNo,
				Id:          id,
			}
			return withCaller(cmd, func(
				ctx context.Context,
				state *governance.State,
				caller governance.Caller,
			) error {
				proposalId, err := state.CreateProposal(ctx, caller, params)
				if err != nil {
					return fmt.Errorf("create proposal: %w", err)
				}
				return writeYAML(cmd.OutOrStdout(), map[string]string{
					"proposalId": proposalId.String(),
				})
			})
		},
	}
	cmd.Flags().StringVar(&orgIdHex, "org", "", "hex organisation id")
	cmd.Flags().StringVar(&kindName, "kind", "payment", "proposal kind: payment or org-rules")
	cmd.Flags().StringVar(&amountStr, "amount", "0", "payment amount, or the new vote threshold for org-rules")
	cmd.Flags().StringVar(&evidence, "evidence", "", "evidence reference")
	cmd.Flags().StringVar(&refNo, "ref", "", "caller-supplied reference number")
	cmd.Flags().StringVar(&idHex, "id", "", "explicit hex proposal id")
	return cmd
}
