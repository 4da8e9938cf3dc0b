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

func memberCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage organisation membership",
	}
	cmd.AddCommand(memberAddCommand())
	return cmd
}

func memberAddCommand() *cobra.Command {
	var orgIdHex, name, memberIdHex string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Request membership of an organisation for the caller",
		RunE: func(cmd *cobra.Command, args []string) error {
			if orgIdHex == "" || name == "" {
				return errors.New("--org and --name are required")
			}
			orgId, err := decodeIdFlag("org id", orgIdHex)
			if err != nil {
				return err
			}
			memberId, err := decodeIdFlag("member id", memberIdHex)
			if err != nil {
				return err
			}
			return withCaller(cmd, func(
				ctx context.Context,
				state *governance.State,
				caller governance.Caller,
			) error {
				id, err := state.AddMemberOfOrg(ctx, caller, orgId, name, memberId)
				if err != nil {
					return fmt.Errorf("add member: %w", err)
				}
				// The admission proposal shares the member id
				return writeYAML(cmd.OutOrStdout(), map[string]string{
					"memberId":   id.String(),
					"proposalId": id.String(),
				})
			})
		},
	}
	cmd.Flags().StringVar(&orgIdHex, "org", "", "hex organisation id")
	cmd.Flags().StringVar(&name, "name", "", "display name of the new member")
	cmd.Flags().StringVar(&memberIdHex, "member-id", "", "explicit hex member id")
	return cmd
}
