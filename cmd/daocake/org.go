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

func orgCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "org",
		Short: "Manage organisations",
	}
	cmd.AddCommand(orgCreateCommand())
	return cmd
}

func orgCreateCommand() *cobra.Command {
	var name, creatorName, orgIdHex, memberIdHex string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an organisation with the caller as its first member",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" || creatorName == "" {
				return errors.New("--name and --creator-name are required")
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
				newOrgId, newMemberId, err := state.CreateOrganisation(
					ctx, caller, name, creatorName, orgId, memberId,
				)
				if err != nil {
					return fmt.Errorf("create organisation: %w", err)
				}
				return writeYAML(cmd.OutOrStdout(), map[string]string{
					"orgId":    newOrgId.String(),
					"memberId": newMemberId.String(),
				})
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "organisation name")
	cmd.Flags().StringVar(&creatorName, "creator-name", "", "display name of the creating member")
	cmd.Flags().StringVar(&orgIdHex, "org-id", "", "explicit hex organisation id")
	cmd.Flags().StringVar(&memberIdHex, "member-id", "", "explicit hex member id")
	return cmd
}
