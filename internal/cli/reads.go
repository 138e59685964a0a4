// Copyright 2025 UMH Systems GmbH
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

package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/worker-safety/safety-client/pkg/api"
	"github.com/worker-safety/safety-client/pkg/codec"
	"github.com/worker-safety/safety-client/pkg/entities"
)

func (a *app) meCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.clients(cmd.Context())
			if err != nil {
				return err
			}

			user, err := api.Me(cmd.Context(), c.GraphQL)
			if err != nil {
				return err
			}

			return printJSON(cmd, user)
		},
	}
}

func (a *app) taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Read tasks and the task library",
	}

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one task with its hazards and controls",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID[entities.TaskKind](args[0])
			if err != nil {
				return err
			}

			c, err := a.clients(cmd.Context())
			if err != nil {
				return err
			}

			task, err := api.GetTask(cmd.Context(), c.GraphQL, id)
			if err != nil {
				return err
			}

			return printJSON(cmd, task)
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the tasks at a location on a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			location, date, err := locationAndDate(cmd)
			if err != nil {
				return err
			}

			c, err := a.clients(cmd.Context())
			if err != nil {
				return err
			}

			tasks, err := api.ListTasks(cmd.Context(), c.GraphQL, location, date)
			if err != nil {
				return err
			}

			return printJSON(cmd, tasks)
		},
	}
	addLocationFlags(list)

	library := &cobra.Command{
		Use:   "library [library-task-id...]",
		Short: "List library tasks, optionally only the given ones",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]entities.LibraryTaskID, 0, len(args))
			for _, arg := range args {
				id, err := parseID[entities.LibraryTaskKind](arg)
				if err != nil {
					return err
				}

				ids = append(ids, id)
			}

			c, err := a.clients(cmd.Context())
			if err != nil {
				return err
			}

			tasks, err := api.ListLibraryTasks(cmd.Context(), c.GraphQL, ids...)
			if err != nil {
				return err
			}

			return printJSON(cmd, tasks)
		},
	}

	cmd.AddCommand(get, list, library)

	return cmd
}

func (a *app) locationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "location",
		Short: "Read project locations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <id>",
		Short: "Show a project location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID[entities.ProjectLocationKind](args[0])
			if err != nil {
				return err
			}

			c, err := a.clients(cmd.Context())
			if err != nil {
				return err
			}

			location, err := api.GetProjectLocation(cmd.Context(), c.GraphQL, id)
			if err != nil {
				return err
			}

			return printJSON(cmd, location)
		},
	})

	return cmd
}

func (a *app) siteConditionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "site-conditions",
		Short: "List the site conditions at a location on a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			location, date, err := locationAndDate(cmd)
			if err != nil {
				return err
			}

			c, err := a.clients(cmd.Context())
			if err != nil {
				return err
			}

			conditions, err := api.ListSiteConditions(cmd.Context(), c.GraphQL, location, date)
			if err != nil {
				return err
			}

			return printJSON(cmd, conditions)
		},
	}
	addLocationFlags(cmd)

	return cmd
}

func (a *app) medicalFacilitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "medical-facilities",
		Short: "List the medical facilities nearest to a point or a project location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.clients(cmd.Context())
			if err != nil {
				return err
			}

			var latitude, longitude codec.Decimal

			if raw, _ := cmd.Flags().GetString("location"); raw != "" {
				id, err := parseID[entities.ProjectLocationKind](raw)
				if err != nil {
					return err
				}

				location, err := api.GetProjectLocation(cmd.Context(), c.GraphQL, id)
				if err != nil {
					return err
				}

				latitude, longitude = location.Latitude, location.Longitude
			} else {
				rawLat, _ := cmd.Flags().GetString("lat")
				rawLng, _ := cmd.Flags().GetString("lng")

				if latitude, err = parseDecimal("latitude", rawLat); err != nil {
					return err
				}

				if longitude, err = parseDecimal("longitude", rawLng); err != nil {
					return err
				}
			}

			facilities, err := api.NearestMedicalFacilities(cmd.Context(), c.GraphQL, latitude, longitude)
			if err != nil {
				return err
			}

			return printJSON(cmd, facilities)
		},
	}

	cmd.Flags().String("lat", "", "latitude")
	cmd.Flags().String("lng", "", "longitude")
	cmd.Flags().String("location", "", "project location id to take the coordinates from")
	cmd.MarkFlagsMutuallyExclusive("location", "lat")
	cmd.MarkFlagsRequiredTogether("lat", "lng")
	cmd.MarkFlagsOneRequired("location", "lat")

	return cmd
}

func addLocationFlags(cmd *cobra.Command) {
	cmd.Flags().String("location", "", "project location id")
	cmd.Flags().String("date", "", "date as YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("location")
}

func locationAndDate(cmd *cobra.Command) (entities.ProjectLocationID, codec.LocalDate, error) {
	rawLocation, _ := cmd.Flags().GetString("location")
	rawDate, _ := cmd.Flags().GetString("date")

	location, err := parseID[entities.ProjectLocationKind](rawLocation)
	if err != nil {
		return location, codec.LocalDate{}, err
	}

	if rawDate == "" {
		return location, codec.LocalDateOf(time.Now()), nil
	}

	date, err := parseDate(rawDate)

	return location, date, err
}
