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

package api

import (
	"context"
	"errors"

	"github.com/worker-safety/safety-client/pkg/apierror"
	"github.com/worker-safety/safety-client/pkg/codec"
	"github.com/worker-safety/safety-client/pkg/entities"
	"github.com/worker-safety/safety-client/pkg/graphql"
	"github.com/worker-safety/safety-client/pkg/operations"
)

type noVars struct{}

type idVars[K codec.Kind] struct {
	ID codec.ID[K] `json:"id"`
}

type locationDateVars struct {
	LocationID entities.ProjectLocationID `json:"locationId"`
	Date       codec.LocalDate            `json:"date"`
}

type libraryTasksVars struct {
	IDs []entities.LibraryTaskID `json:"ids,omitempty"`
}

type coordinatesVars struct {
	Latitude  codec.Decimal `json:"latitude"`
	Longitude codec.Decimal `json:"longitude"`
}

type countVars struct {
	Count int `json:"count"`
}

type jsbInputVars struct {
	Input entities.SaveJsbInput `json:"input"`
}

// eboInputVars omits a zero id, which asks the server to create a new observation.
type eboInputVars struct {
	ID    entities.EboID    `json:"id"`
	Input entities.EboInput `json:"input"`
}

var errNotDeleted = errors.New("server did not delete the record")

func run[V, D, R any](ctx context.Context, c *graphql.Client, name string, vars V, dc codec.Codec[D], mapFn func(D) R) (R, error) {
	return RequestNamed(ctx, name, OperationFunc[V](graphql.Op[V](c, name)), vars, dc, mapFn)
}

// Me returns the signed-in user.
func Me(ctx context.Context, c *graphql.Client) (entities.User, error) {
	return run(ctx, c, operations.Me, noVars{}, meResponse, Identity[entities.User])
}

func GetTask(ctx context.Context, c *graphql.Client, id entities.TaskID) (entities.Task, error) {
	return run(ctx, c, operations.GetTask, idVars[entities.TaskKind]{ID: id}, taskResponse, Identity[entities.Task])
}

// ListTasks returns the tasks planned at a location on date.
func ListTasks(ctx context.Context, c *graphql.Client, locationID entities.ProjectLocationID, date codec.LocalDate) ([]entities.Task, error) {
	return run(ctx, c, operations.ListTasks, locationDateVars{LocationID: locationID, Date: date}, tasksResponse, Identity[[]entities.Task])
}

// ListLibraryTasks returns the library tasks with the given ids, or the whole
// library when none are given.
func ListLibraryTasks(ctx context.Context, c *graphql.Client, ids ...entities.LibraryTaskID) ([]entities.LibraryTask, error) {
	return run(ctx, c, operations.ListLibraryTasks, libraryTasksVars{IDs: ids}, libraryTasksResponse, entities.SortByID[entities.LibraryTask])
}

func ListSiteConditions(ctx context.Context, c *graphql.Client, locationID entities.ProjectLocationID, date codec.LocalDate) ([]entities.SiteCondition, error) {
	return run(ctx, c, operations.ListSiteConditions, locationDateVars{LocationID: locationID, Date: date}, siteConditionsResponse, Identity[[]entities.SiteCondition])
}

func GetProjectLocation(ctx context.Context, c *graphql.Client, id entities.ProjectLocationID) (entities.ProjectLocation, error) {
	return run(ctx, c, operations.GetProjectLocation, idVars[entities.ProjectLocationKind]{ID: id}, projectLocationResponse, Identity[entities.ProjectLocation])
}

func GetJsb(ctx context.Context, c *graphql.Client, id entities.JsbID) (entities.Jsb, error) {
	return run(ctx, c, operations.GetJsb, idVars[entities.JsbKind]{ID: id}, jsbResponse, Identity[entities.Jsb])
}

func GetEbo(ctx context.Context, c *graphql.Client, id entities.EboID) (entities.Ebo, error) {
	return run(ctx, c, operations.GetEbo, idVars[entities.EboKind]{ID: id}, eboResponse, Identity[entities.Ebo])
}

// NearestMedicalFacilities lists facilities ordered by distance as returned by the server.
func NearestMedicalFacilities(ctx context.Context, c *graphql.Client, latitude, longitude codec.Decimal) ([]entities.MedicalFacility, error) {
	return run(ctx, c, operations.NearestMedicalFacilities, coordinatesVars{Latitude: latitude, Longitude: longitude}, medicalFacilitiesResponse, Identity[[]entities.MedicalFacility])
}

// FileUploadPolicies requests count signed upload policies.
func FileUploadPolicies(ctx context.Context, c *graphql.Client, count int) ([]entities.FileUploadPolicy, error) {
	return run(ctx, c, operations.FileUploadPolicies, countVars{Count: count}, uploadPoliciesResponse, Identity[[]entities.FileUploadPolicy])
}

// SaveJsb creates the briefing when input.ID is zero and updates it otherwise.
func SaveJsb(ctx context.Context, c *graphql.Client, input entities.SaveJsbInput) (entities.Jsb, error) {
	return run(ctx, c, operations.SaveJsb, jsbInputVars{Input: input}, saveJsbResponse, Identity[entities.Jsb])
}

func CompleteJsb(ctx context.Context, c *graphql.Client, input entities.SaveJsbInput) (entities.Jsb, error) {
	return run(ctx, c, operations.CompleteJsb, jsbInputVars{Input: input}, completeJsbResponse, Identity[entities.Jsb])
}

func ReopenJsb(ctx context.Context, c *graphql.Client, id entities.JsbID) (entities.Jsb, error) {
	return run(ctx, c, operations.ReopenJsb, idVars[entities.JsbKind]{ID: id}, reopenJsbResponse, Identity[entities.Jsb])
}

func DeleteJsb(ctx context.Context, c *graphql.Client, id entities.JsbID) error {
	return deleted(run(ctx, c, operations.DeleteJsb, idVars[entities.JsbKind]{ID: id}, deleteJsbResponse, Identity[bool]))
}

// SaveEbo creates the observation when id is zero and updates it otherwise.
func SaveEbo(ctx context.Context, c *graphql.Client, id entities.EboID, input entities.EboInput) (entities.Ebo, error) {
	return run(ctx, c, operations.SaveEbo, eboInputVars{ID: id, Input: input}, saveEboResponse, Identity[entities.Ebo])
}

func CompleteEbo(ctx context.Context, c *graphql.Client, id entities.EboID, input entities.EboInput) (entities.Ebo, error) {
	return run(ctx, c, operations.CompleteEbo, eboInputVars{ID: id, Input: input}, completeEboResponse, Identity[entities.Ebo])
}

func ReopenEbo(ctx context.Context, c *graphql.Client, id entities.EboID) (entities.Ebo, error) {
	return run(ctx, c, operations.ReopenEbo, idVars[entities.EboKind]{ID: id}, reopenEboResponse, Identity[entities.Ebo])
}

func DeleteEbo(ctx context.Context, c *graphql.Client, id entities.EboID) error {
	return deleted(run(ctx, c, operations.DeleteEbo, idVars[entities.EboKind]{ID: id}, deleteEboResponse, Identity[bool]))
}

func deleted(ok bool, err error) error {
	if err != nil {
		return err
	}

	if !ok {
		return &apierror.RequestError{Err: errNotDeleted}
	}

	return nil
}
