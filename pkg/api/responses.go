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
	"github.com/worker-safety/safety-client/pkg/codec"
	"github.com/worker-safety/safety-client/pkg/entities"
	"github.com/worker-safety/safety-client/pkg/operations"
)

const (
	queryType    = "Query"
	mutationType = "Mutation"
)

// rootField decodes the single root field an operation selects.
func rootField[T any](rootType, field string, c codec.Codec[T]) *codec.ObjectCodec[T] {
	return codec.Object(rootType, func(f *codec.Fields) T {
		return codec.Required(f, field, c)
	})
}

var (
	meResponse                = rootField(queryType, "me", entities.UserCodec)
	taskResponse              = rootField(queryType, "task", entities.TaskCodec)
	tasksResponse             = rootField(queryType, "tasks", codec.Array(entities.TaskCodec))
	libraryTasksResponse      = rootField(queryType, "tasksLibrary", codec.Array(entities.LibraryTaskCodec))
	siteConditionsResponse    = rootField(queryType, "siteConditions", codec.Array(entities.SiteConditionCodec))
	projectLocationResponse   = rootField(queryType, "projectLocation", entities.ProjectLocationCodec)
	jsbResponse               = rootField(queryType, "jobSafetyBriefing", entities.JsbCodec)
	eboResponse               = rootField(queryType, "energyBasedObservation", entities.EboCodec)
	medicalFacilitiesResponse = rootField(queryType, "nearestMedicalFacilities", codec.Array(entities.MedicalFacilityCodec))
	uploadPoliciesResponse    = rootField(queryType, "fileUploadPolicies", codec.Array(entities.FileUploadPolicyCodec))

	saveJsbResponse     = rootField(mutationType, "saveJobSafetyBriefing", entities.JsbCodec)
	completeJsbResponse = rootField(mutationType, "completeJobSafetyBriefing", entities.JsbCodec)
	reopenJsbResponse   = rootField(mutationType, "reopenJobSafetyBriefing", entities.JsbCodec)
	deleteJsbResponse   = rootField(mutationType, "deleteJobSafetyBriefing", codec.Bool)
	saveEboResponse     = rootField(mutationType, "saveEnergyBasedObservation", entities.EboCodec)
	completeEboResponse = rootField(mutationType, "completeEnergyBasedObservation", entities.EboCodec)
	reopenEboResponse   = rootField(mutationType, "reopenEnergyBasedObservation", entities.EboCodec)
	deleteEboResponse   = rootField(mutationType, "deleteEnergyBasedObservation", codec.Bool)
)

// ResponseShapes maps each catalog operation to the codec its response data
// is decoded with.
func ResponseShapes() map[string]codec.ObjectShape {
	return map[string]codec.ObjectShape{
		operations.Me:                       meResponse,
		operations.GetTask:                  taskResponse,
		operations.ListTasks:                tasksResponse,
		operations.ListLibraryTasks:         libraryTasksResponse,
		operations.ListSiteConditions:       siteConditionsResponse,
		operations.GetProjectLocation:       projectLocationResponse,
		operations.GetJsb:                   jsbResponse,
		operations.GetEbo:                   eboResponse,
		operations.NearestMedicalFacilities: medicalFacilitiesResponse,
		operations.FileUploadPolicies:       uploadPoliciesResponse,
		operations.SaveJsb:                  saveJsbResponse,
		operations.CompleteJsb:              completeJsbResponse,
		operations.ReopenJsb:                reopenJsbResponse,
		operations.DeleteJsb:                deleteJsbResponse,
		operations.SaveEbo:                  saveEboResponse,
		operations.CompleteEbo:              completeEboResponse,
		operations.ReopenEbo:                reopenEboResponse,
		operations.DeleteEbo:                deleteEboResponse,
	}
}
