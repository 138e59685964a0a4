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

// Package entities holds the validated domain records of the worker-safety API
// and the codecs that decode them from GraphQL responses.
package entities

import "github.com/worker-safety/safety-client/pkg/codec"

// Identifier kinds. Each is an empty marker type that brands codec.ID.
type (
	TaskKind                 struct{}
	LibraryTaskKind          struct{}
	HazardKind               struct{}
	LibraryHazardKind        struct{}
	ControlKind              struct{}
	LibraryControlKind       struct{}
	SiteConditionKind        struct{}
	LibrarySiteConditionKind struct{}
	ActivityKind             struct{}
	LibraryActivityTypeKind  struct{}
	ProjectLocationKind      struct{}
	ProjectKind              struct{}
	UserKind                 struct{}
	JsbKind                  struct{}
	EboKind                  struct{}
	MedicalFacilityKind      struct{}
	FileUploadPolicyKind     struct{}
	FileKind                 struct{}
	DepartmentKind           struct{}
	WorkTypeKind             struct{}
)

func (TaskKind) KindName() string { return "TaskId" }
func (LibraryTaskKind) KindName() string { return "LibraryTaskId" }
func (HazardKind) KindName() string { return "HazardId" }
func (LibraryHazardKind) KindName() string { return "LibraryHazardId" }
func (ControlKind) KindName() string { return "ControlId" }
func (LibraryControlKind) KindName() string { return "LibraryControlId" }
func (SiteConditionKind) KindName() string { return "SiteConditionId" }
func (LibrarySiteConditionKind) KindName() string { return "LibrarySiteConditionId" }
func (ActivityKind) KindName() string { return "ActivityId" }
func (LibraryActivityTypeKind) KindName() string { return "LibraryActivityTypeId" }
func (ProjectLocationKind) KindName() string { return "ProjectLocationId" }
func (ProjectKind) KindName() string { return "ProjectId" }
func (UserKind) KindName() string { return "UserId" }
func (JsbKind) KindName() string { return "JsbId" }
func (EboKind) KindName() string { return "EboId" }
func (MedicalFacilityKind) KindName() string { return "MedicalFacilityId" }
func (FileUploadPolicyKind) KindName() string { return "FileUploadPolicyId" }
func (FileKind) KindName() string { return "FileId" }
func (DepartmentKind) KindName() string { return "DepartmentId" }
func (WorkTypeKind) KindName() string { return "WorkTypeId" }

type (
	TaskID                 = codec.ID[TaskKind]
	LibraryTaskID          = codec.ID[LibraryTaskKind]
	HazardID               = codec.ID[HazardKind]
	LibraryHazardID        = codec.ID[LibraryHazardKind]
	ControlID              = codec.ID[ControlKind]
	LibraryControlID       = codec.ID[LibraryControlKind]
	SiteConditionID        = codec.ID[SiteConditionKind]
	LibrarySiteConditionID = codec.ID[LibrarySiteConditionKind]
	ActivityID             = codec.ID[ActivityKind]
	LibraryActivityTypeID  = codec.ID[LibraryActivityTypeKind]
	ProjectLocationID      = codec.ID[ProjectLocationKind]
	ProjectID              = codec.ID[ProjectKind]
	UserID                 = codec.ID[UserKind]
	JsbID                  = codec.ID[JsbKind]
	EboID                  = codec.ID[EboKind]
	MedicalFacilityID      = codec.ID[MedicalFacilityKind]
	FileUploadPolicyID     = codec.ID[FileUploadPolicyKind]
	FileID                 = codec.ID[FileKind]
	DepartmentID           = codec.ID[DepartmentKind]
	WorkTypeID             = codec.ID[WorkTypeKind]
)
