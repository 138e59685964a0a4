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

package entities

import (
	"time"

	"github.com/worker-safety/safety-client/pkg/codec"
)

type WorkLocation struct {
	Address     string               `json:"address"`
	Description string               `json:"description"`
	OperatingHQ codec.Option[string] `json:"operatingHq"`
}

var WorkLocationCodec = codec.Object("WorkLocation", func(f *codec.Fields) WorkLocation {
	return WorkLocation{
		Address:     codec.Required(f, "address", codec.String),
		Description: codec.Required(f, "description", codec.String),
		OperatingHQ: codec.Optional(f, "operatingHq", codec.String),
	}
})

type JsbMetadata struct {
	BriefingDateTime time.Time `json:"briefingDateTime"`
}

var JsbMetadataCodec = codec.Object("JsbMetadata", func(f *codec.Fields) JsbMetadata {
	return JsbMetadata{
		BriefingDateTime: codec.Required(f, "briefingDateTime", codec.DateTime),
	}
})

// TaskSelection is a library task picked for the briefing.
type TaskSelection struct {
	ID            LibraryTaskID           `json:"id"`
	Name          codec.Option[string]    `json:"name"`
	RiskLevel     codec.Option[RiskLevel] `json:"riskLevel"`
	FromWorkOrder bool                    `json:"fromWorkOrder"`
}

func (t TaskSelection) Identity() LibraryTaskID { return t.ID }
func (t TaskSelection) Key() string             { return t.ID.String() }

var TaskSelectionCodec = codec.Object("TaskSelection", func(f *codec.Fields) TaskSelection {
	return TaskSelection{
		ID:            codec.Required(f, "id", codec.Branded[LibraryTaskKind]()),
		Name:          codec.Optional(f, "name", codec.String),
		RiskLevel:     codec.Optional(f, "riskLevel", RiskLevelCodec),
		FromWorkOrder: codec.OptionalOr(f, "fromWorkOrder", codec.Bool, false),
	}
})

type EmergencyContact struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Primary     bool   `json:"primary"`
}

var EmergencyContactCodec = codec.Object("EmergencyContact", func(f *codec.Fields) EmergencyContact {
	return EmergencyContact{
		Name:        codec.Required(f, "name", codec.NonEmptyString),
		PhoneNumber: codec.Required(f, "phoneNumber", codec.NonEmptyString),
		Primary:     codec.OptionalOr(f, "primary", codec.Bool, false),
	}
})

// JsbContents is the saved form state of a job safety briefing. Every section
// is optional because a briefing is saved section by section.
type JsbContents struct {
	JsbMetadata            codec.Option[JsbMetadata]     `json:"jsbMetadata"`
	WorkLocation           codec.Option[WorkLocation]    `json:"workLocation"`
	TaskSelections         []TaskSelection               `json:"taskSelections"`
	Hazards                []Hazard                      `json:"hazards"`
	EmergencyContacts      []EmergencyContact            `json:"emergencyContacts"`
	NearestMedicalFacility codec.Option[MedicalFacility] `json:"nearestMedicalFacility"`
	Photos                 []File                        `json:"photos"`
}

var JsbContentsCodec = codec.Object("JobSafetyBriefingLayout", func(f *codec.Fields) JsbContents {
	return JsbContents{
		JsbMetadata:            codec.Optional(f, "jsbMetadata", JsbMetadataCodec),
		WorkLocation:           codec.Optional(f, "workLocation", WorkLocationCodec),
		TaskSelections:         codec.OptionalOr(f, "taskSelections", codec.Array(TaskSelectionCodec), []TaskSelection{}),
		Hazards:                codec.OptionalOr(f, "hazards", codec.Array(HazardCodec), []Hazard{}),
		EmergencyContacts:      codec.OptionalOr(f, "emergencyContacts", codec.Array(EmergencyContactCodec), []EmergencyContact{}),
		NearestMedicalFacility: codec.Optional(f, "nearestMedicalFacility", MedicalFacilityCodec),
		Photos:                 codec.OptionalOr(f, "photos", codec.Array(FileCodec), []File{}),
	}
})

// Jsb is a job safety briefing.
type Jsb struct {
	ID          JsbID                   `json:"id"`
	Status      FormStatus              `json:"status"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   codec.Option[time.Time] `json:"updatedAt"`
	CompletedAt codec.Option[time.Time] `json:"completedAt"`
	CreatedBy   codec.Option[User]      `json:"createdBy"`
	CompletedBy codec.Option[User]      `json:"completedBy"`
	Contents    JsbContents             `json:"contents"`
}

func (j Jsb) Identity() JsbID { return j.ID }
func (j Jsb) Key() string     { return j.ID.String() }

var JsbCodec = codec.Object("JobSafetyBriefing", func(f *codec.Fields) Jsb {
	return Jsb{
		ID:          codec.Required(f, "id", codec.Branded[JsbKind]()),
		Status:      codec.Required(f, "status", FormStatusCodec),
		CreatedAt:   codec.Required(f, "createdAt", codec.DateTime),
		UpdatedAt:   codec.Optional(f, "updatedAt", codec.DateTime),
		CompletedAt: codec.Optional(f, "completedAt", codec.DateTime),
		CreatedBy:   codec.Optional(f, "createdBy", UserCodec),
		CompletedBy: codec.Optional(f, "completedBy", UserCodec),
		Contents:    codec.Required(f, "contents", JsbContentsCodec),
	}
})

// Input rebuilds the save input that reproduces the briefing's contents.
// Hazards without a library hazard cannot be resubmitted and are skipped.
func (j Jsb) Input() SaveJsbInput {
	in := SaveJsbInput{JsbID: j.ID}

	if m, ok := j.Contents.JsbMetadata.Get(); ok {
		in.JsbMetadata = codec.Some(JsbMetadataInput{BriefingDateTime: m.BriefingDateTime})
	}

	if w, ok := j.Contents.WorkLocation.Get(); ok {
		in.WorkLocation = codec.Some(WorkLocationInput(w))
	}

	for _, t := range j.Contents.TaskSelections {
		in.TaskSelections = append(in.TaskSelections, TaskSelectionInput(t))
	}

	in.Hazards = hazardInputs(j.Contents.Hazards)

	for _, c := range j.Contents.EmergencyContacts {
		in.EmergencyContacts = append(in.EmergencyContacts, EmergencyContactInput(c))
	}

	if m, ok := j.Contents.NearestMedicalFacility.Get(); ok {
		in.NearestMedicalFacility = codec.Some(MedicalFacilityInput{
			Description:     m.Description,
			Address:         m.Address,
			City:            m.City,
			State:           m.State,
			Zip:             m.Zip,
			PhoneNumber:     m.PhoneNumber,
			DistanceFromJob: m.DistanceFromJob,
		})
	}

	in.Photos = fileInputs(j.Contents.Photos)

	return in
}

func hazardInputs(hazards []Hazard) []HazardInput {
	var out []HazardInput

	for _, h := range hazards {
		if in, ok := h.Input(); ok {
			out = append(out, in)
		}
	}

	return out
}

func fileInputs(files []File) []FileInput {
	var out []FileInput
	for _, f := range files {
		out = append(out, f.Input())
	}

	return out
}
