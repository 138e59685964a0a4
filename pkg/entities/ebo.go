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

type ObservationDetails struct {
	ObservationDate    codec.LocalDate      `json:"observationDate"`
	ObservationTime    codec.LocalTime      `json:"observationTime"`
	WorkLocation       codec.Option[string] `json:"workLocation"`
	DepartmentObserved Department           `json:"departmentObserved"`
	WorkOrderNumber    codec.Option[string] `json:"workOrderNumber"`
	WorkTypes          []WorkType           `json:"workType"`
}

var ObservationDetailsCodec = codec.Object("ObservationDetails", func(f *codec.Fields) ObservationDetails {
	return ObservationDetails{
		ObservationDate:    codec.Required(f, "observationDate", codec.Date),
		ObservationTime:    codec.Required(f, "observationTime", codec.TimeOfDay),
		WorkLocation:       codec.Optional(f, "workLocation", codec.String),
		DepartmentObserved: codec.Required(f, "departmentObserved", DepartmentCodec),
		WorkOrderNumber:    codec.Optional(f, "workOrderNumber", codec.String),
		WorkTypes:          codec.OptionalOr(f, "workType", codec.Array(WorkTypeCodec), []WorkType{}),
	}
})

// EboTask is one instance of a library task observed in an activity. The same
// library task may appear several times, told apart by InstanceID.
type EboTask struct {
	ID         LibraryTaskID           `json:"id"`
	Name       string                  `json:"name"`
	InstanceID int                     `json:"instanceId"`
	RiskLevel  codec.Option[RiskLevel] `json:"riskLevel"`
}

var EboTaskCodec = codec.Object("EboTask", func(f *codec.Fields) EboTask {
	return EboTask{
		ID:         codec.Required(f, "id", codec.Branded[LibraryTaskKind]()),
		Name:       codec.Required(f, "name", codec.String),
		InstanceID: codec.Required(f, "instanceId", codec.Int),
		RiskLevel:  codec.Optional(f, "riskLevel", RiskLevelCodec),
	}
})

type EboActivity struct {
	ID    ActivityID `json:"id"`
	Name  string     `json:"name"`
	Tasks []EboTask  `json:"tasks"`
}

func (a EboActivity) Identity() ActivityID { return a.ID }
func (a EboActivity) Key() string          { return a.ID.String() }

var EboActivityCodec = codec.Object("EboActivity", func(f *codec.Fields) EboActivity {
	return EboActivity{
		ID:    codec.Required(f, "id", codec.Branded[ActivityKind]()),
		Name:  codec.Required(f, "name", codec.String),
		Tasks: codec.OptionalOr(f, "tasks", codec.Array(EboTaskCodec), []EboTask{}),
	}
})

// HighEnergyTask records the hazards observed for one task instance.
type HighEnergyTask struct {
	ID         LibraryTaskID `json:"id"`
	InstanceID int           `json:"instanceId"`
	Hazards    []Hazard      `json:"hazards"`
}

var HighEnergyTaskCodec = codec.Object("EboHighEnergyTask", func(f *codec.Fields) HighEnergyTask {
	return HighEnergyTask{
		ID:         codec.Required(f, "id", codec.Branded[LibraryTaskKind]()),
		InstanceID: codec.Required(f, "instanceId", codec.Int),
		Hazards:    codec.OptionalOr(f, "hazards", codec.Array(HazardCodec), []Hazard{}),
	}
})

type EboContents struct {
	Details               codec.Option[ObservationDetails] `json:"details"`
	Activities            []EboActivity                    `json:"activities"`
	HighEnergyTasks       []HighEnergyTask                 `json:"highEnergyTasks"`
	Photos                []File                           `json:"photos"`
	AdditionalInformation codec.Option[string]             `json:"additionalInformation"`
}

var EboContentsCodec = codec.Object("EnergyBasedObservationLayout", func(f *codec.Fields) EboContents {
	return EboContents{
		Details:               codec.Optional(f, "details", ObservationDetailsCodec),
		Activities:            codec.OptionalOr(f, "activities", codec.Array(EboActivityCodec), []EboActivity{}),
		HighEnergyTasks:       codec.OptionalOr(f, "highEnergyTasks", codec.Array(HighEnergyTaskCodec), []HighEnergyTask{}),
		Photos:                codec.OptionalOr(f, "photos", codec.Array(FileCodec), []File{}),
		AdditionalInformation: codec.Optional(f, "additionalInformation", codec.String),
	}
})

// Ebo is an energy-based observation.
type Ebo struct {
	ID          EboID                   `json:"id"`
	Status      FormStatus              `json:"status"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   codec.Option[time.Time] `json:"updatedAt"`
	CompletedAt codec.Option[time.Time] `json:"completedAt"`
	CreatedBy   codec.Option[User]      `json:"createdBy"`
	Contents    EboContents             `json:"contents"`
}

func (e Ebo) Identity() EboID { return e.ID }
func (e Ebo) Key() string     { return e.ID.String() }

var EboCodec = codec.Object("EnergyBasedObservation", func(f *codec.Fields) Ebo {
	return Ebo{
		ID:          codec.Required(f, "id", codec.Branded[EboKind]()),
		Status:      codec.Required(f, "status", FormStatusCodec),
		CreatedAt:   codec.Required(f, "createdAt", codec.DateTime),
		UpdatedAt:   codec.Optional(f, "updatedAt", codec.DateTime),
		CompletedAt: codec.Optional(f, "completedAt", codec.DateTime),
		CreatedBy:   codec.Optional(f, "createdBy", UserCodec),
		Contents:    codec.Required(f, "contents", EboContentsCodec),
	}
})

// Input rebuilds the observation input that reproduces the saved contents.
func (e Ebo) Input() EboInput {
	var in EboInput

	if d, ok := e.Contents.Details.Get(); ok {
		details := ObservationDetailsInput{
			ObservationDate:    d.ObservationDate,
			ObservationTime:    d.ObservationTime,
			WorkLocation:       d.WorkLocation,
			DepartmentObserved: DepartmentInput(d.DepartmentObserved),
			WorkOrderNumber:    d.WorkOrderNumber,
		}
		for _, w := range d.WorkTypes {
			details.WorkTypes = append(details.WorkTypes, w.ID)
		}

		in.Details = codec.Some(details)
	}

	for _, a := range e.Contents.Activities {
		activity := EboActivityInput{ID: a.ID, Name: a.Name}
		for _, t := range a.Tasks {
			activity.Tasks = append(activity.Tasks, EboTaskInput(t))
		}

		in.Activities = append(in.Activities, activity)
	}

	for _, t := range e.Contents.HighEnergyTasks {
		in.HighEnergyTasks = append(in.HighEnergyTasks, HighEnergyTaskInput{
			ID:         t.ID,
			InstanceID: t.InstanceID,
			Hazards:    hazardInputs(t.Hazards),
		})
	}

	in.Photos = fileInputs(e.Contents.Photos)
	in.AdditionalInformation = e.Contents.AdditionalInformation

	return in
}
