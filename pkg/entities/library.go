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

import "github.com/worker-safety/safety-client/pkg/codec"

type WorkType struct {
	ID   WorkTypeID `json:"id"`
	Name string     `json:"name"`
}

func (w WorkType) Identity() WorkTypeID { return w.ID }
func (w WorkType) Key() string          { return w.ID.String() }

var WorkTypeCodec = codec.Object("WorkType", func(f *codec.Fields) WorkType {
	return WorkType{
		ID:   codec.Required(f, "id", codec.Branded[WorkTypeKind]()),
		Name: codec.Required(f, "name", codec.String),
	}
})

type Department struct {
	ID   DepartmentID `json:"id"`
	Name string       `json:"name"`
}

func (d Department) Identity() DepartmentID { return d.ID }
func (d Department) Key() string            { return d.ID.String() }

var DepartmentCodec = codec.Object("Department", func(f *codec.Fields) Department {
	return Department{
		ID:   codec.Required(f, "id", codec.Branded[DepartmentKind]()),
		Name: codec.Required(f, "name", codec.NonEmptyString),
	}
})

type LibraryActivityType struct {
	ID   LibraryActivityTypeID `json:"id"`
	Name string                `json:"name"`
}

func (l LibraryActivityType) Identity() LibraryActivityTypeID { return l.ID }
func (l LibraryActivityType) Key() string                     { return l.ID.String() }

var LibraryActivityTypeCodec = codec.Object("LibraryActivityType", func(f *codec.Fields) LibraryActivityType {
	return LibraryActivityType{
		ID:   codec.Required(f, "id", codec.Branded[LibraryActivityTypeKind]()),
		Name: codec.Required(f, "name", codec.String),
	}
})

// LibraryControl is a control offered by the library for a library hazard.
type LibraryControl struct {
	ID           LibraryControlID `json:"id"`
	Name         string           `json:"name"`
	IsApplicable bool             `json:"isApplicable"`
}

func (l LibraryControl) Identity() LibraryControlID { return l.ID }
func (l LibraryControl) Key() string                { return l.ID.String() }

var LibraryControlCodec = codec.Object("LibraryControl", func(f *codec.Fields) LibraryControl {
	return LibraryControl{
		ID:           codec.Required(f, "id", codec.Branded[LibraryControlKind]()),
		Name:         codec.Required(f, "name", codec.String),
		IsApplicable: codec.OptionalOr(f, "isApplicable", codec.Bool, true),
	}
})

// LibraryHazard is a hazard template with the controls that mitigate it.
type LibraryHazard struct {
	ID           LibraryHazardID  `json:"id"`
	Name         string           `json:"name"`
	IsApplicable bool             `json:"isApplicable"`
	Controls     []LibraryControl `json:"controls"`
}

func (l LibraryHazard) Identity() LibraryHazardID { return l.ID }
func (l LibraryHazard) Key() string               { return l.ID.String() }

var LibraryHazardCodec = codec.Object("LibraryHazard", func(f *codec.Fields) LibraryHazard {
	return LibraryHazard{
		ID:           codec.Required(f, "id", codec.Branded[LibraryHazardKind]()),
		Name:         codec.Required(f, "name", codec.String),
		IsApplicable: codec.OptionalOr(f, "isApplicable", codec.Bool, true),
		Controls:     codec.OptionalOr(f, "controls", codec.Array(LibraryControlCodec), []LibraryControl{}),
	}
})

type LibraryTask struct {
	ID        LibraryTaskID        `json:"id"`
	Name      string               `json:"name"`
	Category  codec.Option[string] `json:"category"`
	RiskLevel RiskLevel            `json:"riskLevel"`
	WorkTypes []WorkType           `json:"workTypes"`
	Hazards   []LibraryHazard      `json:"hazards"`
}

func (l LibraryTask) Identity() LibraryTaskID { return l.ID }
func (l LibraryTask) Key() string             { return l.ID.String() }

var LibraryTaskCodec = codec.Object("LibraryTask", func(f *codec.Fields) LibraryTask {
	return LibraryTask{
		ID:        codec.Required(f, "id", codec.Branded[LibraryTaskKind]()),
		Name:      codec.Required(f, "name", codec.String),
		Category:  codec.Optional(f, "category", codec.String),
		RiskLevel: codec.OptionalOr(f, "riskLevel", RiskLevelCodec, RiskLevelUnknown),
		WorkTypes: codec.OptionalOr(f, "workTypes", codec.Array(WorkTypeCodec), []WorkType{}),
		Hazards:   codec.OptionalOr(f, "hazards", codec.Array(LibraryHazardCodec), []LibraryHazard{}),
	}
})

// LibraryTaskRef is the library task as embedded in a task: only the id is
// guaranteed.
type LibraryTaskRef struct {
	ID       LibraryTaskID        `json:"id"`
	Name     codec.Option[string] `json:"name"`
	Category codec.Option[string] `json:"category"`
}

func (l LibraryTaskRef) Identity() LibraryTaskID { return l.ID }
func (l LibraryTaskRef) Key() string             { return l.ID.String() }

var LibraryTaskRefCodec = codec.Object("LibraryTask", func(f *codec.Fields) LibraryTaskRef {
	return LibraryTaskRef{
		ID:       codec.Required(f, "id", codec.Branded[LibraryTaskKind]()),
		Name:     codec.Optional(f, "name", codec.String),
		Category: codec.Optional(f, "category", codec.String),
	}
})

type LibrarySiteCondition struct {
	ID         LibrarySiteConditionID `json:"id"`
	Name       string                 `json:"name"`
	HandleCode codec.Option[string]   `json:"handleCode"`
}

func (l LibrarySiteCondition) Identity() LibrarySiteConditionID { return l.ID }
func (l LibrarySiteCondition) Key() string                      { return l.ID.String() }

var LibrarySiteConditionCodec = codec.Object("LibrarySiteCondition", func(f *codec.Fields) LibrarySiteCondition {
	return LibrarySiteCondition{
		ID:         codec.Required(f, "id", codec.Branded[LibrarySiteConditionKind]()),
		Name:       codec.Required(f, "name", codec.String),
		HandleCode: codec.Optional(f, "handleCode", codec.String),
	}
})
