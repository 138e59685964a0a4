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

// Control is a control recorded against a hazard.
type Control struct {
	ID             ControlID                    `json:"id"`
	Name           string                       `json:"name"`
	IsApplicable   bool                         `json:"isApplicable"`
	LibraryControl codec.Option[LibraryControl] `json:"libraryControl"`
}

func (c Control) Identity() ControlID { return c.ID }
func (c Control) Key() string         { return c.ID.String() }

var ControlCodec = codec.Object("Control", func(f *codec.Fields) Control {
	return Control{
		ID:             codec.Required(f, "id", codec.Branded[ControlKind]()),
		Name:           codec.Required(f, "name", codec.String),
		IsApplicable:   codec.OptionalOr(f, "isApplicable", codec.Bool, true),
		LibraryControl: codec.Optional(f, "libraryControl", LibraryControlCodec),
	}
})

// Hazard is a hazard recorded against a task or site condition.
type Hazard struct {
	ID            HazardID                    `json:"id"`
	Name          string                      `json:"name"`
	IsApplicable  bool                        `json:"isApplicable"`
	LibraryHazard codec.Option[LibraryHazard] `json:"libraryHazard"`
	Controls      []Control                   `json:"controls"`
}

func (h Hazard) Identity() HazardID { return h.ID }
func (h Hazard) Key() string        { return h.ID.String() }

var HazardCodec = codec.Object("Hazard", func(f *codec.Fields) Hazard {
	return Hazard{
		ID:            codec.Required(f, "id", codec.Branded[HazardKind]()),
		Name:          codec.Required(f, "name", codec.String),
		IsApplicable:  codec.OptionalOr(f, "isApplicable", codec.Bool, true),
		LibraryHazard: codec.Optional(f, "libraryHazard", LibraryHazardCodec),
		Controls:      codec.OptionalOr(f, "controls", codec.Array(ControlCodec), []Control{}),
	}
})

type Activity struct {
	ID                  ActivityID                        `json:"id"`
	Name                string                            `json:"name"`
	Status              codec.Option[TaskStatus]          `json:"status"`
	StartDate           codec.Option[codec.LocalDate]     `json:"startDate"`
	EndDate             codec.Option[codec.LocalDate]     `json:"endDate"`
	LibraryActivityType codec.Option[LibraryActivityType] `json:"libraryActivityType"`
}

func (a Activity) Identity() ActivityID { return a.ID }
func (a Activity) Key() string          { return a.ID.String() }

var ActivityCodec = codec.Object("Activity", func(f *codec.Fields) Activity {
	return Activity{
		ID:                  codec.Required(f, "id", codec.Branded[ActivityKind]()),
		Name:                codec.Required(f, "name", codec.String),
		Status:              codec.Optional(f, "status", TaskStatusCodec),
		StartDate:           codec.Optional(f, "startDate", codec.Date),
		EndDate:             codec.Optional(f, "endDate", codec.Date),
		LibraryActivityType: codec.Optional(f, "libraryActivityType", LibraryActivityTypeCodec),
	}
})

// Task is a unit of work at a location, scheduled for a date range.
type Task struct {
	ID          TaskID                        `json:"id"`
	Name        string                        `json:"name"`
	RiskLevel   RiskLevel                     `json:"riskLevel"`
	Status      codec.Option[TaskStatus]      `json:"status"`
	StartDate   codec.Option[codec.LocalDate] `json:"startDate"`
	EndDate     codec.Option[codec.LocalDate] `json:"endDate"`
	LibraryTask LibraryTaskRef                `json:"libraryTask"`
	Activity    codec.Option[Activity]        `json:"activity"`
	Hazards     []Hazard                      `json:"hazards"`
}

func (t Task) Identity() TaskID { return t.ID }
func (t Task) Key() string      { return t.ID.String() }

var TaskCodec = codec.Object("Task", func(f *codec.Fields) Task {
	return Task{
		ID:          codec.Required(f, "id", codec.Branded[TaskKind]()),
		Name:        codec.Required(f, "name", codec.String),
		RiskLevel:   codec.Required(f, "riskLevel", RiskLevelCodec),
		Status:      codec.Optional(f, "status", TaskStatusCodec),
		StartDate:   codec.Optional(f, "startDate", codec.Date),
		EndDate:     codec.Optional(f, "endDate", codec.Date),
		LibraryTask: codec.Required(f, "libraryTask", LibraryTaskRefCodec),
		Activity:    codec.Optional(f, "activity", ActivityCodec),
		Hazards:     codec.OptionalOr(f, "hazards", codec.Array(HazardCodec), []Hazard{}),
	}
})

// SiteCondition is a condition at a location on a given day, with its hazards.
type SiteCondition struct {
	ID                   SiteConditionID               `json:"id"`
	Name                 string                        `json:"name"`
	IsManuallyAdded      bool                          `json:"isManuallyAdded"`
	Date                 codec.Option[codec.LocalDate] `json:"date"`
	LibrarySiteCondition LibrarySiteCondition          `json:"librarySiteCondition"`
	Hazards              []Hazard                      `json:"hazards"`
}

func (s SiteCondition) Identity() SiteConditionID { return s.ID }
func (s SiteCondition) Key() string               { return s.ID.String() }

var SiteConditionCodec = codec.Object("SiteCondition", func(f *codec.Fields) SiteCondition {
	return SiteCondition{
		ID:                   codec.Required(f, "id", codec.Branded[SiteConditionKind]()),
		Name:                 codec.Required(f, "name", codec.String),
		IsManuallyAdded:      codec.OptionalOr(f, "isManuallyAdded", codec.Bool, false),
		Date:                 codec.Optional(f, "date", codec.Date),
		LibrarySiteCondition: codec.Required(f, "librarySiteCondition", LibrarySiteConditionCodec),
		Hazards:              codec.OptionalOr(f, "hazards", codec.Array(HazardCodec), []Hazard{}),
	}
})
