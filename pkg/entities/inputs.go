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

// Mutation inputs. They are encoded with codec.ToWire right before a request;
// absent options and nil slices are left out of the payload while empty slices
// are sent as [] to clear a section.

type ControlInput struct {
	ID           LibraryControlID `json:"id"`
	Name         string           `json:"name"`
	IsApplicable bool             `json:"isApplicable"`
}

type HazardInput struct {
	ID           LibraryHazardID `json:"id"`
	Name         string          `json:"name"`
	IsApplicable bool            `json:"isApplicable"`
	Controls     []ControlInput  `json:"controls"`
}

// Input converts a recorded hazard back into its library-based input. It
// reports false for hazards that were not created from the library.
func (h Hazard) Input() (HazardInput, bool) {
	lib, ok := h.LibraryHazard.Get()
	if !ok {
		return HazardInput{}, false
	}

	in := HazardInput{ID: lib.ID, Name: h.Name, IsApplicable: h.IsApplicable, Controls: []ControlInput{}}

	for _, c := range h.Controls {
		libControl, ok := c.LibraryControl.Get()
		if !ok {
			continue
		}

		in.Controls = append(in.Controls, ControlInput{ID: libControl.ID, Name: c.Name, IsApplicable: c.IsApplicable})
	}

	return in, true
}

type FileInput struct {
	ID          FileID               `json:"id"`
	Name        string               `json:"name"`
	DisplayName string               `json:"displayName"`
	Size        codec.Option[string] `json:"size"`
	URL         string               `json:"url"`
	SignedURL   codec.Option[string] `json:"signedUrl"`
	MimeType    codec.Option[string] `json:"mimetype"`
}

type WorkLocationInput struct {
	Address     string               `json:"address"`
	Description string               `json:"description"`
	OperatingHQ codec.Option[string] `json:"operatingHq"`
}

type JsbMetadataInput struct {
	BriefingDateTime time.Time `json:"briefingDateTime"`
}

type TaskSelectionInput struct {
	ID            LibraryTaskID           `json:"id"`
	Name          codec.Option[string]    `json:"name"`
	RiskLevel     codec.Option[RiskLevel] `json:"riskLevel"`
	FromWorkOrder bool                    `json:"fromWorkOrder"`
}

type EmergencyContactInput struct {
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Primary     bool   `json:"primary"`
}

type MedicalFacilityInput struct {
	Description     string                      `json:"description"`
	Address         codec.Option[string]        `json:"address"`
	City            codec.Option[string]        `json:"city"`
	State           codec.Option[string]        `json:"state"`
	Zip             codec.Option[int]           `json:"zip"`
	PhoneNumber     codec.Option[string]        `json:"phoneNumber"`
	DistanceFromJob codec.Option[codec.Decimal] `json:"distanceFromJob"`
}

// SaveJsbInput saves (or, with CompleteJsb, completes) a briefing. A zero
// JsbID creates a new briefing.
type SaveJsbInput struct {
	JsbID                  JsbID                              `json:"jsbId"`
	WorkLocation           codec.Option[WorkLocationInput]    `json:"workLocation"`
	JsbMetadata            codec.Option[JsbMetadataInput]     `json:"jsbMetadata"`
	TaskSelections         []TaskSelectionInput               `json:"taskSelections"`
	Hazards                []HazardInput                      `json:"hazards"`
	EmergencyContacts      []EmergencyContactInput            `json:"emergencyContacts"`
	NearestMedicalFacility codec.Option[MedicalFacilityInput] `json:"nearestMedicalFacility"`
	Photos                 []FileInput                        `json:"photos"`
}

type DepartmentInput struct {
	ID   DepartmentID `json:"id"`
	Name string       `json:"name"`
}

type ObservationDetailsInput struct {
	ObservationDate    codec.LocalDate      `json:"observationDate"`
	ObservationTime    codec.LocalTime      `json:"observationTime"`
	WorkLocation       codec.Option[string] `json:"workLocation"`
	DepartmentObserved DepartmentInput      `json:"departmentObserved"`
	WorkOrderNumber    codec.Option[string] `json:"workOrderNumber"`
	WorkTypes          []WorkTypeID         `json:"workType"`
}

type EboTaskInput struct {
	ID         LibraryTaskID           `json:"id"`
	Name       string                  `json:"name"`
	InstanceID int                     `json:"instanceId"`
	RiskLevel  codec.Option[RiskLevel] `json:"riskLevel"`
}

type EboActivityInput struct {
	ID    ActivityID     `json:"id"`
	Name  string         `json:"name"`
	Tasks []EboTaskInput `json:"tasks"`
}

type HighEnergyTaskInput struct {
	ID         LibraryTaskID `json:"id"`
	InstanceID int           `json:"instanceId"`
	Hazards    []HazardInput `json:"hazards"`
}

type EboInput struct {
	Details               codec.Option[ObservationDetailsInput] `json:"details"`
	Activities            []EboActivityInput                    `json:"activities"`
	HighEnergyTasks       []HighEnergyTaskInput                 `json:"highEnergyTasks"`
	Photos                []FileInput                           `json:"photos"`
	AdditionalInformation codec.Option[string]                  `json:"additionalInformation"`
}
