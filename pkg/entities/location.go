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

type User struct {
	ID        UserID               `json:"id"`
	Name      string               `json:"name"`
	FirstName codec.Option[string] `json:"firstName"`
	LastName  codec.Option[string] `json:"lastName"`
	Email     codec.Option[string] `json:"email"`
	Role      codec.Option[string] `json:"role"`
}

func (u User) Identity() UserID { return u.ID }
func (u User) Key() string      { return u.ID.String() }

var UserCodec = codec.Object("User", func(f *codec.Fields) User {
	return User{
		ID:        codec.Required(f, "id", codec.Branded[UserKind]()),
		Name:      codec.Required(f, "name", codec.String),
		FirstName: codec.Optional(f, "firstName", codec.String),
		LastName:  codec.Optional(f, "lastName", codec.String),
		Email:     codec.Optional(f, "email", codec.String),
		Role:      codec.Optional(f, "role", codec.String),
	}
})

type Project struct {
	ID     ProjectID            `json:"id"`
	Name   string               `json:"name"`
	Number codec.Option[string] `json:"number"`
}

func (p Project) Identity() ProjectID { return p.ID }
func (p Project) Key() string         { return p.ID.String() }

var ProjectCodec = codec.Object("Project", func(f *codec.Fields) Project {
	return Project{
		ID:     codec.Required(f, "id", codec.Branded[ProjectKind]()),
		Name:   codec.Required(f, "name", codec.String),
		Number: codec.Optional(f, "number", codec.String),
	}
})

// ProjectLocation is a work site. Coordinates arrive as Decimal strings.
type ProjectLocation struct {
	ID         ProjectLocationID     `json:"id"`
	Name       string                `json:"name"`
	Latitude   codec.Decimal         `json:"latitude"`
	Longitude  codec.Decimal         `json:"longitude"`
	Address    codec.Option[string]  `json:"address"`
	RiskLevel  RiskLevel             `json:"riskLevel"`
	Project    codec.Option[Project] `json:"project"`
	Supervisor codec.Option[User]    `json:"supervisor"`
}

func (p ProjectLocation) Identity() ProjectLocationID { return p.ID }
func (p ProjectLocation) Key() string                 { return p.ID.String() }

var ProjectLocationCodec = codec.Object("ProjectLocation", func(f *codec.Fields) ProjectLocation {
	return ProjectLocation{
		ID:         codec.Required(f, "id", codec.Branded[ProjectLocationKind]()),
		Name:       codec.Required(f, "name", codec.String),
		Latitude:   codec.Required(f, "latitude", codec.NumberFromString),
		Longitude:  codec.Required(f, "longitude", codec.NumberFromString),
		Address:    codec.Optional(f, "address", codec.String),
		RiskLevel:  codec.OptionalOr(f, "riskLevel", RiskLevelCodec, RiskLevelUnknown),
		Project:    codec.Optional(f, "project", ProjectCodec),
		Supervisor: codec.Optional(f, "supervisor", UserCodec),
	}
})

// MedicalFacility is a facility near a job site, as listed on a JSB.
type MedicalFacility struct {
	ID              MedicalFacilityID           `json:"id"`
	Description     string                      `json:"description"`
	Address         codec.Option[string]        `json:"address"`
	City            codec.Option[string]        `json:"city"`
	State           codec.Option[string]        `json:"state"`
	Zip             codec.Option[int]           `json:"zip"`
	PhoneNumber     codec.Option[string]        `json:"phoneNumber"`
	DistanceFromJob codec.Option[codec.Decimal] `json:"distanceFromJob"`
}

func (m MedicalFacility) Identity() MedicalFacilityID { return m.ID }
func (m MedicalFacility) Key() string                 { return m.ID.String() }

var MedicalFacilityCodec = codec.Object("MedicalFacility", func(f *codec.Fields) MedicalFacility {
	return MedicalFacility{
		ID:              codec.Required(f, "id", codec.Branded[MedicalFacilityKind]()),
		Description:     codec.Required(f, "description", codec.NonEmptyString),
		Address:         codec.Optional(f, "address", codec.String),
		City:            codec.Optional(f, "city", codec.String),
		State:           codec.Optional(f, "state", codec.String),
		Zip:             codec.Optional(f, "zip", codec.Int),
		PhoneNumber:     codec.Optional(f, "phoneNumber", codec.String),
		DistanceFromJob: codec.Optional(f, "distanceFromJob", codec.NumberFromString),
	}
})
