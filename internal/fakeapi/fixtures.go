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

package fakeapi

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/worker-safety/safety-client/pkg/codec"
	"github.com/worker-safety/safety-client/pkg/entities"
	"github.com/worker-safety/safety-client/pkg/operations"
	"github.com/worker-safety/safety-client/pkg/safejson"
)

// Seed registers resolvers for every bundled operation, backed by sample
// library data and an in-memory form store.
func (s *Server) Seed() {
	st := newStore()

	s.Handle(operations.Me, reply(func(map[string]any) (any, error) {
		return st.user, nil
	}))
	s.Handle(operations.GetTask, reply(func(vars map[string]any) (any, error) {
		return lookup(sampleTasks(), stringVar(vars, "id"), "Task")
	}))
	s.Handle(operations.ListTasks, reply(func(map[string]any) (any, error) {
		return sampleTasks(), nil
	}))
	s.Handle(operations.ListLibraryTasks, reply(func(vars map[string]any) (any, error) {
		return filterLibrary(sampleLibrary(), vars["ids"]), nil
	}))
	s.Handle(operations.ListSiteConditions, reply(func(vars map[string]any) (any, error) {
		return sampleSiteConditions(stringVar(vars, "date")), nil
	}))
	s.Handle(operations.GetProjectLocation, reply(func(vars map[string]any) (any, error) {
		return lookup([]entities.ProjectLocation{sampleLocation(st.user)}, stringVar(vars, "id"), "ProjectLocation")
	}))
	s.Handle(operations.NearestMedicalFacilities, reply(func(map[string]any) (any, error) {
		return sampleFacilities(), nil
	}))
	s.Handle(operations.FileUploadPolicies, reply(func(vars map[string]any) (any, error) {
		return s.policies(vars["count"])
	}))

	s.Handle(operations.GetJsb, reply(func(vars map[string]any) (any, error) {
		return st.jsb(stringVar(vars, "id"))
	}))
	s.Handle(operations.SaveJsb, reply(func(vars map[string]any) (any, error) {
		return st.saveJsb(vars, entities.FormStatusInProgress)
	}))
	s.Handle(operations.CompleteJsb, reply(func(vars map[string]any) (any, error) {
		return st.saveJsb(vars, entities.FormStatusComplete)
	}))
	s.Handle(operations.ReopenJsb, reply(func(vars map[string]any) (any, error) {
		return st.reopenJsb(stringVar(vars, "id"))
	}))
	s.Handle(operations.DeleteJsb, reply(func(vars map[string]any) (any, error) {
		return st.deleteJsb(stringVar(vars, "id"))
	}))

	s.Handle(operations.GetEbo, reply(func(vars map[string]any) (any, error) {
		return st.ebo(stringVar(vars, "id"))
	}))
	s.Handle(operations.SaveEbo, reply(func(vars map[string]any) (any, error) {
		return st.saveEbo(vars, entities.FormStatusInProgress)
	}))
	s.Handle(operations.CompleteEbo, reply(func(vars map[string]any) (any, error) {
		return st.saveEbo(vars, entities.FormStatusComplete)
	}))
	s.Handle(operations.ReopenEbo, reply(func(vars map[string]any) (any, error) {
		return st.reopenEbo(stringVar(vars, "id"))
	}))
	s.Handle(operations.DeleteEbo, reply(func(vars map[string]any) (any, error) {
		return st.deleteEbo(stringVar(vars, "id"))
	}))
}

// reply turns a typed fixture into a Resolver by encoding it to its wire form.
func reply(fn func(vars map[string]any) (any, error)) Resolver {
	return func(_ context.Context, vars map[string]any) (any, error) {
		value, err := fn(vars)
		if err != nil {
			return nil, err
		}

		return codec.ToWire(value)
	}
}

func stringVar(vars map[string]any, name string) string {
	s, _ := vars[name].(string)

	return s
}

func decodeVar[T any](vars map[string]any, name string) (T, error) {
	var out T

	raw, ok := vars[name]
	if !ok {
		return out, gqlerror.Errorf("variable $%s is required", name)
	}

	encoded, err := safejson.Marshal(raw)
	if err != nil {
		return out, err
	}

	if err := safejson.Unmarshal(encoded, &out); err != nil {
		return out, gqlerror.Errorf("variable $%s: %v", name, err)
	}

	return out, nil
}

func notFound(typeName, id string) error {
	return gqlerror.Errorf("%s with id %s does not exist", typeName, id)
}

func lookup[E entities.Identified](items []E, id, typeName string) (E, error) {
	for _, item := range items {
		if item.Key() == id {
			return item, nil
		}
	}

	var zero E

	return zero, notFound(typeName, id)
}

func newID[K codec.Kind]() codec.ID[K] {
	return codec.MustID[K](uuid.NewString())
}

func (s *Server) policies(raw any) ([]entities.FileUploadPolicy, error) {
	count, ok := raw.(float64)
	if !ok || count < 1 || count > 20 {
		return nil, gqlerror.Errorf("count must be between 1 and 20")
	}

	base := s.BaseURL()

	out := make([]entities.FileUploadPolicy, 0, int(count))
	for n := 0; n < int(count); n++ {
		key := "uploads/" + uuid.NewString()
		out = append(out, entities.FileUploadPolicy{
			ID:        newID[entities.FileUploadPolicyKind](),
			URL:       base + StoragePath,
			SignedURL: base + StoragePath + "/" + key + "?X-Amz-Signature=fake",
			Fields: entities.PolicyFields{
				"key":              key,
				"policy":           "eyJjb25kaXRpb25zIjpbXX0=",
				"x-amz-algorithm":  "AWS4-HMAC-SHA256",
				"x-amz-credential": "fake/20250101/us-east-1/s3/aws4_request",
				"x-amz-signature":  "fake",
			},
		})
	}

	return out, nil
}

// store keeps the forms created through the fake API.
type store struct {
	mu   sync.Mutex
	now  func() time.Time
	user entities.User
	jsbs map[string]entities.Jsb
	ebos map[string]entities.Ebo
}

func newStore() *store {
	return &store{
		now:  time.Now,
		user: sampleUser(),
		jsbs: make(map[string]entities.Jsb),
		ebos: make(map[string]entities.Ebo),
	}
}

func (st *store) jsb(id string) (entities.Jsb, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	j, ok := st.jsbs[id]
	if !ok {
		return entities.Jsb{}, notFound("JobSafetyBriefing", id)
	}

	return j, nil
}

func (st *store) saveJsb(vars map[string]any, status entities.FormStatus) (entities.Jsb, error) {
	in, err := decodeVar[entities.SaveJsbInput](vars, "input")
	if err != nil {
		return entities.Jsb{}, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now().UTC()

	j := entities.Jsb{ID: newID[entities.JsbKind](), CreatedAt: now, CreatedBy: codec.Some(st.user)}
	if !in.JsbID.IsZero() {
		existing, ok := st.jsbs[in.JsbID.String()]
		if !ok {
			return entities.Jsb{}, notFound("JobSafetyBriefing", in.JsbID.String())
		}

		if existing.Status == entities.FormStatusComplete {
			return entities.Jsb{}, gqlerror.Errorf("JobSafetyBriefing %s is complete and must be reopened first", in.JsbID)
		}

		j = existing
		j.UpdatedAt = codec.Some(now)
	}

	j.Status = status
	j.Contents = jsbContents(in)

	if status == entities.FormStatusComplete {
		j.CompletedAt = codec.Some(now)
		j.CompletedBy = codec.Some(st.user)
	}

	st.jsbs[j.ID.String()] = j

	return j, nil
}

func (st *store) reopenJsb(id string) (entities.Jsb, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	j, ok := st.jsbs[id]
	if !ok {
		return entities.Jsb{}, notFound("JobSafetyBriefing", id)
	}

	if j.Status != entities.FormStatusComplete {
		return entities.Jsb{}, gqlerror.Errorf("JobSafetyBriefing %s is not complete", id)
	}

	j.Status = entities.FormStatusInProgress
	j.CompletedAt = codec.None[time.Time]()
	j.CompletedBy = codec.None[entities.User]()
	j.UpdatedAt = codec.Some(st.now().UTC())
	st.jsbs[id] = j

	return j, nil
}

func (st *store) deleteJsb(id string) (bool, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.jsbs[id]; !ok {
		return false, notFound("JobSafetyBriefing", id)
	}

	delete(st.jsbs, id)

	return true, nil
}

func (st *store) ebo(id string) (entities.Ebo, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	e, ok := st.ebos[id]
	if !ok {
		return entities.Ebo{}, notFound("EnergyBasedObservation", id)
	}

	return e, nil
}

func (st *store) saveEbo(vars map[string]any, status entities.FormStatus) (entities.Ebo, error) {
	in, err := decodeVar[entities.EboInput](vars, "input")
	if err != nil {
		return entities.Ebo{}, err
	}

	id := stringVar(vars, "id")

	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now().UTC()

	e := entities.Ebo{ID: newID[entities.EboKind](), CreatedAt: now, CreatedBy: codec.Some(st.user)}
	if id != "" {
		existing, ok := st.ebos[id]
		if !ok {
			return entities.Ebo{}, notFound("EnergyBasedObservation", id)
		}

		if existing.Status == entities.FormStatusComplete {
			return entities.Ebo{}, gqlerror.Errorf("EnergyBasedObservation %s is complete and must be reopened first", id)
		}

		e = existing
		e.UpdatedAt = codec.Some(now)
	}

	e.Status = status
	e.Contents = eboContents(in)

	if status == entities.FormStatusComplete {
		e.CompletedAt = codec.Some(now)
	}

	st.ebos[e.ID.String()] = e

	return e, nil
}

func (st *store) reopenEbo(id string) (entities.Ebo, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	e, ok := st.ebos[id]
	if !ok {
		return entities.Ebo{}, notFound("EnergyBasedObservation", id)
	}

	if e.Status != entities.FormStatusComplete {
		return entities.Ebo{}, gqlerror.Errorf("EnergyBasedObservation %s is not complete", id)
	}

	e.Status = entities.FormStatusInProgress
	e.CompletedAt = codec.None[time.Time]()
	e.UpdatedAt = codec.Some(st.now().UTC())
	st.ebos[id] = e

	return e, nil
}

func (st *store) deleteEbo(id string) (bool, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.ebos[id]; !ok {
		return false, notFound("EnergyBasedObservation", id)
	}

	delete(st.ebos, id)

	return true, nil
}

func jsbContents(in entities.SaveJsbInput) entities.JsbContents {
	var c entities.JsbContents

	if m, ok := in.JsbMetadata.Get(); ok {
		c.JsbMetadata = codec.Some(entities.JsbMetadata{BriefingDateTime: m.BriefingDateTime})
	}

	if w, ok := in.WorkLocation.Get(); ok {
		c.WorkLocation = codec.Some(entities.WorkLocation(w))
	}

	for _, t := range in.TaskSelections {
		c.TaskSelections = append(c.TaskSelections, entities.TaskSelection(t))
	}

	c.Hazards = recordHazards(in.Hazards)

	for _, e := range in.EmergencyContacts {
		c.EmergencyContacts = append(c.EmergencyContacts, entities.EmergencyContact(e))
	}

	if m, ok := in.NearestMedicalFacility.Get(); ok {
		c.NearestMedicalFacility = codec.Some(entities.MedicalFacility{
			ID:              newID[entities.MedicalFacilityKind](),
			Description:     m.Description,
			Address:         m.Address,
			City:            m.City,
			State:           m.State,
			Zip:             m.Zip,
			PhoneNumber:     m.PhoneNumber,
			DistanceFromJob: m.DistanceFromJob,
		})
	}

	c.Photos = recordFiles(in.Photos)

	return c
}

func eboContents(in entities.EboInput) entities.EboContents {
	var c entities.EboContents

	if d, ok := in.Details.Get(); ok {
		details := entities.ObservationDetails{
			ObservationDate:    d.ObservationDate,
			ObservationTime:    d.ObservationTime,
			WorkLocation:       d.WorkLocation,
			DepartmentObserved: entities.Department(d.DepartmentObserved),
			WorkOrderNumber:    d.WorkOrderNumber,
		}
		for _, id := range d.WorkTypes {
			details.WorkTypes = append(details.WorkTypes, workTypeName(id))
		}

		c.Details = codec.Some(details)
	}

	for _, a := range in.Activities {
		activity := entities.EboActivity{ID: a.ID, Name: a.Name}
		for _, t := range a.Tasks {
			activity.Tasks = append(activity.Tasks, entities.EboTask(t))
		}

		c.Activities = append(c.Activities, activity)
	}

	for _, t := range in.HighEnergyTasks {
		c.HighEnergyTasks = append(c.HighEnergyTasks, entities.HighEnergyTask{
			ID:         t.ID,
			InstanceID: t.InstanceID,
			Hazards:    recordHazards(t.Hazards),
		})
	}

	c.Photos = recordFiles(in.Photos)
	c.AdditionalInformation = in.AdditionalInformation

	return c
}

func recordHazards(inputs []entities.HazardInput) []entities.Hazard {
	var out []entities.Hazard

	for _, in := range inputs {
		hazard := entities.Hazard{
			ID:            newID[entities.HazardKind](),
			Name:          in.Name,
			IsApplicable:  in.IsApplicable,
			LibraryHazard: codec.Some(entities.LibraryHazard{ID: in.ID, Name: in.Name, IsApplicable: true}),
		}

		for _, c := range in.Controls {
			hazard.Controls = append(hazard.Controls, entities.Control{
				ID:             newID[entities.ControlKind](),
				Name:           c.Name,
				IsApplicable:   c.IsApplicable,
				LibraryControl: codec.Some(entities.LibraryControl{ID: c.ID, Name: c.Name, IsApplicable: true}),
			})
		}

		out = append(out, hazard)
	}

	return out
}

func recordFiles(inputs []entities.FileInput) []entities.File {
	var out []entities.File
	for _, f := range inputs {
		out = append(out, entities.File(f))
	}

	return out
}

func workTypeName(id entities.WorkTypeID) entities.WorkType {
	for _, task := range sampleLibrary() {
		if w, ok := entities.FindByID(task.WorkTypes, id); ok {
			return w
		}
	}

	return entities.WorkType{ID: id, Name: "Unknown work type"}
}

func filterLibrary(library []entities.LibraryTask, raw any) []entities.LibraryTask {
	ids, ok := raw.([]any)
	if !ok {
		return library
	}

	return slices.DeleteFunc(library, func(t entities.LibraryTask) bool {
		return !slices.Contains(ids, any(t.ID.String()))
	})
}

func sampleUser() entities.User {
	return entities.User{
		ID:        codec.MustID[entities.UserKind]("7d5f0c6e-1f43-4c1c-9a5b-2f1f6f1b0a01"),
		Name:      "Dana Field",
		FirstName: codec.Some("Dana"),
		LastName:  codec.Some("Field"),
		Email:     codec.Some("dana.field@example.com"),
		Role:      codec.Some("supervisor"),
	}
}

func sampleLocation(supervisor entities.User) entities.ProjectLocation {
	return entities.ProjectLocation{
		ID:        codec.MustID[entities.ProjectLocationKind]("0b7a3c55-62e4-4a7c-8f0e-0d6b1e2f3a10"),
		Name:      "North Substation",
		Latitude:  47.6062,
		Longitude: -122.3321,
		Address:   codec.Some("100 Grid Way, Seattle, WA"),
		RiskLevel: entities.RiskLevelMedium,
		Project: codec.Some(entities.Project{
			ID:     codec.MustID[entities.ProjectKind]("a3f1e9b2-5c7d-4e1f-9a2b-3c4d5e6f7a80"),
			Name:   "Substation upgrade",
			Number: codec.Some("P-1042"),
		}),
		Supervisor: codec.Some(supervisor),
	}
}

func sampleLibraryHazards() []entities.LibraryHazard {
	return []entities.LibraryHazard{
		{
			ID:           codec.MustID[entities.LibraryHazardKind]("lh-cave-in"),
			Name:         "Trench cave-in",
			IsApplicable: true,
			Controls: []entities.LibraryControl{
				{ID: codec.MustID[entities.LibraryControlKind]("lc-shoring"), Name: "Shoring", IsApplicable: true},
				{ID: codec.MustID[entities.LibraryControlKind]("lc-sloping"), Name: "Sloping", IsApplicable: true},
			},
		},
		{
			ID:           codec.MustID[entities.LibraryHazardKind]("lh-energized"),
			Name:         "Contact with energized equipment",
			IsApplicable: true,
			Controls: []entities.LibraryControl{
				{ID: codec.MustID[entities.LibraryControlKind]("lc-loto"), Name: "Lockout/tagout", IsApplicable: true},
			},
		},
	}
}

func sampleLibrary() []entities.LibraryTask {
	hazards := sampleLibraryHazards()

	return []entities.LibraryTask{
		{
			ID:        codec.MustID[entities.LibraryTaskKind]("lt-excavation"),
			Name:      "Excavation",
			Category:  codec.Some("Civil"),
			RiskLevel: entities.RiskLevelHigh,
			WorkTypes: []entities.WorkType{{ID: codec.MustID[entities.WorkTypeKind]("wt-civil"), Name: "Civil"}},
			Hazards:   hazards[:1],
		},
		{
			ID:        codec.MustID[entities.LibraryTaskKind]("lt-switching"),
			Name:      "Switching",
			Category:  codec.Some("Electrical"),
			RiskLevel: entities.RiskLevelMedium,
			WorkTypes: []entities.WorkType{{ID: codec.MustID[entities.WorkTypeKind]("wt-electrical"), Name: "Electrical"}},
			Hazards:   hazards[1:],
		},
	}
}

func sampleTasks() []entities.Task {
	var out []entities.Task

	for i, lib := range sampleLibrary() {
		task := entities.Task{
			ID:          codec.MustID[entities.TaskKind](fmt.Sprintf("task-%d", i+1)),
			Name:        lib.Name,
			RiskLevel:   lib.RiskLevel,
			Status:      codec.Some(entities.TaskStatusInProgress),
			LibraryTask: entities.LibraryTaskRef{ID: lib.ID, Name: codec.Some(lib.Name), Category: lib.Category},
		}

		for j, h := range lib.Hazards {
			hazard := entities.Hazard{
				ID:            codec.MustID[entities.HazardKind](fmt.Sprintf("hazard-%d-%d", i+1, j+1)),
				Name:          h.Name,
				IsApplicable:  true,
				LibraryHazard: codec.Some(h),
			}
			for k, c := range h.Controls {
				hazard.Controls = append(hazard.Controls, entities.Control{
					ID:             codec.MustID[entities.ControlKind](fmt.Sprintf("control-%d-%d-%d", i+1, j+1, k+1)),
					Name:           c.Name,
					IsApplicable:   true,
					LibraryControl: codec.Some(c),
				})
			}

			task.Hazards = append(task.Hazards, hazard)
		}

		out = append(out, task)
	}

	return out
}

func sampleSiteConditions(date string) []entities.SiteCondition {
	condition := entities.SiteCondition{
		ID:   codec.MustID[entities.SiteConditionKind]("sc-wind"),
		Name: "High wind",
		LibrarySiteCondition: entities.LibrarySiteCondition{
			ID:         codec.MustID[entities.LibrarySiteConditionKind]("lsc-wind"),
			Name:       "High wind",
			HandleCode: codec.Some("wind_speed"),
		},
	}

	if d, err := codec.ParseLocalDate(date); err == nil {
		condition.Date = codec.Some(d)
	}

	return []entities.SiteCondition{condition}
}

func sampleFacilities() []entities.MedicalFacility {
	return []entities.MedicalFacility{
		{
			ID:              codec.MustID[entities.MedicalFacilityKind]("mf-harborview"),
			Description:     "Harborview Medical Center",
			Address:         codec.Some("325 9th Ave"),
			City:            codec.Some("Seattle"),
			State:           codec.Some("WA"),
			Zip:             codec.Some(98104),
			PhoneNumber:     codec.Some("206-744-3000"),
			DistanceFromJob: codec.Some(codec.Decimal(1.25)),
		},
		{
			ID:              codec.MustID[entities.MedicalFacilityKind]("mf-swedish"),
			Description:     "Swedish First Hill",
			City:            codec.Some("Seattle"),
			State:           codec.Some("WA"),
			DistanceFromJob: codec.Some(codec.Decimal(2.5)),
		},
	}
}
