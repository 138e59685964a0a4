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

// Shapes lists the top-level entity codecs. Nested codecs are reached
// through their parents.
func Shapes() []codec.ObjectShape {
	return []codec.ObjectShape{
		UserCodec,
		ProjectCodec,
		ProjectLocationCodec,
		MedicalFacilityCodec,
		WorkTypeCodec,
		DepartmentCodec,
		LibraryActivityTypeCodec,
		LibraryControlCodec,
		LibraryHazardCodec,
		LibraryTaskCodec,
		LibraryTaskRefCodec,
		LibrarySiteConditionCodec,
		ControlCodec,
		HazardCodec,
		ActivityCodec,
		TaskCodec,
		SiteConditionCodec,
		FileUploadPolicyCodec,
		FileCodec,
		JsbCodec,
		EboCodec,
	}
}
