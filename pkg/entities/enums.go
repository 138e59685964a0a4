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

type RiskLevel string

const (
	RiskLevelHigh          RiskLevel = "HIGH"
	RiskLevelMedium        RiskLevel = "MEDIUM"
	RiskLevelLow           RiskLevel = "LOW"
	RiskLevelRecalculating RiskLevel = "RECALCULATING"
	RiskLevelUnknown       RiskLevel = "UNKNOWN"
)

var RiskLevelCodec codec.Codec[RiskLevel] = codec.Enum("RiskLevel",
	RiskLevelHigh, RiskLevelMedium, RiskLevelLow, RiskLevelRecalculating, RiskLevelUnknown)

type TaskStatus string

const (
	TaskStatusNotStarted   TaskStatus = "NOT_STARTED"
	TaskStatusInProgress   TaskStatus = "IN_PROGRESS"
	TaskStatusComplete     TaskStatus = "COMPLETE"
	TaskStatusNotCompleted TaskStatus = "NOT_COMPLETED"
)

var TaskStatusCodec codec.Codec[TaskStatus] = codec.Enum("TaskStatus",
	TaskStatusNotStarted, TaskStatusInProgress, TaskStatusComplete, TaskStatusNotCompleted)

// FormStatus is the server-side status of a JSB or EBO.
type FormStatus string

const (
	FormStatusInProgress FormStatus = "IN_PROGRESS"
	FormStatusComplete   FormStatus = "COMPLETE"
)

var FormStatusCodec codec.Codec[FormStatus] = codec.Enum("FormStatus", FormStatusInProgress, FormStatusComplete)
