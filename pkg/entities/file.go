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
	"github.com/worker-safety/safety-client/pkg/codec"
	"github.com/worker-safety/safety-client/pkg/safejson"
)

// PolicyFields are the form fields a signed upload policy requires. The API
// sends them as a JSON document inside a string.
type PolicyFields map[string]string

func (p PolicyFields) MarshalJSON() ([]byte, error) {
	inner, err := safejson.Marshal(map[string]string(p))
	if err != nil {
		return nil, err
	}

	return safejson.Marshal(string(inner))
}

// FileUploadPolicy authorises one direct upload to object storage.
type FileUploadPolicy struct {
	ID        FileUploadPolicyID `json:"id"`
	URL       string             `json:"url"`
	SignedURL string             `json:"signedUrl"`
	Fields    PolicyFields       `json:"fields"`
}

func (p FileUploadPolicy) Identity() FileUploadPolicyID { return p.ID }
func (p FileUploadPolicy) Key() string                  { return p.ID.String() }

var policyFieldsCodec = codec.New("PolicyFields",
	func(raw any, path codec.Path) (PolicyFields, codec.Issues) {
		m, issues := codec.JSONString(codec.Dict(codec.String)).Decode(raw, path)
		if len(issues) > 0 {
			return nil, issues
		}

		return PolicyFields(m), nil
	},
	func(v PolicyFields) any {
		encoded, err := safejson.Marshal(map[string]string(v))
		if err != nil {
			return nil
		}

		return string(encoded)
	},
)

var FileUploadPolicyCodec = codec.Object("FileUploadPolicy", func(f *codec.Fields) FileUploadPolicy {
	return FileUploadPolicy{
		ID:        codec.Required(f, "id", codec.Branded[FileUploadPolicyKind]()),
		URL:       codec.Required(f, "url", codec.NonEmptyString),
		SignedURL: codec.Required(f, "signedUrl", codec.NonEmptyString),
		Fields:    codec.Required(f, "fields", policyFieldsCodec),
	}
})

// File is an uploaded attachment (photo or document) referenced by a form.
type File struct {
	ID          FileID               `json:"id"`
	Name        string               `json:"name"`
	DisplayName string               `json:"displayName"`
	Size        codec.Option[string] `json:"size"`
	URL         string               `json:"url"`
	SignedURL   codec.Option[string] `json:"signedUrl"`
	MimeType    codec.Option[string] `json:"mimetype"`
}

func (f File) Identity() FileID { return f.ID }
func (f File) Key() string      { return f.ID.String() }

var FileCodec = codec.Object("File", func(f *codec.Fields) File {
	return File{
		ID:          codec.Required(f, "id", codec.Branded[FileKind]()),
		Name:        codec.Required(f, "name", codec.String),
		DisplayName: codec.Required(f, "displayName", codec.String),
		Size:        codec.Optional(f, "size", codec.String),
		URL:         codec.Required(f, "url", codec.String),
		SignedURL:   codec.Optional(f, "signedUrl", codec.String),
		MimeType:    codec.Optional(f, "mimetype", codec.String),
	}
})

// Input converts an uploaded file into the reference a form mutation carries.
func (f File) Input() FileInput {
	return FileInput{
		ID:          f.ID,
		Name:        f.Name,
		DisplayName: f.DisplayName,
		Size:        f.Size,
		URL:         f.URL,
		SignedURL:   f.SignedURL,
		MimeType:    f.MimeType,
	}
}
