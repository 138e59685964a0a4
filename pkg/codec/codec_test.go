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

package codec_test

import (
	"errors"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/worker-safety/safety-client/pkg/codec"
	"github.com/worker-safety/safety-client/pkg/safejson"
)

type widgetKind struct{}

func (widgetKind) KindName() string { return "WidgetId" }

type gadgetKind struct{}

func (gadgetKind) KindName() string { return "GadgetId" }

type color string

const (
	red  color = "RED"
	blue color = "BLUE"
)

type department struct {
	ID   codec.ID[gadgetKind] `json:"id"`
	Name string               `json:"name"`
}

type widget struct {
	ID         codec.ID[widgetKind]     `json:"id"`
	Name       string                   `json:"name"`
	Color      color                    `json:"color"`
	Note       codec.Option[string]     `json:"note"`
	Tags       []string                 `json:"tags"`
	Department codec.Option[department] `json:"department"`
}

var departmentCodec = codec.Object("Department", func(f *codec.Fields) department {
	return department{
		ID:   codec.Required(f, "id", codec.Branded[gadgetKind]()),
		Name: codec.Required(f, "name", codec.NonEmptyString),
	}
})

var widgetCodec = codec.Object("Widget", func(f *codec.Fields) widget {
	return widget{
		ID:         codec.Required(f, "id", codec.Branded[widgetKind]()),
		Name:       codec.Required(f, "name", codec.String),
		Color:      codec.Required(f, "color", codec.Enum("Color", red, blue)),
		Note:       codec.Optional(f, "note", codec.String),
		Tags:       codec.OptionalOr(f, "tags", codec.Array(codec.String), []string{}),
		Department: codec.Optional(f, "department", departmentCodec),
	}
})

func decodeJSON[T any](c codec.Codec[T], doc string) (T, error) {
	raw, err := safejson.DecodeValue([]byte(doc))
	Expect(err).ToNot(HaveOccurred())

	return codec.Decode(c, raw)
}

func issuePaths(err error) []string {
	var decodeErr *codec.DecodeError
	Expect(errors.As(err, &decodeErr)).To(BeTrue())

	return decodeErr.Issues.Paths()
}

var _ = Describe("Primitive codecs", func() {
	Describe("Branded", func() {
		It("keeps a non-empty string unchanged", func() {
			id, err := codec.Decode(codec.Branded[widgetKind](), "abc")
			Expect(err).ToNot(HaveOccurred())
			Expect(id.String()).To(Equal("abc"))
			Expect(id).To(Equal(codec.MustID[widgetKind]("abc")))
		})

		DescribeTable("keeps any non-empty string byte for byte",
			func(raw string) {
				id, err := codec.Decode(codec.Branded[widgetKind](), raw)
				Expect(err).ToNot(HaveOccurred())
				Expect(id.String()).To(Equal(raw))

				built, err := codec.NewID[widgetKind](raw)
				Expect(err).ToNot(HaveOccurred())
				Expect(built).To(Equal(id))

				s, err := codec.Decode(codec.NonEmptyString, raw)
				Expect(err).ToNot(HaveOccurred())
				Expect(s).To(Equal(raw))
			},
			Entry("a single space", " "),
			Entry("several spaces", "   "),
			Entry("a tab", "\t"),
			Entry("padded text", "  lt-1 "),
		)

		It("refuses an empty identifier", func() {
			_, err := codec.NewID[widgetKind]("")
			Expect(err).To(MatchError(codec.ErrEmptyID))

			_, err = codec.Decode(codec.NonEmptyString, "")
			Expect(err).To(HaveOccurred())
		})

		DescribeTable("rejects",
			func(raw any) {
				_, err := codec.Decode(codec.Branded[widgetKind](), raw)
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring("WidgetId"))
			},
			Entry("the empty string", ""),
			Entry("a number", float64(12)),
			Entry("null", nil),
		)

		It("round-trips through JSON", func() {
			id := codec.MustID[widgetKind]("w-1")
			encoded, err := safejson.Marshal(id)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(encoded)).To(Equal(`"w-1"`))

			var decoded codec.ID[widgetKind]
			Expect(safejson.Unmarshal(encoded, &decoded)).To(Succeed())
			Expect(decoded).To(Equal(id))
		})

		It("refuses to unmarshal an empty identifier", func() {
			var decoded codec.ID[widgetKind]
			err := safejson.Unmarshal([]byte(`""`), &decoded)
			Expect(err).To(MatchError(ContainSubstring("non-empty")))
		})

		It("orders identifiers lexically", func() {
			Expect(codec.MustID[widgetKind]("a").Compare(codec.MustID[widgetKind]("b"))).To(Equal(-1))
			Expect(codec.MustID[widgetKind]("b").Compare(codec.MustID[widgetKind]("b"))).To(Equal(0))
		})
	})

	Describe("Enum", func() {
		enum := codec.Enum("Color", red, blue)

		It("accepts declared members", func() {
			v, err := codec.Decode[color](enum, "BLUE")
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(blue))
		})

		It("rejects anything else", func() {
			_, err := codec.Decode[color](enum, "GREEN")
			Expect(err).To(MatchError(ContainSubstring("Color(RED|BLUE)")))

			_, err = codec.Decode[color](enum, "red")
			Expect(err).To(HaveOccurred())
		})

		It("exposes its members", func() {
			Expect(enum.Members()).To(Equal([]string{"RED", "BLUE"}))
			Expect(enum.TypeName()).To(Equal("Color"))
		})
	})

	Describe("numbers", func() {
		It("accepts integral floats as integers", func() {
			v, err := codec.Decode(codec.Int, float64(3))
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(3))

			_, err = codec.Decode(codec.Int, 3.5)
			Expect(err).To(HaveOccurred())
		})

		It("parses numbers carried in strings", func() {
			v, err := codec.Decode(codec.NumberFromString, "40.7128")
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(BeNumerically("~", 40.7128, 1e-9))
			Expect(codec.NumberFromString.Encode(v)).To(Equal("40.7128"))
		})

		DescribeTable("rejects non-finite or malformed decimal strings",
			func(raw any) {
				_, err := codec.Decode(codec.NumberFromString, raw)
				Expect(err).To(HaveOccurred())
			},
			Entry("NaN", "NaN"),
			Entry("Inf", "Inf"),
			Entry("letters", "abc"),
			Entry("an actual number", 4.5),
		)

		It("never produces NaN", func() {
			v, err := codec.Decode(codec.NumberFromString, "-0.5")
			Expect(err).ToNot(HaveOccurred())
			Expect(math.IsNaN(v.Float64())).To(BeFalse())
		})
	})

	Describe("DateTime", func() {
		DescribeTable("round-trips valid timestamps to the same instant",
			func(input string) {
				t, err := codec.Decode(codec.DateTime, input)
				Expect(err).ToNot(HaveOccurred())

				again, err := codec.Decode(codec.DateTime, codec.DateTime.Encode(t))
				Expect(err).ToNot(HaveOccurred())
				Expect(again.Equal(t)).To(BeTrue())
			},
			Entry("UTC", "2024-03-01T08:30:00Z"),
			Entry("with fraction", "2024-03-01T08:30:00.123456Z"),
			Entry("with offset", "2024-03-01T08:30:00-05:00"),
			Entry("with basic-format offset", "2024-05-01T08:00:00+0100"),
			Entry("with basic-format offset and fraction", "2024-05-01T08:00:00.250-0330"),
			Entry("without offset", "2024-03-01T08:30:00"),
		)

		It("reads basic-format offsets", func() {
			t, err := codec.Decode(codec.DateTime, "2024-05-01T08:00:00+0100")
			Expect(err).ToNot(HaveOccurred())
			Expect(t.Equal(time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC))).To(BeTrue())
		})

		It("reads offset-less timestamps as UTC", func() {
			t, err := codec.Decode(codec.DateTime, "2024-03-01T08:30:00")
			Expect(err).ToNot(HaveOccurred())
			Expect(t).To(Equal(time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)))
		})

		DescribeTable("rejects malformed input",
			func(raw any) {
				_, err := codec.Decode(codec.DateTime, raw)
				Expect(err).To(HaveOccurred())
			},
			Entry("date only", "2024-03-01"),
			Entry("garbage", "yesterday"),
			Entry("month 13", "2024-13-01T00:00:00Z"),
			Entry("a number", float64(1700000000)),
		)
	})

	Describe("Date and TimeOfDay", func() {
		It("decodes calendar dates", func() {
			d, err := codec.Decode(codec.Date, "2024-02-29")
			Expect(err).ToNot(HaveOccurred())
			Expect(d).To(Equal(codec.LocalDate{Year: 2024, Month: time.February, Day: 29}))
			Expect(codec.Date.Encode(d)).To(Equal("2024-02-29"))

			_, err = codec.Decode(codec.Date, "2023-02-29")
			Expect(err).To(HaveOccurred())
		})

		It("decodes times of day with and without seconds", func() {
			t, err := codec.Decode(codec.TimeOfDay, "07:45")
			Expect(err).ToNot(HaveOccurred())
			Expect(t.String()).To(Equal("07:45:00"))

			t, err = codec.Decode(codec.TimeOfDay, "07:45:30.25")
			Expect(err).ToNot(HaveOccurred())
			Expect(t.String()).To(Equal("07:45:30.25"))

			_, err = codec.Decode(codec.TimeOfDay, "25:00")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Duration", func() {
		It("decodes ISO-8601 durations", func() {
			d, err := codec.Decode(codec.Duration, "PT1H30M")
			Expect(err).ToNot(HaveOccurred())
			Expect(d).To(Equal(90 * time.Minute))
		})

		It("rejects plain Go durations", func() {
			_, err := codec.Decode(codec.Duration, "1h30m")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Nullable", func() {
		nullable := codec.Nullable(codec.NonEmptyString)

		It("maps null to None", func() {
			v, err := codec.Decode(nullable, nil)
			Expect(err).ToNot(HaveOccurred())
			Expect(v.IsPresent()).To(BeFalse())
		})

		It("maps a valid value to Some", func() {
			v, err := codec.Decode(nullable, "x")
			Expect(err).ToNot(HaveOccurred())
			got, ok := v.Get()
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal("x"))
		})

		It("still validates present values", func() {
			_, err := codec.Decode(nullable, "")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("JSONString", func() {
		fields := codec.JSONString(codec.Object("Fields", func(f *codec.Fields) map[string]string {
			return map[string]string{
				"key":    codec.Required(f, "key", codec.String),
				"policy": codec.Required(f, "policy", codec.String),
			}
		}))

		It("decodes embedded documents", func() {
			v, err := codec.Decode(fields, `{"key":"uploads/1","policy":"abc"}`)
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(HaveKeyWithValue("key", "uploads/1"))
		})

		It("reports unparseable documents", func() {
			_, err := codec.Decode(fields, `{"key":`)
			Expect(err).To(MatchError(ContainSubstring("expected JSON string")))
		})
	})
})

var _ = Describe("Object codecs", func() {
	It("decodes a complete object", func() {
		w, err := decodeJSON[widget](widgetCodec, `{
			"id": "w-1", "name": "Widget", "color": "RED", "note": "hi",
			"tags": ["a", "b"], "department": {"id": "d-1", "name": "Ops"}
		}`)
		Expect(err).ToNot(HaveOccurred())
		Expect(w.ID.String()).To(Equal("w-1"))
		Expect(w.Note.OrElse("")).To(Equal("hi"))
		Expect(w.Tags).To(Equal([]string{"a", "b"}))
		dep, ok := w.Department.Get()
		Expect(ok).To(BeTrue())
		Expect(dep.Name).To(Equal("Ops"))
	})

	It("treats missing and null optional fields alike", func() {
		w, err := decodeJSON[widget](widgetCodec, `{"id": "w-1", "name": "Widget", "color": "BLUE", "note": null}`)
		Expect(err).ToNot(HaveOccurred())
		Expect(w.Note.IsPresent()).To(BeFalse())
		Expect(w.Department.IsPresent()).To(BeFalse())
		Expect(w.Tags).To(BeEmpty())
	})

	It("lists the path of a missing required field", func() {
		_, err := decodeJSON[widget](widgetCodec, `{"id": "w-1", "color": "BLUE"}`)
		Expect(issuePaths(err)).To(Equal([]string{"name"}))
		Expect(err).To(MatchError(ContainSubstring("required field is missing")))
	})

	It("collects every issue with dotted and indexed paths", func() {
		_, err := decodeJSON[widget](widgetCodec, `{
			"id": "", "name": "Widget", "color": "GREEN",
			"tags": ["ok", 3, "fine", null],
			"department": {"id": "d-1", "name": ""}
		}`)
		Expect(issuePaths(err)).To(Equal([]string{"id", "color", "tags.1", "tags.3", "department.name"}))
	})

	It("rejects non-object input", func() {
		_, err := codec.Decode[widget](widgetCodec, []any{})
		Expect(issuePaths(err)).To(Equal([]string{""}))
		Expect(err).To(MatchError(ContainSubstring("expected Widget, got array")))
	})

	It("reports the fields its builder reads", func() {
		shapes := widgetCodec.FieldShapes()
		names := make([]string, 0, len(shapes))
		for _, s := range shapes {
			names = append(names, s.Name)
		}
		Expect(names).To(Equal([]string{"id", "name", "color", "note", "tags", "department"}))
		Expect(shapes[0].Required).To(BeTrue())
		Expect(shapes[3].Required).To(BeFalse())
		Expect(widgetCodec.TypeName()).To(Equal("Widget"))
	})
})

var _ = Describe("ToWire", func() {
	It("omits absent options instead of sending null", func() {
		wire, err := codec.ToWireMap(widget{
			ID:    codec.MustID[widgetKind]("w-1"),
			Name:  "Widget",
			Color: red,
			Note:  codec.None[string](),
			Tags:  []string{"a"},
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(wire).To(HaveKeyWithValue("id", "w-1"))
		Expect(wire).To(HaveKeyWithValue("color", "RED"))
		Expect(wire).ToNot(HaveKey("note"))
		Expect(wire).ToNot(HaveKey("department"))
	})

	It("omits unassigned identifiers", func() {
		wire, err := codec.ToWireMap(department{Name: "Ops"})
		Expect(err).ToNot(HaveOccurred())
		Expect(wire).To(Equal(map[string]any{"name": "Ops"}))
	})

	It("encodes present options as their value", func() {
		wire, err := codec.ToWireMap(widget{
			ID:         codec.MustID[widgetKind]("w-1"),
			Note:       codec.Some("hello"),
			Department: codec.Some(department{ID: codec.MustID[gadgetKind]("d-1"), Name: "Ops"}),
		})
		Expect(err).ToNot(HaveOccurred())
		Expect(wire).To(HaveKeyWithValue("note", "hello"))
		Expect(wire).To(HaveKeyWithValue("department", map[string]any{"id": "d-1", "name": "Ops"}))
	})

	It("reports values the wire cannot carry", func() {
		type reading struct {
			Value float64 `json:"value"`
		}

		readingCodec := codec.Object("Reading", func(f *codec.Fields) reading {
			return reading{Value: codec.Required(f, "value", codec.Float)}
		})

		_, err := readingCodec.EncodeWire(reading{Value: math.NaN()})
		Expect(err).To(MatchError(ContainSubstring("encode Reading")))
		Expect(readingCodec.Encode(reading{Value: math.NaN()})).To(BeNil())

		wire, err := readingCodec.EncodeWire(reading{Value: 1.5})
		Expect(err).ToNot(HaveOccurred())
		Expect(wire).To(Equal(map[string]any{"value": 1.5}))
	})

	It("decodes what it encodes", func() {
		original := widget{
			ID: codec.MustID[widgetKind]("w-9"), Name: "Nine", Color: blue,
			Tags: []string{"x"}, Note: codec.Some("n"),
		}
		decoded, err := codec.Decode[widget](widgetCodec, widgetCodec.Encode(original))
		Expect(err).ToNot(HaveOccurred())
		Expect(decoded).To(Equal(original))
	})
})
