package records_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tidepool-org/vitals/records"
	"github.com/tidepool-org/vitals/test"
)

var _ = Describe("Records", func() {
	Describe("Resolve", func() {
		var record any

		BeforeEach(func() {
			record = test.MustDecode(`{"name": null, "full_name": "Jessica Taylor", "fullName": "Other", "age": 0, "empty": ""}`)
		})

		It("skips null values", func() {
			name, ok := records.Resolve(record, records.Aliases{"name", "full_name", "fullName"}).Text()
			Expect(ok).To(BeTrue())
			Expect(name).To(Equal("Jessica Taylor"))
		})

		It("keeps present zero values", func() {
			value := records.Resolve(record, records.Aliases{"age"})
			Expect(value.IsPresent()).To(BeTrue())
			age, ok := value.Number()
			Expect(ok).To(BeTrue())
			Expect(age).To(BeZero())
		})

		It("keeps present empty strings", func() {
			value := records.Resolve(record, records.Aliases{"empty", "full_name"})
			Expect(value.Kind()).To(Equal(records.KindString))
			text, _ := value.Text()
			Expect(text).To(BeEmpty())
		})

		It("returns absent when no alias resolves", func() {
			value := records.Resolve(record, records.Aliases{"missing", "name"})
			Expect(value.IsPresent()).To(BeFalse())
			Expect(value.Kind()).To(Equal(records.KindAbsent))
		})

		It("never panics on non object input", func() {
			for _, input := range []any{nil, "text", 12, true, []any{}} {
				Expect(func() {
					Expect(records.Resolve(input, records.Aliases{"name"}).IsPresent()).To(BeFalse())
				}).ToNot(Panic())
			}
		})
	})

	Describe("ResolveText", func() {
		It("skips blank strings", func() {
			record := test.MustDecode(`{"name": "  ", "full_name": "Jessica Taylor"}`)
			name, ok := records.ResolveText(record, records.Aliases{"name", "full_name"})
			Expect(ok).To(BeTrue())
			Expect(name).To(Equal("Jessica Taylor"))
		})

		It("renders numbers as text", func() {
			record := test.MustDecode(`{"age": 45}`)
			age, ok := records.ResolveText(record, records.Aliases{"age"})
			Expect(ok).To(BeTrue())
			Expect(age).To(Equal("45"))
		})
	})

	Describe("Value", func() {
		It("coerces numeric strings", func() {
			n, ok := records.Of(" 118 ").Number()
			Expect(ok).To(BeTrue())
			Expect(n).To(Equal(118.0))
		})

		It("rejects blank and non numeric strings", func() {
			_, ok := records.Of("").Number()
			Expect(ok).To(BeFalse())
			_, ok = records.Of("high").Number()
			Expect(ok).To(BeFalse())
		})

		It("reads decoded numbers", func() {
			n, ok := records.Of(test.MustDecode(`125.5`)).Number()
			Expect(ok).To(BeTrue())
			Expect(n).To(Equal(125.5))
		})

		It("does not treat booleans as numbers", func() {
			_, ok := records.Of(true).Number()
			Expect(ok).To(BeFalse())
		})

		It("indexes arrays positionally", func() {
			value := records.Of(test.MustDecode(`[118, 76]`))
			n, ok := value.Index(1).Number()
			Expect(ok).To(BeTrue())
			Expect(n).To(Equal(76.0))
			Expect(value.Get("0").IsPresent()).To(BeTrue())
			Expect(value.Index(2).IsPresent()).To(BeFalse())
			Expect(value.Index(-1).IsPresent()).To(BeFalse())
		})

		It("indexes objects by positional keys", func() {
			value := records.Of(test.MustDecode(`{"0": 118, "1": 76}`))
			n, ok := value.Index(0).Number()
			Expect(ok).To(BeTrue())
			Expect(n).To(Equal(118.0))
		})

		It("unwraps arrays and objects", func() {
			items, ok := records.Of(test.MustDecode(`[1, "a", null]`)).Array()
			Expect(ok).To(BeTrue())
			Expect(items).To(HaveLen(3))
			Expect(items[2].Kind()).To(Equal(records.KindNull))

			_, ok = records.Of("a").Array()
			Expect(ok).To(BeFalse())

			obj, ok := records.Of(test.MustDecode(`{"a": 1}`)).Object()
			Expect(ok).To(BeTrue())
			Expect(obj).To(HaveKey("a"))
		})
	})

	Describe("Keys", func() {
		It("returns the keys not covered by alias tables", func() {
			record := test.MustDecode(`{"name": "Jessica", "email": "j@example.com", "insurance": "none"}`)
			known := records.KeySet(records.Aliases{"name"}, records.Aliases{"email", "contact"})
			unmapped := records.Keys(record).Difference(known)
			Expect(unmapped.ToSlice()).To(ConsistOf("insurance"))
		})

		It("is empty for non objects", func() {
			Expect(records.Keys([]any{1}).Cardinality()).To(BeZero())
		})
	})
})
