package patients_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/tidepool-org/vitals/patients"
	patientsTest "github.com/tidepool-org/vitals/patients/test"
	"github.com/tidepool-org/vitals/records"
	"github.com/tidepool-org/vitals/test"
)

var _ = Describe("Patient", func() {
	decode := func(body string) records.Record {
		record, ok := records.Of(test.MustDecode(body)).Object()
		Expect(ok).To(BeTrue())
		return record
	}

	Describe("Address", func() {
		It("prefers the street", func() {
			patient := patients.FromRecord(decode(`{"address": {"street": "1 Main St", "city": "Springfield"}, "location": "x"}`))
			Expect(*patient.Address).To(Equal("1 Main St"))
		})

		It("falls back to the city", func() {
			patient := patients.FromRecord(decode(`{"address": {"street": "", "city": "Springfield"}}`))
			Expect(*patient.Address).To(Equal("Springfield"))
		})

		It("accepts a plain string", func() {
			patient := patients.FromRecord(decode(`{"address": "12 Elm Rd"}`))
			Expect(*patient.Address).To(Equal("12 Elm Rd"))
		})

		It("falls back to the location", func() {
			patient := patients.FromRecord(decode(`{"address": {"zip": 12345}, "location": "Richmond, VA"}`))
			Expect(*patient.Address).To(Equal("Richmond, VA"))
		})

		It("is unresolved without any address field", func() {
			patient := patients.FromRecord(decode(`{"name": "a"}`))
			Expect(patient.Address).To(BeNil())
		})
	})

	It("keeps an explicit zero age", func() {
		patient := patients.FromRecord(decode(`{"age": 0, "yob": 1990}`))
		Expect(*patient.AgeOrYearOfBirth).To(Equal("0"))
	})

	It("falls back to the year of birth", func() {
		patient := patients.FromRecord(decode(`{"age": null, "year_of_birth": "1990"}`))
		Expect(*patient.AgeOrYearOfBirth).To(Equal("1990"))
	})

	It("has an empty full name when no name field resolves", func() {
		patient := patients.FromRecord(decode(`{"id": 7}`))
		Expect(patient.FullName).To(BeEmpty())
		Expect(*patient.Identifier).To(Equal("7"))
	})

	It("resolves random records with primary keys", func() {
		record := patientsTest.RandomPatientRecord()
		patient := patients.FromRecord(record)
		Expect(patient.FullName).To(Equal(record["name"]))
		Expect(*patient.Email).To(Equal(record["email"]))
		Expect(*patient.PrimaryCare).To(Equal(record["primary_care"]))
		Expect(patients.UnmappedFields(record).Cardinality()).To(BeZero())
	})

	Describe("Normalize", func() {
		It("folds case and collapses whitespace", func() {
			Expect(patients.Normalize("  JESSICA \n  Taylor ")).To(Equal("jessica taylor"))
		})
	})
})
