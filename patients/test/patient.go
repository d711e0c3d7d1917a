package test

import (
	"fmt"

	"github.com/tidepool-org/vitals/records"
	"github.com/tidepool-org/vitals/test"
)

var genders = []string{"Female", "Male"}

// RandomPatientRecord returns a raw record using the primary key of every alias table
func RandomPatientRecord() records.Record {
	first, last := test.RandomName()
	return records.Record{
		"name":         fmt.Sprintf("%s %s", first, last),
		"first_name":   first,
		"last_name":    last,
		"age":          float64(18 + test.Rand.Intn(70)),
		"gender":       genders[test.Rand.Intn(len(genders))],
		"id":           test.Faker.UUID().V4(),
		"email":        test.Faker.Internet().Email(),
		"phone":        fmt.Sprintf("(555) %03d-%04d", test.Rand.Intn(1000), test.Rand.Intn(10000)),
		"address":      map[string]any{"street": test.Faker.Address().Address(), "city": test.Faker.Address().City()},
		"primary_care": test.Faker.Company().Name(),
	}
}

// RandomPatientList returns n random records followed by the given records
func RandomPatientList(n int, trailing ...records.Record) []any {
	list := make([]any, 0, n+len(trailing))
	for i := 0; i < n; i++ {
		list = append(list, map[string]any(RandomPatientRecord()))
	}
	for _, record := range trailing {
		list = append(list, map[string]any(record))
	}
	return list
}
