package test

import (
	"math/rand"

	"github.com/jaswdr/faker"
	"github.com/onsi/ginkgo/v2"
)

var (
	Faker  = faker.NewWithSeed(Source)
	Rand   = rand.New(Source)
	Source = rand.NewSource(ginkgo.GinkgoRandomSeed())
)

// RandomReading returns a plausible blood pressure reading
func RandomReading() (systolic, diastolic int) {
	systolic = 95 + Rand.Intn(60)
	diastolic = 55 + Rand.Intn(40)
	return
}

// RandomName returns a first and last name
func RandomName() (first, last string) {
	person := Faker.Person()
	return person.FirstName(), person.LastName()
}
