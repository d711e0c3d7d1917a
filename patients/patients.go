package patients

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/mitchellh/mapstructure"

	"github.com/tidepool-org/vitals/pointer"
	"github.com/tidepool-org/vitals/records"
)

// Fields lists the keys probed for every logical patient attribute, in priority order
var Fields = struct {
	FullName         records.Aliases
	FirstName        records.Aliases
	LastName         records.Aliases
	AgeOrYearOfBirth records.Aliases
	Gender           records.Aliases
	Identifier       records.Aliases
	Email            records.Aliases
	Phone            records.Aliases
	Address          records.Aliases
	Location         records.Aliases
	PrimaryCare      records.Aliases
	AvatarUrl        records.Aliases
}{
	FullName:         records.Aliases{"name", "full_name", "fullName"},
	FirstName:        records.Aliases{"first_name", "firstName"},
	LastName:         records.Aliases{"last_name", "lastName"},
	AgeOrYearOfBirth: records.Aliases{"age", "yob", "year_of_birth"},
	Gender:           records.Aliases{"gender", "sex"},
	Identifier:       records.Aliases{"id", "patient_id", "externalId"},
	Email:            records.Aliases{"email", "contact"},
	Phone:            records.Aliases{"phone", "mobile", "phone_number"},
	Address:          records.Aliases{"address"},
	Location:         records.Aliases{"location"},
	PrimaryCare:      records.Aliases{"primary_care", "clinic"},
	AvatarUrl:        records.Aliases{"avatar", "photo", "profile_picture"},
}

// Patient is the projection of a raw patient record onto the attributes the dashboard shows
type Patient struct {
	FullName         string  `json:"fullName"`
	FirstName        *string `json:"firstName,omitempty"`
	LastName         *string `json:"lastName,omitempty"`
	AgeOrYearOfBirth *string `json:"ageOrYearOfBirth,omitempty"`
	Gender           *string `json:"gender,omitempty"`
	Identifier       *string `json:"identifier,omitempty"`
	Email            *string `json:"email,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	Address          *string `json:"address,omitempty"`
	PrimaryCare      *string `json:"primaryCare,omitempty"`
	AvatarUrl        *string `json:"avatarUrl,omitempty"`

	Record records.Record `json:"-"`
}

type address struct {
	Street string `mapstructure:"street"`
	City   string `mapstructure:"city"`
}

// FromRecord resolves every attribute of a raw patient record. Attributes that no alias
// resolves are left nil.
func FromRecord(record records.Record) Patient {
	first := resolveText(record, Fields.FirstName)
	last := resolveText(record, Fields.LastName)

	return Patient{
		FullName:         FullName(record),
		FirstName:        first,
		LastName:         last,
		AgeOrYearOfBirth: resolveText(record, Fields.AgeOrYearOfBirth),
		Gender:           resolveText(record, Fields.Gender),
		Identifier:       resolveText(record, Fields.Identifier),
		Email:            resolveText(record, Fields.Email),
		Phone:            resolveText(record, Fields.Phone),
		Address:          resolveAddress(record),
		PrimaryCare:      resolveText(record, Fields.PrimaryCare),
		AvatarUrl:        resolveText(record, Fields.AvatarUrl),
		Record:           record,
	}
}

// FullName returns the explicit full name of the record when it is a non blank string,
// otherwise the first and last names joined by a space
func FullName(record records.Record) string {
	explicit := records.Of(record).ResolveFunc(Fields.FullName, func(v records.Value) bool {
		if v.Kind() != records.KindString {
			return false
		}
		s, _ := v.Text()
		return strings.TrimSpace(s) != ""
	})
	if name, ok := explicit.Text(); ok {
		return name
	}

	first, _ := records.ResolveText(record, Fields.FirstName)
	last, _ := records.ResolveText(record, Fields.LastName)
	return strings.TrimSpace(first + " " + last)
}

// UnmappedFields returns the keys of the record no alias table knows about
func UnmappedFields(record records.Record) mapset.Set[string] {
	known := records.KeySet(
		Fields.FullName, Fields.FirstName, Fields.LastName, Fields.AgeOrYearOfBirth, Fields.Gender,
		Fields.Identifier, Fields.Email, Fields.Phone, Fields.Address, Fields.Location,
		Fields.PrimaryCare, Fields.AvatarUrl,
	)
	return records.Keys(record).Difference(known)
}

func resolveText(record records.Record, aliases records.Aliases) *string {
	if s, ok := records.ResolveText(record, aliases); ok {
		return &s
	}
	return nil
}

func resolveAddress(record records.Record) *string {
	value := records.Resolve(record, Fields.Address)
	switch value.Kind() {
	case records.KindObject:
		var addr address
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			Result:           &addr,
		})
		if err == nil && decoder.Decode(value.Raw()) == nil {
			if street := pointer.FromNonBlank(addr.Street); street != nil {
				return street
			}
			if city := pointer.FromNonBlank(addr.City); city != nil {
				return city
			}
		}
	case records.KindString:
		if s, _ := value.Text(); strings.TrimSpace(s) != "" {
			return &s
		}
	}
	return resolveText(record, Fields.Location)
}
