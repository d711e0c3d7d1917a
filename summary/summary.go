// Package summary projects a resolved patient onto the fields shown in the dashboard panel
package summary

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/tidepool-org/vitals/patients"
	"github.com/tidepool-org/vitals/pointer"
)

const (
	Placeholder   = "-"
	NotFoundName  = "Patient not found"
	MetaSeparator = " • "

	LabelEmail       = "Email"
	LabelPhone       = "Phone"
	LabelAddress     = "Address"
	LabelPrimaryCare = "Primary Care"
)

type Detail struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Display struct {
	Found   bool     `json:"found"`
	Name    string   `json:"name"`
	Meta    string   `json:"meta"`
	Avatar  string   `json:"avatar"`
	Details []Detail `json:"details"`

	// AvatarGenerated is set when Avatar is the initials placeholder
	AvatarGenerated bool `json:"avatarGenerated"`
}

// Project maps the patient to display fields. A nil patient yields the not found placeholder.
func Project(patient *patients.Patient) Display {
	if patient == nil {
		return NotFound()
	}

	avatarUrl, generated := avatar(patient)
	return Display{
		Found:           true,
		Name:            patient.FullName,
		Meta:            meta(patient),
		Avatar:          avatarUrl,
		AvatarGenerated: generated,
		Details: []Detail{
			{Label: LabelEmail, Value: pointer.ToStringOr(patient.Email, Placeholder)},
			{Label: LabelPhone, Value: pointer.ToStringOr(patient.Phone, Placeholder)},
			{Label: LabelAddress, Value: pointer.ToStringOr(patient.Address, Placeholder)},
			{Label: LabelPrimaryCare, Value: pointer.ToStringOr(patient.PrimaryCare, Placeholder)},
		},
	}
}

func NotFound() Display {
	return Display{
		Found: false,
		Name:  NotFoundName,
	}
}

// Detail returns the value of the detail with the given label
func (d Display) Detail(label string) (string, bool) {
	for _, detail := range d.Details {
		if detail.Label == label {
			return detail.Value, true
		}
	}
	return "", false
}

func meta(patient *patients.Patient) string {
	parts := make([]string, 0, 3)
	for _, part := range []*string{patient.AgeOrYearOfBirth, patient.Gender, patient.Identifier} {
		if s := strings.TrimSpace(pointer.ToString(part)); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, MetaSeparator)
}

func avatar(patient *patients.Patient) (string, bool) {
	if url := pointer.ToString(patient.AvatarUrl); strings.TrimSpace(url) != "" {
		return url, false
	}
	return InitialsAvatar(patient.FullName), true
}

const avatarTemplate = "data:image/svg+xml;utf8,<svg xmlns='http://www.w3.org/2000/svg' width='72' height='72'>" +
	"<rect width='100%%' height='100%%' fill='%%23e6eefb'/>" +
	"<text x='50%%' y='50%%' font-size='14' fill='%%23344' text-anchor='middle' alignment-baseline='central'>%s</text></svg>"

// InitialsAvatar returns an SVG data URI showing the initials of the first two words of name
func InitialsAvatar(name string) string {
	return fmt.Sprintf(avatarTemplate, Initials(name))
}

func Initials(name string) string {
	var initials []rune
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				initials = append(initials, unicode.ToUpper(r))
				break
			}
		}
		if len(initials) == 2 {
			break
		}
	}
	if len(initials) == 0 {
		return "?"
	}
	return string(initials)
}
