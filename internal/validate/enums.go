package validate

import "strings"

const NotSelected = "not_selected"

var (
	Genders        = []string{"male", "female"}
	Departments    = []string{"men", "women", "youth", "children", NotSelected}
	SubDepartments = []string{"music", "ushers", "organizers", NotSelected}
	AuxDepartments = []string{"pathfinders", "young_singles", "royal_rangers", "missionettes", NotSelected}
	MemberTypes    = []string{"member", "pastor", NotSelected}
	OwnerKinds     = []string{"organization", "member"}
)

// Gender lower-cases the input before matching, so "Male" is accepted.
func Gender(value string, field string) (string, error) {
	return OneOf(strings.ToLower(strings.TrimSpace(value)), field, Genders...)
}

func Department(value string, field string) (string, error) {
	return enumOrDefault(value, field, Departments)
}

func SubDepartment(value string, field string) (string, error) {
	return enumOrDefault(value, field, SubDepartments)
}

func AuxDepartment(value string, field string) (string, error) {
	return enumOrDefault(value, field, AuxDepartments)
}

func MemberType(value string, field string) (string, error) {
	return enumOrDefault(value, field, MemberTypes)
}

func OwnerKind(value string, field string) (string, error) {
	return OneOf(strings.ToLower(strings.TrimSpace(value)), field, OwnerKinds...)
}

func enumOrDefault(value string, field string, allowed []string) (string, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return NotSelected, nil
	}
	return OneOf(value, field, allowed...)
}
