package specification

import (
	"strings"

	"github.com/prathmeshnaik91/skinet/internal/domain"
)

func UserByEmail(email string) Specification[domain.AppUser] {
	return NewBaseSpecification[domain.AppUser](Eq("email", strings.ToLower(strings.TrimSpace(email))))
}

func UserWithAddressByEmail(email string) Specification[domain.AppUser] {
	s := NewBaseSpecification[domain.AppUser](Eq("email", strings.ToLower(strings.TrimSpace(email))))
	s.AddInclude("Address")
	return s
}
